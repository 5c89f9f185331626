package canbus

// FilterKind tags the variant held by a Filter. Expressing Filter as a
// tagged sum (rather than dispatching on a closure or a dynamic type) keeps
// Matches a simple switch and lets a Messenger log or introspect which kind
// of filter is installed.
type FilterKind int

const (
	// FilterNone matches every id. The zero value of Filter.
	FilterNone FilterKind = iota
	FilterExact
	FilterRange
	FilterSet
	// FilterPredicate escapes to an arbitrary predicate for compositions
	// (And/Or/Not/ByMask) that have no clean tagged-variant expression.
	FilterPredicate
)

// Filter is a tagged variant over the filter shapes spec.md requires:
// None | Exact(id) | Range(lo, hi) | Set(ids). The zero value is FilterNone
// and matches everything.
type Filter struct {
	Kind  FilterKind
	ID    uint32
	Lo    uint32
	Hi    uint32
	Set   map[uint32]struct{}
	Pred  func(id uint32) bool
}

// NoFilter returns a filter that matches every id.
func NoFilter() Filter { return Filter{Kind: FilterNone} }

// ExactFilter matches only the given id.
func ExactFilter(id uint32) Filter { return Filter{Kind: FilterExact, ID: id} }

// RangeFilter matches lo <= id <= hi, inclusive. If hi < lo the bounds are
// swapped defensively.
func RangeFilter(lo, hi uint32) Filter {
	if hi < lo {
		lo, hi = hi, lo
	}
	return Filter{Kind: FilterRange, Lo: lo, Hi: hi}
}

// SetFilter matches any id present in ids.
func SetFilter(ids ...uint32) Filter {
	m := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return Filter{Kind: FilterSet, Set: m}
}

// PredicateFilter wraps an arbitrary predicate. Used internally by
// And/Or/Not/ByMask; exported for callers with matching needs the tagged
// variants don't cover.
func PredicateFilter(pred func(id uint32) bool) Filter {
	return Filter{Kind: FilterPredicate, Pred: pred}
}

// ByMask matches when (id & mask) == (want & mask).
func ByMask(want, mask uint32) Filter {
	target := want & mask
	return PredicateFilter(func(id uint32) bool { return id&mask == target })
}

// Matches reports whether id passes the filter. An absent (FilterNone)
// filter accepts everything; an unrecognized Kind also defaults to
// permissive, per the spec's "otherwise true" fallback for unknown variants.
func (f Filter) Matches(id uint32) bool {
	switch f.Kind {
	case FilterNone:
		return true
	case FilterExact:
		return id == f.ID
	case FilterRange:
		return id >= f.Lo && id <= f.Hi
	case FilterSet:
		_, ok := f.Set[id]
		return ok
	case FilterPredicate:
		if f.Pred == nil {
			return true
		}
		return f.Pred(id)
	default:
		return true
	}
}

// And composes two filters; the result matches only when both match.
func And(a, b Filter) Filter {
	return PredicateFilter(func(id uint32) bool { return a.Matches(id) && b.Matches(id) })
}

// Or composes two filters; the result matches when either matches.
func Or(a, b Filter) Filter {
	return PredicateFilter(func(id uint32) bool { return a.Matches(id) || b.Matches(id) })
}

// Not inverts a filter.
func Not(a Filter) Filter {
	return PredicateFilter(func(id uint32) bool { return !a.Matches(id) })
}
