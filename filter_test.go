package canbus

import "testing"

// Invariant 8 - filter matching semantics.
func TestFilter_Matches(t *testing.T) {
	if !NoFilter().Matches(0x123) || !NoFilter().Matches(0) {
		t.Fatal("absent filter should accept everything")
	}

	exact := ExactFilter(0x100)
	if !exact.Matches(0x100) || exact.Matches(0x101) {
		t.Fatalf("ExactFilter mismatch")
	}

	// S9 - range filter.
	r := RangeFilter(0x100, 0x200)
	if !r.Matches(0x150) {
		t.Fatal("0x150 should be in range [0x100,0x200]")
	}
	if r.Matches(0x300) {
		t.Fatal("0x300 should be outside range [0x100,0x200]")
	}
	if !r.Matches(0x100) || !r.Matches(0x200) {
		t.Fatal("range bounds should be inclusive")
	}

	// Swapped bounds are corrected.
	rSwapped := RangeFilter(0x200, 0x100)
	if !rSwapped.Matches(0x150) {
		t.Fatal("swapped range bounds should still match")
	}

	set := SetFilter(0x10, 0x20, 0x30)
	if !set.Matches(0x20) || set.Matches(0x40) {
		t.Fatal("SetFilter mismatch")
	}
}

func TestFilter_Compositions(t *testing.T) {
	a := RangeFilter(0, 0xFF)
	b := ExactFilter(0x10)

	and := And(a, b)
	if !and.Matches(0x10) || and.Matches(0x200) {
		t.Fatal("And mismatch")
	}

	or := Or(ExactFilter(0x10), ExactFilter(0x20))
	if !or.Matches(0x10) || !or.Matches(0x20) || or.Matches(0x30) {
		t.Fatal("Or mismatch")
	}

	not := Not(ExactFilter(0x10))
	if not.Matches(0x10) || !not.Matches(0x11) {
		t.Fatal("Not mismatch")
	}

	mask := ByMask(0x100, 0xF00)
	if !mask.Matches(0x123) || mask.Matches(0x223) {
		t.Fatal("ByMask mismatch")
	}
}
