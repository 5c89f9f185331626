package dbc

import (
	"fmt"
	"os"

	"github.com/candbc/canbus"
)

// Message is a DBC message (BO_ line) together with its signals.
type Message struct {
	ID      uint32
	Name    string
	DLC     int
	Signals []*Signal
}

// Dbc is an immutable-after-construction catalog of messages parsed from
// DBC text, indexed both by name (primary) and by id (secondary), per the
// data model.
type Dbc struct {
	byName map[string]*Message
	byID   map[uint32]*Message
}

// Load reads and parses a DBC file at path.
func Load(path string) (*Dbc, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dbc: read %s: %w", path, err)
	}
	return New(string(text))
}

// New parses DBC text into a catalog. Malformed or unrecognized lines are
// skipped silently, per spec; duplicate message names overwrite the
// previous entry.
func New(text string) (*Dbc, error) {
	messages := parse(text)
	d := &Dbc{
		byName: make(map[string]*Message, len(messages)),
		byID:   make(map[uint32]*Message, len(messages)),
	}
	for _, m := range messages {
		if old, ok := d.byName[m.Name]; ok {
			delete(d.byID, old.ID)
		}
		d.byName[m.Name] = m
		d.byID[m.ID] = m
	}
	return d, nil
}

// Message looks up a message by name.
func (d *Dbc) Message(name string) (*Message, bool) {
	m, ok := d.byName[name]
	return m, ok
}

// MessageByID looks up a message by identifier.
func (d *Dbc) MessageByID(id uint32) (*Message, bool) {
	m, ok := d.byID[id]
	return m, ok
}

// Messages returns every message in the catalog, in no particular order.
func (d *Dbc) Messages() []*Message {
	out := make([]*Message, 0, len(d.byName))
	for _, m := range d.byName {
		out = append(out, m)
	}
	return out
}

// EncodeCAN encodes values (keyed by signal name) into the named message's
// id and payload bytes. Input keys that don't match a declared signal are
// ignored. Fails with KindUnknownMessage if name isn't in the catalog, or
// with KindSignalOutOfRange/KindSignalExceedsMessage if a value can't be
// packed.
func (d *Dbc) EncodeCAN(name string, values map[string]float64) (id uint32, data []byte, err error) {
	msg, ok := d.byName[name]
	if !ok {
		return 0, nil, &canbus.Error{Kind: canbus.KindUnknownMessage, Message: fmt.Sprintf("no message named %q", name)}
	}

	data = make([]byte, msg.DLC)
	for _, sig := range msg.Signals {
		val, ok := values[sig.Name]
		if !ok {
			continue
		}
		if err := sig.Pack(data, val, msg.DLC); err != nil {
			return 0, nil, err
		}
	}
	return msg.ID, data, nil
}

// DecodeCAN decodes data against the message matching id, returning its
// name and a map of signal name to engineering value. ok is false (with a
// nil error) if no message matches id -- a linear scan or map miss, not a
// failure. A non-nil error means a matching message's signal could not be
// decoded (e.g. data shorter than its bit range requires).
func (d *Dbc) DecodeCAN(id uint32, data []byte) (name string, signals map[string]float64, ok bool, err error) {
	msg, found := d.byID[id]
	if !found {
		return "", nil, false, nil
	}

	signals = make(map[string]float64, len(msg.Signals))
	for _, sig := range msg.Signals {
		val, uerr := sig.Unpack(data)
		if uerr != nil {
			return "", nil, false, uerr
		}
		signals[sig.Name] = val
	}
	return msg.Name, signals, true, nil
}
