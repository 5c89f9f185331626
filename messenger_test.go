package canbus

import (
	"sync"
	"testing"
	"time"
)

func TestMessenger_SendRaw(t *testing.T) {
	adapter := NewLoopbackAdapter()
	m := NewMessenger("vcan0", WithAdapter(adapter))

	if err := m.SendRaw(0x123, []byte{0xDE, 0xAD}, false, nil); err != nil {
		t.Fatalf("SendRaw: %v", err)
	}

	sent := adapter.Sent()
	if len(sent) != 1 {
		t.Fatalf("got %d sent frames, want 1", len(sent))
	}
	f, err := ParseFrame(sent[0], nil, BigEndian)
	if err != nil {
		t.Fatalf("ParseFrame: %v", err)
	}
	if f.ID != 0x123 {
		t.Fatalf("id = %#x, want 0x123", f.ID)
	}
}

func TestMessenger_SendRaw_InvalidLengthPropagates(t *testing.T) {
	adapter := NewLoopbackAdapter()
	m := NewMessenger("vcan0", WithAdapter(adapter))

	err := m.SendRaw(0x123, make([]byte, 9), false, nil)
	if err == nil {
		t.Fatal("expected InvalidLength error to propagate")
	}
	if kind, ok := KindOf(err); !ok || kind != KindInvalidLength {
		t.Fatalf("got kind %v, ok=%v", kind, ok)
	}
	if len(adapter.Sent()) != 0 {
		t.Fatal("no frame should have been written on a codec error")
	}
}

type fakeDBC struct {
	id   uint32
	data []byte
	err  error
}

func (f *fakeDBC) EncodeCAN(name string, values map[string]float64) (uint32, []byte, error) {
	return f.id, f.data, f.err
}

func TestMessenger_SendWithDBC(t *testing.T) {
	adapter := NewLoopbackAdapter()
	m := NewMessenger("vcan0", WithAdapter(adapter))
	enc := &fakeDBC{id: 0x200, data: []byte{1, 2, 3}}

	if err := m.SendWithDBC(enc, "Example", map[string]float64{"Speed": 10}, false, nil); err != nil {
		t.Fatalf("SendWithDBC: %v", err)
	}
	sent := adapter.Sent()
	if len(sent) != 1 {
		t.Fatalf("got %d sent frames, want 1", len(sent))
	}
}

func TestMessenger_SendWithDBC_UnknownMessagePropagates(t *testing.T) {
	adapter := NewLoopbackAdapter()
	m := NewMessenger("vcan0", WithAdapter(adapter))
	enc := &fakeDBC{err: newErr(KindUnknownMessage, "no message named \"Bogus\"")}

	err := m.SendWithDBC(enc, "Bogus", nil, false, nil)
	if err == nil {
		t.Fatal("expected UnknownMessage error")
	}
	if kind, ok := KindOf(err); !ok || kind != KindUnknownMessage {
		t.Fatalf("got kind %v, ok=%v", kind, ok)
	}
}

// S9 - filter drops non-matching frames and delivers matching ones.
func TestMessenger_Listen_Filter(t *testing.T) {
	adapter := NewLoopbackAdapter()
	adapter.SetTimeout(20 * time.Millisecond)
	m := NewMessenger("vcan0", WithAdapter(adapter))

	match, _ := BuildFrame(0x150, []byte{1}, false, false, BigEndian)
	drop, _ := BuildFrame(0x300, []byte{2}, false, false, BigEndian)
	adapter.Inject(match)
	adapter.Inject(drop)

	var mu sync.Mutex
	var seen []uint32
	done := make(chan struct{})

	go func() {
		m.Listen(RangeFilter(0x100, 0x200), nil, nil, func(rf ReceivedFrame) {
			mu.Lock()
			seen = append(seen, rf.Frame.ID)
			mu.Unlock()
			if len(seen) == 1 {
				close(done)
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for filtered frame")
	}
	m.StopListening()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != 0x150 {
		t.Fatalf("seen = %v, want [0x150]", seen)
	}
}

// S8 - listener cancellation: stop_listening returns within about one
// receive-timeout interval even with no frames arriving.
func TestMessenger_StopListening_Cancellation(t *testing.T) {
	adapter := NewLoopbackAdapter()
	adapter.SetTimeout(20 * time.Millisecond)
	m := NewMessenger("vcan0", WithAdapter(adapter))

	returned := make(chan struct{})
	go func() {
		m.Listen(NoFilter(), nil, nil, func(ReceivedFrame) {})
		close(returned)
	}()

	time.Sleep(30 * time.Millisecond)
	m.StopListening()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after StopListening")
	}
}

// Re-entry: Listen may run again after StopListening and resumes yielding
// frames.
func TestMessenger_Listen_ReEntry(t *testing.T) {
	first := NewLoopbackAdapter()
	first.SetTimeout(20 * time.Millisecond)
	adapter := &swapAdapter{Adapter: first}
	m := NewMessenger("vcan0", WithAdapter(adapter))

	returned := make(chan struct{})
	go func() {
		m.Listen(NoFilter(), nil, nil, func(ReceivedFrame) {})
		close(returned)
	}()
	time.Sleep(30 * time.Millisecond)
	m.StopListening()
	<-returned

	frame, _ := BuildFrame(0x1, []byte{9}, false, false, BigEndian)
	adapter2 := NewLoopbackAdapter()
	adapter2.SetTimeout(20 * time.Millisecond)
	adapter2.Inject(frame)
	// The first Listen closed its loopback; give the same Messenger a fresh one.
	adapter.Adapter = adapter2

	got := make(chan uint32, 1)
	go m.Listen(NoFilter(), nil, nil, func(rf ReceivedFrame) {
		select {
		case got <- rf.Frame.ID:
		default:
		}
	})
	select {
	case id := <-got:
		if id != 0x1 {
			t.Fatalf("id = %#x, want 0x1", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame on re-entered listener")
	}
	m.StopListening()
}

// swapAdapter forwards to whichever Adapter it currently holds, so a test
// can hand one Messenger a fresh LoopbackAdapter between Listen calls.
type swapAdapter struct {
	Adapter
}

type openCountingAdapter struct {
	Adapter
	opens int
}

func (a *openCountingAdapter) Open(iface string, fd bool) error {
	a.opens++
	return a.Adapter.Open(iface, fd)
}

func TestMessenger_Listen_NilCallback(t *testing.T) {
	adapter := &openCountingAdapter{Adapter: NewLoopbackAdapter()}
	m := NewMessenger("vcan0", WithAdapter(adapter))
	m.Listen(NoFilter(), nil, nil, nil)
	if adapter.opens != 0 {
		t.Fatalf("Listen with a nil callback should not open a socket, got %d opens", adapter.opens)
	}
}
