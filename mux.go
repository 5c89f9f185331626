package canbus

import "sync"

// Receiver is anything that can yield a sequence of frames one at a time,
// terminating the sequence by returning a non-nil error. A Messenger's
// socket isn't exposed this way (its socket is exclusively owned per
// Listen/SendRaw call, per the concurrency model), but a replayed capture
// (see the candump subpackage) or a test fixture naturally is.
type Receiver interface {
	ReceiveFrame() (Frame, error)
}

// Mux multiplexes frames from a single Receiver to any number of filtered
// subscribers. It runs one background goroutine reading the Receiver and
// fanning matching frames out to subscriber channels, so multiple
// consumers can each apply their own Filter to the same underlying stream
// without racing to read it themselves.
type Mux struct {
	recv Receiver
	stop chan struct{}

	mu   sync.RWMutex
	subs map[uint64]*muxSub
	next uint64
}

type muxSub struct {
	filter Filter
	ch     chan Frame
}

// NewMux creates and starts a multiplexer bound to the given Receiver.
func NewMux(recv Receiver) *Mux {
	m := &Mux{
		recv: recv,
		stop: make(chan struct{}),
		subs: make(map[uint64]*muxSub),
	}
	go m.run()
	return m
}

// Close stops the background reader and closes all subscriber channels.
func (m *Mux) Close() error {
	select {
	case <-m.stop:
		return nil
	default:
	}
	close(m.stop)
	m.mu.Lock()
	for id, s := range m.subs {
		close(s.ch)
		delete(m.subs, id)
	}
	m.mu.Unlock()
	return nil
}

// Subscribe registers a new subscriber matching filter. The returned
// channel receives frames that match; the cancel function must be called
// when the subscriber is no longer needed.
func (m *Mux) Subscribe(filter Filter, buffer int) (<-chan Frame, func()) {
	if buffer < 0 {
		buffer = 0
	}
	s := &muxSub{filter: filter, ch: make(chan Frame, buffer)}
	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = s
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		if cur, ok := m.subs[id]; ok && cur == s {
			close(cur.ch)
			delete(m.subs, id)
		}
		m.mu.Unlock()
	}
	return s.ch, cancel
}

func (m *Mux) run() {
	for {
		select {
		case <-m.stop:
			return
		default:
		}
		frame, err := m.recv.ReceiveFrame()
		if err != nil {
			m.mu.Lock()
			for id, s := range m.subs {
				close(s.ch)
				delete(m.subs, id)
			}
			m.mu.Unlock()
			return
		}
		m.mu.RLock()
		for _, s := range m.subs {
			if s.filter.Matches(frame.ID) {
				select {
				case s.ch <- frame:
				default:
					// Drop if subscriber is slow and its channel is full.
				}
			}
		}
		m.mu.RUnlock()
	}
}
