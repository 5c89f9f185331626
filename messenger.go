package canbus

import (
	"sync/atomic"
)

// Encoder is satisfied by a DBC catalog (see the dbc subpackage) and lets
// Messenger.SendWithDBC accept one without importing the dbc package,
// avoiding an import cycle between canbus and canbus/dbc.
type Encoder interface {
	EncodeCAN(name string, values map[string]float64) (id uint32, data []byte, err error)
}

// Decoder is the read-side counterpart of Encoder, satisfied by a DBC
// catalog.
type Decoder interface {
	DecodeCAN(id uint32, data []byte) (name string, signals map[string]float64, ok bool, err error)
}

// Decoded holds the result of a successful DBC decode attached to a
// received frame.
type Decoded struct {
	Name    string
	Signals map[string]float64
}

// ReceivedFrame is delivered to a Listen callback for every frame that
// passes the filter.
type ReceivedFrame struct {
	Frame   Frame
	Decoded *Decoded // nil when no Decoder was supplied or no message matched
}

// Callback processes one received frame. Panics raised by Callback are
// recovered and logged; the listen loop continues.
type Callback func(ReceivedFrame)

// Messenger glues an Adapter, a Filter, and an optional DBC Encoder/Decoder
// into send and listen operations against one CAN interface.
type Messenger struct {
	interfaceName string
	order         ByteOrder
	defaultFD     bool
	adapter       Adapter
	logger        Logger
	listening     atomic.Bool
}

// Option configures a Messenger at construction time.
type Option func(*Messenger)

// WithByteOrder overrides the identifier word byte order (default BigEndian).
func WithByteOrder(order ByteOrder) Option {
	return func(m *Messenger) { m.order = order }
}

// WithDefaultFD sets whether SendRaw/Listen use CAN FD framing when the
// caller doesn't override it explicitly (default false: Classic CAN).
func WithDefaultFD(fd bool) Option {
	return func(m *Messenger) { m.defaultFD = fd }
}

// WithLogger installs a Logger. The default discards all messages.
func WithLogger(logger Logger) Option {
	return func(m *Messenger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithAdapter installs a custom Adapter in place of the default
// SocketCANAdapter, e.g. a LoopbackAdapter for tests.
func WithAdapter(adapter Adapter) Option {
	return func(m *Messenger) {
		if adapter != nil {
			m.adapter = adapter
		}
	}
}

// NewMessenger returns a Messenger bound to the named CAN interface (e.g.
// "can0"), defaulting to a Linux SocketCANAdapter, BigEndian identifier
// packing, Classic CAN framing, and a discarding Logger.
func NewMessenger(interfaceName string, opts ...Option) *Messenger {
	m := &Messenger{
		interfaceName: interfaceName,
		order:         BigEndian,
		adapter:       NewSocketCANAdapter(),
		logger:        NewNopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// fdOrDefault resolves an optional per-call FD override against the
// Messenger's default.
func (m *Messenger) fdOrDefault(fd *bool) bool {
	if fd != nil {
		return *fd
	}
	return m.defaultFD
}

// SendRaw builds id/data/extended/fd into a wire frame and writes it
// through a scoped adapter acquisition: open, write, close, on every exit
// path. Codec errors (invalid length) propagate to the caller; an
// identifier wider than 29 bits is masked by BuildFrame, not rejected. Socket open/transport errors are logged and swallowed, per the
// propagation policy in the design notes.
func (m *Messenger) SendRaw(id uint32, data []byte, extended bool, fd *bool) error {
	useFD := m.fdOrDefault(fd)

	frame, err := BuildFrame(id, data, extended, useFD, m.order)
	if err != nil {
		return err
	}

	if err := m.adapter.Open(m.interfaceName, useFD); err != nil {
		m.logger.Log(LevelError, "canbus send: open failed", "interface", m.interfaceName, "error", err)
		return nil
	}
	defer m.adapter.Close()

	if err := m.adapter.WriteFrame(frame); err != nil {
		m.logger.Log(LevelError, "canbus send: write failed", "id", id, "error", err)
		return nil
	}
	return nil
}

// SendWithDBC encodes values for messageName through enc and sends the
// result via SendRaw. UnknownMessage and SignalOutOfRange/
// SignalExceedsMessage errors from the encoder propagate.
func (m *Messenger) SendWithDBC(enc Encoder, messageName string, values map[string]float64, extended bool, fd *bool) error {
	id, data, err := enc.EncodeCAN(messageName, values)
	if err != nil {
		return err
	}
	return m.SendRaw(id, data, extended, fd)
}

// Listen opens a scoped adapter and invokes callback for each frame that
// passes filter, until StopListening is called or the adapter fails to
// open. If dbc is non-nil and a message matches the received id, the
// callback's ReceivedFrame.Decoded is populated.
//
// Listen requires a non-nil callback; if callback is nil, it logs and
// returns without opening a socket. Listen is re-enterable: calling it
// again after StopListening resumes normal behavior.
func (m *Messenger) Listen(filter Filter, fd *bool, dbc Decoder, callback Callback) {
	if callback == nil {
		m.logger.Log(LevelError, "canbus listen: nil callback, not starting")
		return
	}

	useFD := m.fdOrDefault(fd)

	m.listening.Store(true)
	defer m.listening.Store(false)

	if err := m.adapter.Open(m.interfaceName, useFD); err != nil {
		m.logger.Log(LevelError, "canbus listen: open failed", "interface", m.interfaceName, "error", err)
		return
	}
	defer m.adapter.Close()

	for m.listening.Load() {
		buf, err := m.adapter.ReadFrame(useFD)
		if err != nil {
			m.logger.Log(LevelError, "canbus listen: read error", "error", err)
			continue
		}
		if buf == nil {
			continue // timeout: no frame this tick
		}

		frameFD := useFD
		frame, err := ParseFrame(buf, &frameFD, m.order)
		if err != nil {
			m.logger.Log(LevelWarn, "canbus listen: parse error", "error", err)
			continue
		}

		if !filter.Matches(frame.ID) {
			continue
		}

		var decoded *Decoded
		if dbc != nil {
			name, signals, ok, derr := dbc.DecodeCAN(frame.ID, frame.Data)
			if derr != nil {
				m.logger.Log(LevelWarn, "canbus listen: dbc decode error", "id", frame.ID, "error", derr)
			} else if ok {
				decoded = &Decoded{Name: name, Signals: signals}
			}
		}

		m.invokeCallback(callback, ReceivedFrame{Frame: frame, Decoded: decoded})
	}
}

// invokeCallback runs callback, recovering and logging any panic so the
// listen loop survives a misbehaving consumer.
func (m *Messenger) invokeCallback(callback Callback, rf ReceivedFrame) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Log(LevelError, "canbus listen: callback panic", "recover", r)
		}
	}()
	callback(rf)
}

// StopListening requests that the active Listen loop exit. It is a request
// observed at the next loop iteration boundary (after at most one receive
// timeout tick), and is idempotent and safe to call from any goroutine.
func (m *Messenger) StopListening() {
	m.listening.Store(false)
}
