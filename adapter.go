package canbus

// Adapter is the capability set {open, write, read, close} a Messenger
// drives. The default implementation is SocketCANAdapter (Linux raw CAN
// sockets); tests and non-Linux callers can substitute LoopbackAdapter or
// their own implementation (e.g. a virtual CAN bridge, a simulator, or a
// transport over something other than SocketCAN entirely).
type Adapter interface {
	// Open acquires the underlying transport bound to iface, configuring it
	// for FD frames when fd is true and the transport supports it. Returns
	// a *Error with KindSocketOpenError on failure.
	Open(iface string, fd bool) error

	// WriteFrame issues a single write of the whole wire-encoded frame. No
	// partial-write tolerance: CAN_RAW sockets are record-oriented.
	WriteFrame(frame []byte) error

	// ReadFrame blocks up to the adapter's configured receive timeout for
	// one frame, sized for FD (72 bytes) or Classic (16 bytes) framing. It
	// returns (nil, nil) on timeout -- timeout is not an error, it is "no
	// frame this tick".
	ReadFrame(fd bool) ([]byte, error)

	// Close releases the underlying transport unconditionally. Close must
	// be safe to call more than once.
	Close() error
}
