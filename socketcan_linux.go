//go:build linux

package canbus

import (
	"net"

	"golang.org/x/sys/unix"
)

// SocketCANAdapter implements Adapter over a Linux PF_CAN/SOCK_RAW/CAN_RAW
// socket using golang.org/x/sys/unix, following the same
// socket/bind/setsockopt sequence the rest of the retrieved corpus's
// SocketCAN code uses (named constants and typed sockaddrs instead of raw
// syscalls and unsafe.Pointer sockaddr literals).
type SocketCANAdapter struct {
	fd      int
	opened  bool
	closed  bool
	timeout unix.Timeval
}

// NewSocketCANAdapter returns an unopened Linux SocketCAN adapter using the
// default 1-second receive timeout.
func NewSocketCANAdapter() *SocketCANAdapter {
	return &SocketCANAdapter{
		fd:      -1,
		timeout: unix.Timeval{Sec: 1, Usec: 0},
	}
}

// Open creates a raw CAN socket, binds it to the named interface, sets the
// receive timeout, and -- when fd is true -- enables CAN_RAW_FD_FRAMES.
// Any failure returns a *Error with KindSocketOpenError.
func (s *SocketCANAdapter) Open(iface string, fd bool) error {
	sockFD, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return wrapErr(KindSocketOpenError, "socket", err)
	}

	netIf, err := net.InterfaceByName(iface)
	if err != nil {
		unix.Close(sockFD)
		return wrapErr(KindSocketOpenError, "interface lookup", err)
	}

	addr := &unix.SockaddrCAN{Ifindex: netIf.Index}
	if err := unix.Bind(sockFD, addr); err != nil {
		unix.Close(sockFD)
		return wrapErr(KindSocketOpenError, "bind", err)
	}

	if err := unix.SetsockoptTimeval(sockFD, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &s.timeout); err != nil {
		unix.Close(sockFD)
		return wrapErr(KindSocketOpenError, "setsockopt SO_RCVTIMEO", err)
	}

	if fd {
		if err := unix.SetsockoptInt(sockFD, unix.SOL_CAN_RAW, unix.CAN_RAW_FD_FRAMES, 1); err != nil {
			unix.Close(sockFD)
			return wrapErr(KindSocketOpenError, "setsockopt CAN_RAW_FD_FRAMES", err)
		}
	}

	s.fd = sockFD
	s.opened = true
	s.closed = false
	return nil
}

// WriteFrame issues a single write of the whole wire-encoded frame.
func (s *SocketCANAdapter) WriteFrame(frame []byte) error {
	n, err := unix.Write(s.fd, frame)
	if err != nil {
		return wrapErr(KindTransportError, "write", err)
	}
	if n != len(frame) {
		return wrapErr(KindTransportError, "short write", nil)
	}
	return nil
}

// ReadFrame blocks up to the configured SO_RCVTIMEO for one frame sized for
// FD (72 bytes) or Classic (16 bytes) framing, returning (nil, nil) when
// the kernel signals timeout via EAGAIN/EWOULDBLOCK.
func (s *SocketCANAdapter) ReadFrame(fd bool) ([]byte, error) {
	size := classicFrameSize
	if fd {
		size = fdFrameSize
	}
	buf := make([]byte, size)
	n, err := unix.Read(s.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, nil
		}
		return nil, wrapErr(KindTransportError, "read", err)
	}
	return buf[:n], nil
}

// Close releases the socket descriptor unconditionally. Safe to call more
// than once.
func (s *SocketCANAdapter) Close() error {
	if s.closed || !s.opened {
		s.closed = true
		return nil
	}
	s.closed = true
	return unix.Close(s.fd)
}
