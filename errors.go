package canbus

import (
	"errors"
	"fmt"
)

// Kind classifies the errors this package and its dbc subpackage can
// produce, following the propagation policy in the design notes: argument
// and usage errors are returned to the caller, transport and callback
// errors are logged and swallowed by the listener.
type Kind int

const (
	// KindInvalidLength: payload exceeds 8 bytes (Classic) or 64 bytes (FD).
	// Frame.Validate also reports an identifier wider than 29 bits with it.
	KindInvalidLength Kind = iota
	// KindIncomplete: a buffer too short to contain a frame was parsed.
	KindIncomplete
	// KindUnknownMessage: a DBC encode/send referenced a non-existent message name.
	KindUnknownMessage
	// KindSignalOutOfRange: a signal value cannot be represented in its bit field/sign.
	KindSignalOutOfRange
	// KindSignalExceedsMessage: a signal's bit range extends past the message DLC.
	KindSignalExceedsMessage
	// KindBitPositionOutOfBounds: decode requested bits past the supplied buffer.
	KindBitPositionOutOfBounds
	// KindSocketOpenError: failure to open/bind/setsockopt a CAN socket.
	KindSocketOpenError
	// KindTransportError: a write or read failure unrelated to timeout.
	KindTransportError
	// KindParseError: malformed incoming frame bytes.
	KindParseError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidLength:
		return "InvalidLength"
	case KindIncomplete:
		return "Incomplete"
	case KindUnknownMessage:
		return "UnknownMessage"
	case KindSignalOutOfRange:
		return "SignalOutOfRange"
	case KindSignalExceedsMessage:
		return "SignalExceedsMessage"
	case KindBitPositionOutOfBounds:
		return "BitPositionOutOfBounds"
	case KindSocketOpenError:
		return "SocketOpenError"
	case KindTransportError:
		return "TransportError"
	case KindParseError:
		return "ParseError"
	default:
		return "Unknown"
	}
}

// Error is the error type returned for all kinds listed above. Callers can
// discriminate with errors.As and inspect Kind, or use KindOf below.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("canbus: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("canbus: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapErr(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of err if it (or something it wraps) is a *Error,
// and false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
