package canbus

import "github.com/sirupsen/logrus"

// LogLevel represents a logging severity, decoupled from the concrete
// logging library so callers can plug in their own sink.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is the minimal structured logger interface the Messenger and
// adapters write through. Key/value arguments are alternating key (string)
// and value pairs, e.g. Log(LevelInfo, "sent frame", "id", 0x123).
//
// Implementations must be safe for concurrent use: the design's shared
// resource policy requires the logger to be usable from whatever
// goroutine a caller runs Listen/SendRaw on.
type Logger interface {
	Log(level LogLevel, msg string, kv ...any)
}

// logrusLogger adapts logrus.FieldLogger to the Logger interface. logrus's
// own *Entry/*Logger are already safe for concurrent use, so no additional
// synchronization is needed here.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger returns a Logger backed by the given logrus.Logger. If l
// is nil, logrus.StandardLogger() is used.
func NewLogrusLogger(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (g *logrusLogger) Log(level LogLevel, msg string, kv ...any) {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	entry := g.entry.WithFields(fields)
	switch level {
	case LevelDebug:
		entry.Debug(msg)
	case LevelInfo:
		entry.Info(msg)
	case LevelWarn:
		entry.Warn(msg)
	case LevelError:
		entry.Error(msg)
	default:
		entry.Info(msg)
	}
}

// nopLogger discards everything. Used as the Messenger default when no
// Logger is supplied, so callers aren't forced to wire logrus just to send
// a frame.
type nopLogger struct{}

func (nopLogger) Log(LogLevel, string, ...any) {}

// NewNopLogger returns a Logger that discards all messages.
func NewNopLogger() Logger { return nopLogger{} }
