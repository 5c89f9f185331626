package canbus

// LoggingAdapter wraps an Adapter and logs writes/reads through a Logger,
// adapted from the send/receive logging call sites a Messenger needs
// internally. Exposed separately so callers composing their own adapter
// stacks (e.g. around a non-SocketCAN transport) get the same logging for
// free.
type LoggingAdapter struct {
	inner     Adapter
	logger    Logger
	level     LogLevel
	logReads  bool
	logWrites bool
}

// NewLoggingAdapter wraps inner, logging at level when logReads/logWrites
// are true. Errors are always logged at LevelError regardless of these
// flags.
func NewLoggingAdapter(inner Adapter, logger Logger, level LogLevel, logReads, logWrites bool) *LoggingAdapter {
	return &LoggingAdapter{inner: inner, logger: logger, level: level, logReads: logReads, logWrites: logWrites}
}

func (l *LoggingAdapter) Open(iface string, fd bool) error {
	err := l.inner.Open(iface, fd)
	if err != nil {
		l.logger.Log(LevelError, "canbus adapter open error", "interface", iface, "fd", fd, "error", err)
	} else if l.logWrites || l.logReads {
		l.logger.Log(l.level, "canbus adapter open", "interface", iface, "fd", fd)
	}
	return err
}

func (l *LoggingAdapter) WriteFrame(frame []byte) error {
	err := l.inner.WriteFrame(frame)
	if err != nil {
		l.logger.Log(LevelError, "canbus write error", "error", err)
	} else if l.logWrites {
		l.logger.Log(l.level, "canbus write", "bytes", len(frame))
	}
	return err
}

func (l *LoggingAdapter) ReadFrame(fd bool) ([]byte, error) {
	buf, err := l.inner.ReadFrame(fd)
	if err != nil {
		l.logger.Log(LevelError, "canbus read error", "error", err)
		return buf, err
	}
	if l.logReads && buf != nil {
		l.logger.Log(l.level, "canbus read", "bytes", len(buf))
	}
	return buf, err
}

func (l *LoggingAdapter) Close() error {
	err := l.inner.Close()
	if err != nil {
		l.logger.Log(LevelError, "canbus adapter close error", "error", err)
	}
	return err
}
