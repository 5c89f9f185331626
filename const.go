package canbus

import "time"

// defaultReceiveTimeout is the default SO_RCVTIMEO applied by
// SocketCANAdapter and mirrored by LoopbackAdapter for test parity, per
// spec.md's "Receive timeout value: 1 second (seconds=1, microseconds=0)".
const defaultReceiveTimeout = 1 * time.Second
