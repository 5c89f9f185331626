// Package candump reads and writes the line-oriented text format produced
// by Linux's candump -L, letting recorded bus traffic flow through the
// same Frame codec and Filter machinery used for a live SocketCAN socket
// -- useful for replaying captures in tests or offline analysis without a
// kernel CAN interface.
//
// A line looks like:
//
//	(1680000000.123456) can0 123#DEADBEEF
//	(1680000000.223456) can0 1ABCDEFF#DEADBEEF
//	(1680000000.323456) can0 123##1AA...AA
//
// where "##1" (vs a bare "#") marks a CAN FD frame, and an 8-hex-digit
// identifier marks an extended (29-bit) id.
package candump

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/candbc/canbus"
)

// RawFrame is one decoded line of a candump capture.
type RawFrame struct {
	Timestamp time.Time
	Interface string
	Frame     canbus.Frame
}

// Reader reads RawFrame records from a candump-format stream.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps r for line-oriented candump reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// ReadFrame returns the next record, or io.EOF once the stream is
// exhausted. Lines that don't parse as candump records are skipped.
func (r *Reader) ReadFrame() (RawFrame, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		rf, ok := parseLine(line)
		if !ok {
			continue
		}
		return rf, nil
	}
	if err := r.scanner.Err(); err != nil {
		return RawFrame{}, err
	}
	return RawFrame{}, io.EOF
}

// ReceiveFrame satisfies canbus.Receiver, letting a Reader feed a
// canbus.Mux directly so multiple filtered consumers can replay the same
// capture concurrently.
func (r *Reader) ReceiveFrame() (canbus.Frame, error) {
	rf, err := r.ReadFrame()
	if err != nil {
		return canbus.Frame{}, err
	}
	return rf.Frame, nil
}

func parseLine(line string) (RawFrame, bool) {
	var rf RawFrame

	if strings.HasPrefix(line, "(") {
		end := strings.Index(line, ")")
		if end < 0 {
			return RawFrame{}, false
		}
		secs, err := strconv.ParseFloat(line[1:end], 64)
		if err != nil {
			return RawFrame{}, false
		}
		rf.Timestamp = time.Unix(0, int64(secs*float64(time.Second)))
		line = strings.TrimSpace(line[end+1:])
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return RawFrame{}, false
	}
	rf.Interface = fields[0]

	idAndData := fields[1]
	fd := false
	sep := "#"
	if strings.Contains(idAndData, "##") {
		fd = true
		sep = "##"
	}
	parts := strings.SplitN(idAndData, sep, 2)
	if len(parts) != 2 {
		return RawFrame{}, false
	}
	idText, dataText := parts[0], parts[1]
	if fd && len(dataText) > 0 {
		// candump -L prefixes FD payloads with a 1-digit flags nibble.
		dataText = dataText[1:]
	}

	id, err := strconv.ParseUint(idText, 16, 32)
	if err != nil {
		return RawFrame{}, false
	}
	data, err := hex.DecodeString(dataText)
	if err != nil {
		return RawFrame{}, false
	}

	rf.Frame = canbus.Frame{
		ID:       uint32(id),
		Extended: len(idText) > 3,
		Data:     data,
		FD:       fd,
	}
	return rf, true
}

// Writer writes RawFrame records in candump-format text.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for candump-format writing.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFrame writes one record.
func (w *Writer) WriteFrame(rf RawFrame) error {
	width := 3
	if rf.Frame.Extended {
		width = 8
	}
	sep := "#"
	flags := ""
	if rf.Frame.FD {
		sep = "##"
		flags = "1"
	}
	_, err := fmt.Fprintf(w.w, "(%.6f) %s %0*X%s%s%s\n",
		float64(rf.Timestamp.UnixNano())/float64(time.Second),
		rf.Interface, width, rf.Frame.ID, sep, flags,
		strings.ToUpper(hex.EncodeToString(rf.Frame.Data)))
	return err
}
