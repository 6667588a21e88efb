package protocol

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed reports a line that is not a well-formed protocol record.
// A malformed frame means the stream is desynchronized and cannot be
// safely resumed mid-line, so callers treat it as fatal for the connection.
var ErrMalformed = errors.New("malformed protocol frame")

// Write encodes msg as a single newline-terminated JSON record.
func Write(w io.Writer, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding %s frame: %w", msg.MessageType, err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s frame: %w", msg.MessageType, err)
	}
	return nil
}

// Decode parses one line into a Message. Blank lines are reported via
// ok=false with a nil error so readers can skip them, matching the
// tolerance of the original wire format.
func Decode(line string) (Message, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Message{}, false, nil
	}

	var msg Message
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		return Message{}, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if msg.MessageType == "" {
		return Message{}, false, fmt.Errorf("%w: missing message_type", ErrMalformed)
	}
	return msg, true, nil
}

// Reader decodes newline-delimited messages from a stream.
type Reader struct {
	sc *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r)}
}

// Next returns the next non-blank frame. It returns io.EOF once the
// stream ends, and ErrMalformed (wrapped) for an undecodable line.
func (r *Reader) Next() (Message, error) {
	for r.sc.Scan() {
		msg, ok, err := Decode(r.sc.Text())
		if err != nil {
			return Message{}, err
		}
		if !ok {
			continue
		}
		return msg, nil
	}
	if err := r.sc.Err(); err != nil {
		return Message{}, err
	}
	return Message{}, io.EOF
}

// Bool is a convenience for building RESULT frames.
func Bool(v bool) *bool { return &v }
