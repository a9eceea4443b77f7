package claude

import (
	"errors"
	"io"
	"strings"
)

// Stream is the finite sequence of text fragments produced by one streaming
// chat call. Recv returns io.EOF once the model has finished. The underlying
// connection is released as soon as Recv returns any error; a caller that
// abandons the stream early must call Close itself.
type Stream struct {
	reader StreamReader
	closed bool
}

func newStream(reader StreamReader) *Stream {
	return &Stream{reader: reader}
}

// Recv returns the next text fragment.
func (s *Stream) Recv() (string, error) {
	if s.closed {
		return "", io.EOF
	}

	text, err := s.reader.Recv()
	if err != nil {
		s.Close()
		return "", err
	}

	return text, nil
}

// Close releases the network resource behind the stream. Calling it again is
// a no-op.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.reader.Close()
}

// Text drains the stream and returns the concatenated fragments.
func (s *Stream) Text() (string, error) {
	var sb strings.Builder
	for {
		chunk, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(chunk)
	}
}
