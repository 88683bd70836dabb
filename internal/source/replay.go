package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds one JSON line; landmark frames are a few KB.
const maxLineSize = 1 << 20

// ReplaySource reads frames from a recorded JSON-lines session.
type ReplaySource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// NewReplaySource reads frames from r. Close closes r when it is an io.Closer.
func NewReplaySource(r io.Reader) *ReplaySource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	rs := &ReplaySource{scanner: sc}
	if c, ok := r.(io.Closer); ok {
		rs.closer = c
	}
	return rs
}

// OpenReplay opens a session file. The path "-" reads standard input.
func OpenReplay(path string) (*ReplaySource, error) {
	if path == "-" {
		return NewReplaySource(io.NopCloser(os.Stdin)), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	return NewReplaySource(f), nil
}

// Next returns the next frame, skipping blank lines. It returns ErrExhausted
// at the end of the session.
func (s *ReplaySource) Next(ctx context.Context) (Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return Frame{}, fmt.Errorf("read replay: %w", err)
			}
			return Frame{}, ErrExhausted
		}
		s.line++

		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		f, err := DecodeFrame(line)
		if err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		return f, nil
	}
}

// Close closes the underlying reader.
func (s *ReplaySource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
