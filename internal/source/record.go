package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Recorder passes frames through from another source and writes each one
// as a JSON line, producing a session ReplaySource can play back.
type Recorder struct {
	src Source
	w   io.WriteCloser
	bw  *bufio.Writer
}

// NewRecorder records the frames of src to w. Close closes both.
func NewRecorder(src Source, w io.WriteCloser) *Recorder {
	return &Recorder{src: src, w: w, bw: bufio.NewWriter(w)}
}

// CreateRecorder records the frames of src to a new session file at path.
func CreateRecorder(src Source, path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	return NewRecorder(src, f), nil
}

// Next returns the next frame of the wrapped source after recording it.
func (r *Recorder) Next(ctx context.Context) (Frame, error) {
	f, err := r.src.Next(ctx)
	if err != nil {
		return Frame{}, err
	}
	if err := EncodeFrame(r.bw, f); err != nil {
		return Frame{}, fmt.Errorf("record frame: %w", err)
	}
	return f, nil
}

// Close flushes the recording and closes the wrapped source and writer.
func (r *Recorder) Close() error {
	return errors.Join(r.src.Close(), r.bw.Flush(), r.w.Close())
}
