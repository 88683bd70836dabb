package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ProcessSource reads frames from a driver bridge subprocess that writes
// JSON lines to stdout. The process is started lazily on the first Next.
type ProcessSource struct {
	name string
	args []string
	log  zerolog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	lines   chan []byte
	readErr error
	started bool
	done    chan struct{}
}

// NewProcessSource creates a source for the given command line, split on
// whitespace.
func NewProcessSource(command string, log zerolog.Logger) (*ProcessSource, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("bridge command is empty")
	}
	return &ProcessSource{
		name: fields[0],
		args: fields[1:],
		log:  log,
	}, nil
}

// Next returns the next frame the bridge writes. Malformed lines are logged
// and skipped. It returns ErrExhausted once the bridge closes stdout.
func (p *ProcessSource) Next(ctx context.Context) (Frame, error) {
	lines, err := p.ensureStarted()
	if err != nil {
		return Frame{}, err
	}

	for {
		select {
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				p.mu.Lock()
				err := p.readErr
				p.mu.Unlock()
				if err != nil {
					return Frame{}, err
				}
				return Frame{}, ErrExhausted
			}
			f, err := DecodeFrame(line)
			if err != nil {
				p.log.Warn().Err(err).Msg("skipping bridge line")
				continue
			}
			return f, nil
		}
	}
}

// Close stops the bridge process.
func (p *ProcessSource) Close() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = false
	cmd, lines, done := p.cmd, p.lines, p.done
	p.mu.Unlock()

	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	for range lines {
	}
	<-done
	return nil
}

func (p *ProcessSource) ensureStarted() (<-chan []byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return p.lines, nil
	}

	cmd := exec.Command(p.name, p.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start bridge: %w", err)
	}

	p.log.Info().Str("command", p.name).Int("pid", cmd.Process.Pid).Msg("bridge started")

	p.cmd = cmd
	p.lines = make(chan []byte, 16)
	p.done = make(chan struct{})
	p.readErr = nil
	p.started = true

	go p.read(cmd, stdout, p.lines, p.done)
	return p.lines, nil
}

func (p *ProcessSource) read(cmd *exec.Cmd, stdout io.Reader, lines chan<- []byte, done chan<- struct{}) {
	defer close(done)
	defer close(lines)

	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		lines <- bytes.Clone(line)
	}

	scanErr := sc.Err()
	waitErr := cmd.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case scanErr != nil:
		p.readErr = fmt.Errorf("read bridge: %w", scanErr)
	case waitErr != nil && p.started:
		p.readErr = fmt.Errorf("bridge exited: %w", waitErr)
	}
	p.log.Info().Err(waitErr).Msg("bridge stopped")
}
