package voice

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// EventKind classifies recognizer output.
type EventKind int

const (
	Interim EventKind = iota
	Final
	End
	Error
)

// Event is one recognizer callback.
type Event struct {
	Kind       EventKind
	Transcript string
	Err        error
}

// Recognizer is a continuously listening speech engine. Start delivers
// events until the engine ends, fails, or is stopped; the channel is closed
// afterwards. Start returns io.EOF when there is nothing left to hear.
type Recognizer interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop() error
}

// ErrListening is returned by Start while a previous start is still running.
var ErrListening = errors.New("recognizer already listening")

// LineRecognizer treats every non-empty line of a reader as a final
// transcript. It stands in for a speech engine in the CLI and in tests.
type LineRecognizer struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
	done    bool
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewLineRecognizer reads transcripts from r.
func NewLineRecognizer(r io.Reader) *LineRecognizer {
	return &LineRecognizer{scanner: bufio.NewScanner(r)}
}

// Start begins reading lines.
func (r *LineRecognizer) Start(ctx context.Context) (<-chan Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return nil, io.EOF
	}
	if r.running {
		return nil, ErrListening
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	events := make(chan Event)
	r.wg.Add(1)
	go r.read(ctx, events)
	return events, nil
}

func (r *LineRecognizer) read(ctx context.Context, events chan<- Event) {
	defer r.wg.Done()
	defer close(events)
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	send := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		if !send(Event{Kind: Final, Transcript: line}) {
			return
		}
	}

	r.mu.Lock()
	r.done = true
	r.mu.Unlock()
	if err := r.scanner.Err(); err != nil {
		send(Event{Kind: Error, Err: errors.Wrap(err, "read transcripts")})
		return
	}
	send(Event{Kind: End})
}

// Stop ends the current run. A read blocked on the underlying reader
// finishes when that read returns.
func (r *LineRecognizer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	return nil
}

// Wait blocks until the reader goroutine has exited.
func (r *LineRecognizer) Wait() {
	r.wg.Wait()
}
