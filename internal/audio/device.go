package audio

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Device acquires an Output.
type Device interface {
	Open() (Output, error)
}

// Output plays buffers, one at a time.
type Output interface {
	// Play starts buf, stopping any playback already active on this
	// output. onEnd runs once if playback reaches the end on its own; it
	// never runs after Stop.
	Play(buf *Buffer, onEnd func()) (Handle, error)

	// Close stops the active playback and releases the device. Calling it
	// again is a no-op.
	Close() error
}

// Handle refers to one playback.
type Handle interface {
	// Stop halts playback immediately. It is idempotent and never waits
	// for onEnd.
	Stop()

	// Done is closed once playback has finished for any reason.
	Done() <-chan struct{}
}

// ErrClosed is returned by Play on a closed output.
var ErrClosed = errors.New("output closed")

const (
	handlePlaying int32 = iota
	handleStopped
	handleEnded
)

// handle is shared by the backends. halt releases backend resources and
// must not block.
type handle struct {
	state atomic.Int32
	done  chan struct{}
	halt  func()
	onEnd func()
}

func newHandle(onEnd, halt func()) *handle {
	return &handle{done: make(chan struct{}), onEnd: onEnd, halt: halt}
}

func (h *handle) Stop() {
	if !h.state.CompareAndSwap(handlePlaying, handleStopped) {
		return
	}
	if h.halt != nil {
		h.halt()
	}
	close(h.done)
}

// finish marks a natural end. It loses to a concurrent Stop.
func (h *handle) finish() {
	if !h.state.CompareAndSwap(handlePlaying, handleEnded) {
		return
	}
	if h.halt != nil {
		h.halt()
	}
	close(h.done)
	if h.onEnd != nil {
		h.onEnd()
	}
}

func (h *handle) Done() <-chan struct{} { return h.done }

// slot holds an output's single active handle.
type slot struct {
	mu     sync.Mutex
	active *handle
	closed bool
}

// swap installs h after stopping the previous handle.
func (s *slot) swap(h *handle) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	prev := s.active
	s.active = h
	s.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	return nil
}

// shut stops the active handle and reports whether this call closed the
// slot.
func (s *slot) shut() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	prev := s.active
	s.active = nil
	s.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	return true
}
