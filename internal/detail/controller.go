// Package detail owns the lifecycle of the concept detail session: the
// explanation fetch, speech synthesis, and the audio device behind it.
package detail

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/futable/internal/audio"
	"github.com/abhisek/futable/internal/catalog"
	"github.com/abhisek/futable/internal/explain"
	"github.com/abhisek/futable/internal/store"
	"github.com/abhisek/futable/internal/tts"
)

// Options configures a Controller. Fetcher, Speech and Device are
// required.
type Options struct {
	Fetcher explain.Fetcher
	Speech  tts.Synthesizer
	Decoder audio.Decoder // Default: audio.DefaultDecoder{}
	Device  audio.Device

	// Events, when set, receives a start and end row per session.
	Events store.EventRepo
	Logger *zap.Logger
}

// Controller holds at most one active session. Its methods return
// without waiting on the network or the device; results arrive on
// background goroutines and are applied only while their session is
// still current.
type Controller struct {
	fetcher explain.Fetcher
	speech  tts.Synthesizer
	decoder audio.Decoder
	device  audio.Device
	events  store.EventRepo
	logger  *zap.Logger

	mu      sync.Mutex
	current *session

	changed chan struct{}
	wg      sync.WaitGroup
}

// New creates a Controller.
func New(opts Options) *Controller {
	if opts.Decoder == nil {
		opts.Decoder = audio.DefaultDecoder{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		fetcher: opts.Fetcher,
		speech:  opts.Speech,
		decoder: opts.Decoder,
		device:  opts.Device,
		events:  opts.Events,
		logger:  opts.Logger,
		changed: make(chan struct{}, 1),
	}
}

// Open ends any active session and starts a new one for concept. The
// explanation fetch begins immediately.
func (c *Controller) Open(concept catalog.Concept) Snapshot {
	s := newSession(concept)

	c.mu.Lock()
	prev := c.detachLocked()
	c.current = s
	snap := s.snapshot()
	c.mu.Unlock()

	c.teardown(prev)

	c.logger.Debug("session opened", zap.String("session", s.id), zap.String("symbol", concept.Symbol))
	c.record(store.ConceptSessionEventData{
		SessionID: s.id,
		Symbol:    concept.Symbol,
		Action:    store.ActionStart,
	})
	c.wg.Go(func() { c.fetchExplanation(s) })

	c.notify()
	return snap
}

// Close ends the active session: in-flight work is cancelled and its
// results discarded, playback stops, the cached audio is dropped and the
// device output is closed. Calling Close with no session is a no-op.
func (c *Controller) Close() {
	c.mu.Lock()
	prev := c.detachLocked()
	c.mu.Unlock()

	if prev == nil {
		return
	}
	c.teardown(prev)
	c.notify()
}

// RequestAudio toggles speech for the active session. It does nothing
// until the explanation is ready or while a synthesis is in flight.
// Playback stops if running, restarts from the cached buffer if one
// exists, and otherwise synthesizes, decodes, caches and plays.
func (c *Controller) RequestAudio() {
	c.mu.Lock()
	s := c.current
	if s == nil || s.status != ExplanationReady {
		c.mu.Unlock()
		return
	}

	switch {
	case s.handle != nil:
		h := s.handle
		s.handle = nil
		s.audio = AudioIdle
		c.mu.Unlock()
		h.Stop()
		c.notify()
		return

	case s.audio == AudioLoading:
		c.mu.Unlock()
		return

	case s.buffer != nil:
		c.playLocked(s)
		c.mu.Unlock()
		c.notify()
		return
	}

	s.audio = AudioLoading
	s.audioErr = nil
	s.fetches++
	text := s.explanation.Narration(s.concept.Name)
	needOutput := s.output == nil
	c.mu.Unlock()

	c.wg.Go(func() { c.loadAudio(s, text, needOutput) })
	c.notify()
}

// DismissAudioError clears a failed audio status back to idle.
func (c *Controller) DismissAudioError() {
	c.mu.Lock()
	s := c.current
	if s == nil || s.audio != AudioFailed {
		c.mu.Unlock()
		return
	}
	s.audio = AudioIdle
	s.audioErr = nil
	c.mu.Unlock()
	c.notify()
}

// State returns a snapshot of the active session.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Snapshot{}
	}
	return c.current.snapshot()
}

// Changed is signalled after every state change. Signals coalesce, so a
// receiver should re-read State rather than count them.
func (c *Controller) Changed() <-chan struct{} {
	return c.changed
}

// Wait blocks until every background goroutine has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Shutdown closes the active session and waits for background work.
func (c *Controller) Shutdown() {
	c.Close()
	c.Wait()
}

func (c *Controller) notify() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}

// detachLocked makes the current session stale and returns it.
func (c *Controller) detachLocked() *session {
	s := c.current
	if s == nil {
		return nil
	}
	c.current = nil
	s.cancel()
	return s
}

// teardown releases what a detached session holds.
func (c *Controller) teardown(s *session) {
	if s == nil {
		return
	}
	if s.handle != nil {
		s.handle.Stop()
		s.handle = nil
	}
	if s.output != nil {
		if err := s.output.Close(); err != nil {
			c.logger.Warn("closing audio output", zap.String("session", s.id), zap.Error(err))
		}
		s.output = nil
	}
	s.buffer = nil

	c.logger.Debug("session closed",
		zap.String("session", s.id),
		zap.String("symbol", s.concept.Symbol),
		zap.Stringer("explanation", s.status),
		zap.Int("plays", s.plays))
	c.record(store.ConceptSessionEventData{
		SessionID:         s.id,
		Symbol:            s.concept.Symbol,
		Action:            store.ActionEnd,
		ExplanationStatus: s.status.String(),
		Plays:             s.plays,
		SpeechFetches:     s.fetches,
		DurationMs:        time.Since(s.opened).Milliseconds(),
	})
}

func (c *Controller) fetchExplanation(s *session) {
	exp, err := c.fetcher.Fetch(s.ctx, s.concept.Name)
	if err == nil {
		if exp == nil {
			err = &explain.FetchError{Concept: s.concept.Name, Err: errors.New("empty response")}
		} else if verr := exp.Validate(); verr != nil {
			err = &explain.FetchError{Concept: s.concept.Name, Err: verr}
		}
	}

	c.mu.Lock()
	if c.current != s {
		c.mu.Unlock()
		c.logger.Debug("discarding stale explanation", zap.String("session", s.id))
		return
	}
	if err != nil {
		s.status = ExplanationFailed
		s.explErr = err
	} else {
		s.status = ExplanationReady
		s.explanation = exp
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("explanation failed", zap.String("symbol", s.concept.Symbol), zap.Error(err))
	}
	c.notify()
}

func (c *Controller) loadAudio(s *session, text string, needOutput bool) {
	if needOutput {
		out, err := c.device.Open()
		if err != nil {
			c.failAudio(s, err)
			return
		}
		c.mu.Lock()
		if c.current != s {
			c.mu.Unlock()
			out.Close()
			return
		}
		s.output = out
		c.mu.Unlock()
	}

	clip, err := c.speech.Synthesize(s.ctx, text)
	if err != nil {
		c.failAudio(s, err)
		return
	}
	buf, err := c.decoder.Decode(clip.Data, clip.MIMEType)
	if err != nil {
		c.failAudio(s, err)
		return
	}

	c.mu.Lock()
	if c.current != s {
		c.mu.Unlock()
		c.logger.Debug("discarding stale speech", zap.String("session", s.id))
		return
	}
	s.buffer = buf
	c.playLocked(s)
	c.mu.Unlock()
	c.notify()
}

// playLocked starts s.buffer on s.output. A failure leaves the buffer
// cached so a retry does not synthesize again.
func (c *Controller) playLocked(s *session) {
	if s.output == nil {
		s.audio = AudioFailed
		s.audioErr = &audio.DeviceError{Op: "play", Err: audio.ErrClosed}
		return
	}

	s.playGen++
	gen := s.playGen
	h, err := s.output.Play(s.buffer, func() { c.playbackEnded(s, gen) })
	if err != nil {
		s.audio = AudioFailed
		s.audioErr = err
		c.logger.Warn("playback failed", zap.String("session", s.id), zap.Error(err))
		return
	}
	s.handle = h
	s.audio = AudioPlaying
	s.audioErr = nil
	s.plays++
}

func (c *Controller) playbackEnded(s *session, gen int) {
	c.mu.Lock()
	if c.current != s || s.playGen != gen || s.handle == nil {
		c.mu.Unlock()
		return
	}
	s.handle = nil
	s.audio = AudioIdle
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) failAudio(s *session, err error) {
	c.mu.Lock()
	if c.current != s {
		c.mu.Unlock()
		return
	}
	s.audio = AudioFailed
	s.audioErr = err
	c.mu.Unlock()

	c.logger.Warn("audio failed", zap.String("symbol", s.concept.Symbol), zap.Error(err))
	c.notify()
}

// record appends a session event in the background. Store failures are
// logged only.
func (c *Controller) record(data store.ConceptSessionEventData) {
	if c.events == nil {
		return
	}
	c.wg.Go(func() {
		if err := c.events.AppendConceptSession(context.Background(), data); err != nil {
			c.logger.Warn("failed to record session event",
				zap.String("session", data.SessionID),
				zap.String("action", data.Action),
				zap.Error(err))
		}
	})
}
