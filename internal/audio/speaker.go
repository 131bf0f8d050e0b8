package audio

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process, created on first use and
// suspended while no output holds it.
var engine struct {
	once   sync.Once
	ctx    *oto.Context
	format Format
	err    error

	mu    sync.Mutex
	users int
}

func acquireEngine(want Format) (*oto.Context, Format, error) {
	engine.once.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   want.SampleRate,
			ChannelCount: want.Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			engine.err = err
			return
		}
		<-ready
		engine.ctx = ctx
		engine.format = want
	})
	if engine.err != nil {
		return nil, Format{}, engine.err
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.users == 0 {
		if err := engine.ctx.Resume(); err != nil {
			return nil, Format{}, err
		}
	}
	engine.users++
	return engine.ctx, engine.format, nil
}

func releaseEngine() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.users--
	if engine.users == 0 {
		_ = engine.ctx.Suspend()
	}
}

// SpeakerDevice plays through the system audio output.
type SpeakerDevice struct {
	format Format
}

// NewSpeakerDevice returns a stereo output at sampleRate. Zero means
// 48000. The rate of the first device opened in the process wins.
func NewSpeakerDevice(sampleRate int) *SpeakerDevice {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	return &SpeakerDevice{format: Format{SampleRate: sampleRate, Channels: 2}}
}

func (d *SpeakerDevice) Open() (Output, error) {
	ctx, format, err := acquireEngine(d.format)
	if err != nil {
		return nil, &DeviceError{Op: "open", Err: err}
	}
	return &speakerOutput{ctx: ctx, format: format}, nil
}

type speakerOutput struct {
	slot
	ctx    *oto.Context
	format Format

	// Replays of the same buffer reuse its conversion.
	convMu   sync.Mutex
	lastSrc  *Buffer
	lastConv *Buffer
}

func (o *speakerOutput) convert(buf *Buffer) *Buffer {
	o.convMu.Lock()
	defer o.convMu.Unlock()
	if o.lastSrc != buf {
		o.lastSrc = buf
		o.lastConv = Convert(buf, o.format)
	}
	return o.lastConv
}

// pollInterval is how often a playing buffer is checked for its end.
const pollInterval = 20 * time.Millisecond

func (o *speakerOutput) Play(buf *Buffer, onEnd func()) (Handle, error) {
	if buf == nil || len(buf.PCM) == 0 {
		return nil, &DeviceError{Op: "play", Err: errors.New("empty buffer")}
	}
	if err := o.ctx.Err(); err != nil {
		return nil, &DeviceError{Op: "play", Err: err}
	}

	converted := o.convert(buf)
	player := o.ctx.NewPlayer(bytes.NewReader(converted.PCM))

	stop := make(chan struct{})
	h := newHandle(onEnd, func() {
		player.Pause()
		close(stop)
	})
	if err := o.swap(h); err != nil {
		player.Close()
		return nil, &DeviceError{Op: "play", Err: err}
	}
	player.Play()

	go func() {
		defer player.Close()
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !player.IsPlaying() {
					h.finish()
					return
				}
			}
		}
	}()
	return h, nil
}

func (o *speakerOutput) Close() error {
	if o.shut() {
		o.convMu.Lock()
		o.lastSrc, o.lastConv = nil, nil
		o.convMu.Unlock()
		releaseEngine()
	}
	return nil
}
