package audio

import (
	"errors"
	"time"
)

// SilentDevice plays nothing. Each playback lasts the buffer's duration
// scaled by Speed, which suits headless runs and tests.
type SilentDevice struct {
	// Speed divides playback time. Zero or negative means 1.
	Speed float64
}

// NewSilentDevice returns a real-time silent device.
func NewSilentDevice() *SilentDevice {
	return &SilentDevice{Speed: 1}
}

func (d *SilentDevice) Open() (Output, error) {
	return &silentOutput{speed: d.Speed}, nil
}

type silentOutput struct {
	slot
	speed float64
}

func (o *silentOutput) Play(buf *Buffer, onEnd func()) (Handle, error) {
	if buf == nil || len(buf.PCM) == 0 {
		return nil, &DeviceError{Op: "play", Err: errors.New("empty buffer")}
	}
	d := buf.Duration()
	if o.speed > 0 {
		d = time.Duration(float64(d) / o.speed)
	}

	stop := make(chan struct{})
	h := newHandle(onEnd, func() { close(stop) })
	if err := o.swap(h); err != nil {
		return nil, &DeviceError{Op: "play", Err: err}
	}

	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			h.finish()
		case <-stop:
		}
	}()
	return h, nil
}

func (o *silentOutput) Close() error {
	o.shut()
	return nil
}
