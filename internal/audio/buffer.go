// Package audio decodes speech clips into PCM and plays them on an output
// device that holds at most one playback at a time.
package audio

import (
	"fmt"
	"time"
)

// Format describes signed 16-bit little-endian interleaved PCM.
type Format struct {
	SampleRate int
	Channels   int
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch", f.SampleRate, f.Channels)
}

func (f Format) frameSize() int {
	return 2 * f.Channels
}

// Buffer is decoded audio ready to play.
type Buffer struct {
	Format Format
	PCM    []byte
}

// Frames returns the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	if b == nil || b.Format.Channels <= 0 {
		return 0
	}
	return len(b.PCM) / b.Format.frameSize()
}

// Duration returns the playback length.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.Format.SampleRate)
}
