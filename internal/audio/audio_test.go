package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func encodeWAV(t *testing.T, rate, depth, channels int, samples []int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, rate, depth, channels, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: depth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func samplesOf(b *Buffer) []int16 {
	out := make([]int16, len(b.PCM)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b.PCM[2*i:]))
	}
	return out
}

func TestDecode_WAV(t *testing.T) {
	data := encodeWAV(t, 16000, 16, 1, []int{0, 1000, -1000, 32767})

	buf, err := DefaultDecoder{}.Decode(data, "audio/wav")
	require.NoError(t, err)
	require.Equal(t, Format{SampleRate: 16000, Channels: 1}, buf.Format)
	require.Equal(t, []int16{0, 1000, -1000, 32767}, samplesOf(buf))

	sniffed, err := DefaultDecoder{}.Decode(data, "")
	require.NoError(t, err)
	require.Equal(t, buf.PCM, sniffed.PCM)
}

func TestDecode_WAV24Bit(t *testing.T) {
	data := encodeWAV(t, 8000, 24, 2, []int{256 * 100, -256 * 100})
	buf, err := DefaultDecoder{}.Decode(data, "audio/x-wav")
	require.NoError(t, err)
	require.Equal(t, 2, buf.Format.Channels)
	require.Equal(t, []int16{100, -100}, samplesOf(buf))
}

func TestDecode_WAVStreamedHeader(t *testing.T) {
	samples := make([]int, 2400)
	for i := range samples {
		samples[i] = (i%200 - 100) * 100
	}
	data := encodeWAV(t, 24000, 16, 1, samples)
	want, err := DefaultDecoder{}.Decode(data, "audio/wav")
	require.NoError(t, err)
	require.Equal(t, 2400, want.Frames())

	streamed := bytes.Clone(data)
	dataChunk := bytes.Index(streamed, []byte("data"))
	require.Positive(t, dataChunk)
	binary.LittleEndian.PutUint32(streamed[4:], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(streamed[dataChunk+4:], 0xFFFFFFFF)

	buf, err := DefaultDecoder{}.Decode(streamed, "audio/wav")
	require.NoError(t, err)
	require.Equal(t, 2400, buf.Frames())
	require.Equal(t, want.PCM, buf.PCM)
	require.Equal(t, uint32(0xFFFFFFFF), binary.LittleEndian.Uint32(streamed[4:]), "input must not be modified")

	// A stream cut short keeps the samples that arrived.
	cut := streamed[:dataChunk+8+2000]
	buf, err = DefaultDecoder{}.Decode(cut, "audio/wav")
	require.NoError(t, err)
	require.Equal(t, 1000, buf.Frames())
}

func TestDecode_L16(t *testing.T) {
	data := []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80, 0xff, 0x7f}

	buf, err := DefaultDecoder{}.Decode(data, "audio/L16;codec=pcm;rate=24000")
	require.NoError(t, err)
	require.Equal(t, Format{SampleRate: 24000, Channels: 1}, buf.Format)
	require.Equal(t, []int16{1, -1, -32768, 32767}, samplesOf(buf))

	buf, err = DefaultDecoder{}.Decode(data, "audio/pcm; rate=8000; channels=2")
	require.NoError(t, err)
	require.Equal(t, 2, buf.Frames())

	buf, err = DefaultDecoder{FallbackRate: 16000}.Decode(data, "audio/L16")
	require.NoError(t, err)
	require.Equal(t, 16000, buf.Format.SampleRate)

	data[0] = 0x7f
	require.NotEqual(t, data[0], buf.PCM[0], "decoded buffer must not alias the input")
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		mime string
	}{
		{"empty", nil, "audio/wav"},
		{"odd length", []byte{1, 2, 3}, "audio/L16;rate=24000"},
		{"stereo partial frame", []byte{1, 2}, "audio/pcm;channels=2"},
		{"bad rate", []byte{1, 2}, "audio/L16;rate=fast"},
		{"other codec", []byte{1, 2}, "audio/L16;codec=opus"},
		{"mp3", []byte{0xff, 0xfb, 0x90, 0x00}, "audio/mpeg"},
		{"not riff", []byte("hello world!"), "audio/wav"},
		{"unknown container", []byte("hello world!"), ""},
		{"bad mime", []byte{1, 2}, "audio/;;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefaultDecoder{}.Decode(tt.data, tt.mime)
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			require.Equal(t, tt.mime, de.MIMEType)
		})
	}
}

func TestBuffer_Duration(t *testing.T) {
	buf := &Buffer{Format: Format{SampleRate: 24000, Channels: 1}, PCM: make([]byte, 48000)}
	require.Equal(t, time.Second, buf.Duration())
	require.Equal(t, 24000, buf.Frames())

	var empty *Buffer
	require.Zero(t, empty.Duration())
}

func pcm16(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func TestConvert(t *testing.T) {
	mono := &Buffer{Format: Format{SampleRate: 24000, Channels: 1}, PCM: pcm16(0, 100, 200, 300)}

	require.Same(t, mono, Convert(mono, mono.Format))

	stereo := Convert(mono, Format{SampleRate: 24000, Channels: 2})
	require.Equal(t, []int16{0, 0, 100, 100, 200, 200, 300, 300}, samplesOf(stereo))

	up := Convert(mono, Format{SampleRate: 48000, Channels: 1})
	require.Equal(t, 8, up.Frames())
	require.Equal(t, []int16{0, 50, 100, 150, 200, 250, 300, 300}, samplesOf(up))

	down := Convert(&Buffer{Format: Format{SampleRate: 8000, Channels: 2}, PCM: pcm16(100, 300, -100, -300)},
		Format{SampleRate: 8000, Channels: 1})
	require.Equal(t, []int16{200, -200}, samplesOf(down))

	quad := Convert(&Buffer{Format: Format{SampleRate: 8000, Channels: 4}, PCM: pcm16(1000, 1000, 3000, 3000)},
		Format{SampleRate: 8000, Channels: 2})
	require.Equal(t, []int16{2000, 2000}, samplesOf(quad))

	three := Convert(&Buffer{Format: Format{SampleRate: 8000, Channels: 3}, PCM: pcm16(300, 600, 900)},
		Format{SampleRate: 8000, Channels: 2})
	require.Equal(t, []int16{600, 600}, samplesOf(three))

	require.InDelta(t, mono.Duration(), Convert(mono, Format{SampleRate: 44100, Channels: 2}).Duration(), float64(time.Millisecond))
}

func testBuffer(d time.Duration) *Buffer {
	frames := int(d.Seconds() * 8000)
	return &Buffer{Format: Format{SampleRate: 8000, Channels: 1}, PCM: make([]byte, 2*frames)}
}

func TestSilentOutput_NaturalEnd(t *testing.T) {
	out, err := NewSilentDevice().Open()
	require.NoError(t, err)
	defer out.Close()

	ended := make(chan struct{})
	h, err := out.Play(testBuffer(20*time.Millisecond), func() { close(ended) })
	require.NoError(t, err)

	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatal("onEnd never fired")
	}
	<-h.Done()
	h.Stop()
}

func TestSilentOutput_StopSuppressesOnEnd(t *testing.T) {
	out, err := NewSilentDevice().Open()
	require.NoError(t, err)
	defer out.Close()

	ended := make(chan struct{}, 1)
	h, err := out.Play(testBuffer(30*time.Millisecond), func() { ended <- struct{}{} })
	require.NoError(t, err)

	h.Stop()
	h.Stop()
	select {
	case <-h.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}

	time.Sleep(60 * time.Millisecond)
	require.Empty(t, ended)
}

func TestSilentOutput_SinglePlayback(t *testing.T) {
	out, err := NewSilentDevice().Open()
	require.NoError(t, err)

	first, err := out.Play(testBuffer(time.Second), nil)
	require.NoError(t, err)
	second, err := out.Play(testBuffer(time.Second), nil)
	require.NoError(t, err)

	select {
	case <-first.Done():
	default:
		t.Fatal("first playback still active after second Play")
	}

	require.NoError(t, out.Close())
	require.NoError(t, out.Close())
	select {
	case <-second.Done():
	default:
		t.Fatal("Close left playback active")
	}

	_, err = out.Play(testBuffer(time.Second), nil)
	var de *DeviceError
	require.ErrorAs(t, err, &de)
	require.True(t, errors.Is(err, ErrClosed))
}

func TestSilentOutput_EmptyBuffer(t *testing.T) {
	out, err := NewSilentDevice().Open()
	require.NoError(t, err)
	defer out.Close()

	_, err = out.Play(&Buffer{Format: Format{SampleRate: 8000, Channels: 1}}, nil)
	var de *DeviceError
	require.ErrorAs(t, err, &de)
}

func TestSilentDevice_Speed(t *testing.T) {
	out, err := (&SilentDevice{Speed: 100}).Open()
	require.NoError(t, err)
	defer out.Close()

	start := time.Now()
	h, err := out.Play(testBuffer(2*time.Second), nil)
	require.NoError(t, err)
	<-h.Done()
	require.Less(t, time.Since(start), time.Second)
}
