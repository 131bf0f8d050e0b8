package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Decoder turns encoded bytes into a Buffer. It must not have side
// effects.
type Decoder interface {
	Decode(data []byte, mimeType string) (*Buffer, error)
}

// DefaultDecoder handles RIFF/WAVE and raw 16-bit PCM.
type DefaultDecoder struct {
	// FallbackRate applies to raw PCM without a rate parameter.
	// Zero means 24000.
	FallbackRate int
}

func (d DefaultDecoder) Decode(data []byte, mimeType string) (*Buffer, error) {
	fail := func(err error) (*Buffer, error) {
		return nil, &DecodeError{MIMEType: mimeType, Err: err}
	}
	if len(data) == 0 {
		return fail(errors.New("no audio data"))
	}

	mediaType, params := "", map[string]string{}
	if mimeType != "" {
		var err error
		mediaType, params, err = mime.ParseMediaType(mimeType)
		if err != nil {
			return fail(err)
		}
	}

	switch mediaType {
	case "audio/wav", "audio/wave", "audio/x-wav", "audio/vnd.wave":
		return decodeWAV(data, fail)
	case "audio/l16", "audio/pcm":
		// Gemini labels little-endian PCM as L16; samples are not byte-swapped.
		return d.decodeRaw(data, params, fail)
	case "", "application/octet-stream":
		if isRIFF(data) {
			return decodeWAV(data, fail)
		}
		return fail(errors.New("unrecognised audio container"))
	default:
		return fail(fmt.Errorf("unsupported media type %s", mediaType))
	}
}

func isRIFF(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

func (d DefaultDecoder) decodeRaw(data []byte, params map[string]string, fail func(error) (*Buffer, error)) (*Buffer, error) {
	format := Format{SampleRate: d.FallbackRate, Channels: 1}
	if format.SampleRate == 0 {
		format.SampleRate = 24000
	}
	if codec := params["codec"]; codec != "" && !strings.EqualFold(codec, "pcm") {
		return fail(fmt.Errorf("unsupported codec %s", codec))
	}
	if v, ok := params["rate"]; ok {
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			return fail(fmt.Errorf("bad rate %q", v))
		}
		format.SampleRate = rate
	}
	if v, ok := params["channels"]; ok {
		ch, err := strconv.Atoi(v)
		if err != nil || ch <= 0 {
			return fail(fmt.Errorf("bad channel count %q", v))
		}
		format.Channels = ch
	}
	if len(data)%format.frameSize() != 0 {
		return fail(fmt.Errorf("%d bytes is not a whole number of %s frames", len(data), format))
	}

	pcm := make([]byte, len(data))
	copy(pcm, data)
	return &Buffer{Format: format, PCM: pcm}, nil
}

func decodeWAV(data []byte, fail func(error) (*Buffer, error)) (*Buffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(fixStreamedSizes(data)))
	if !dec.IsValidFile() {
		return fail(errors.New("invalid WAVE header"))
	}
	if dec.NumChans == 0 {
		return fail(errors.New("zero channels"))
	}
	if dec.WavAudioFormat != 1 {
		return fail(fmt.Errorf("unsupported WAVE encoding %d", dec.WavAudioFormat))
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return fail(fmt.Errorf("read samples: %w", err))
	}
	if len(ib.Data) == 0 {
		return fail(errors.New("no samples"))
	}

	return &Buffer{
		Format: Format{SampleRate: int(dec.SampleRate), Channels: int(dec.NumChans)},
		PCM:    toPCM16(ib, int(dec.BitDepth)),
	}, nil
}

// unknownSize is written into RIFF and data chunk headers by encoders
// that stream before the length is known.
const unknownSize = 0xFFFFFFFF

// fixStreamedSizes returns data with placeholder or overlong RIFF and data
// chunk sizes replaced by the real lengths, the data chunk running to the
// end of the input. Well-formed input is returned as is.
func fixStreamedSizes(data []byte) []byte {
	if !isRIFF(data) {
		return data
	}
	var out []byte
	patch := func(off int, v uint32) {
		if out == nil {
			out = make([]byte, len(data))
			copy(out, data)
		}
		binary.LittleEndian.PutUint32(out[off:], v)
	}

	if riff := binary.LittleEndian.Uint32(data[4:]); riff == unknownSize || int64(riff) > int64(len(data)-8) {
		patch(4, uint32(len(data)-8))
	}
	for off := 12; off+8 <= len(data); {
		size := binary.LittleEndian.Uint32(data[off+4:])
		rest := len(data) - off - 8
		if string(data[off:off+4]) == "data" {
			if size == unknownSize || int64(size) > int64(rest) {
				// Drop a trailing odd byte so the chunk holds whole samples.
				patch(off+4, uint32(rest&^1))
			}
			break
		}
		if int64(size) > int64(rest) {
			break
		}
		off += 8 + int(size) + int(size&1)
	}

	if out == nil {
		return data
	}
	return out
}

// toPCM16 rescales integer samples of any bit depth to 16-bit
// little-endian bytes. 8-bit WAVE samples are unsigned.
func toPCM16(ib *goaudio.IntBuffer, bitDepth int) []byte {
	shift := bitDepth - 16
	pcm := make([]byte, 2*len(ib.Data))
	for i, v := range ib.Data {
		s := v
		switch {
		case bitDepth == 8:
			s = (v - 128) << 8
		case shift > 0:
			s = v >> shift
		}
		pcm[2*i] = byte(s)
		pcm[2*i+1] = byte(s >> 8)
	}
	return pcm
}
