package audio

import "encoding/binary"

// Convert resamples buf to the given format with linear interpolation and
// maps channels. For a narrower target, source channel k is folded onto
// target channel k mod n and each target channel is the average of its
// sources; a mono target is the average of all of them. Wider targets
// repeat source channels in turn. The input is returned unchanged when the
// formats already match.
func Convert(buf *Buffer, to Format) *Buffer {
	from := buf.Format
	if from == to {
		return buf
	}

	frames := buf.Frames()
	src := make([][]float64, from.Channels)
	for c := range src {
		src[c] = make([]float64, frames)
	}
	for i := range frames {
		for c := range from.Channels {
			off := (i*from.Channels + c) * 2
			src[c][i] = float64(int16(binary.LittleEndian.Uint16(buf.PCM[off:])))
		}
	}

	mixed := mixChannels(src, to.Channels)

	outFrames := frames
	if from.SampleRate != to.SampleRate && frames > 0 {
		outFrames = int(int64(frames) * int64(to.SampleRate) / int64(from.SampleRate))
	}
	step := float64(from.SampleRate) / float64(to.SampleRate)

	pcm := make([]byte, outFrames*to.Channels*2)
	for i := range outFrames {
		pos := float64(i) * step
		j := int(pos)
		frac := pos - float64(j)
		for c := range to.Channels {
			ch := mixed[c]
			v := ch[min(j, frames-1)]
			if j+1 < frames {
				v += (ch[j+1] - v) * frac
			}
			off := (i*to.Channels + c) * 2
			binary.LittleEndian.PutUint16(pcm[off:], uint16(clamp16(v)))
		}
	}
	return &Buffer{Format: to, PCM: pcm}
}

func mixChannels(src [][]float64, n int) [][]float64 {
	if len(src) == n {
		return src
	}
	out := make([][]float64, n)
	if len(src) < n {
		for c := range out {
			out[c] = src[c%len(src)]
		}
		return out
	}

	frames := len(src[0])
	counts := make([]float64, n)
	for c := range out {
		out[c] = make([]float64, frames)
	}
	for k, ch := range src {
		dst := out[k%n]
		for i, v := range ch {
			dst[i] += v
		}
		counts[k%n]++
	}
	for c, ch := range out {
		for i := range ch {
			ch[i] /= counts[c]
		}
	}
	return out
}

func clamp16(v float64) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return int16(v)
}
