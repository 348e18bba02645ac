package core

// EnsureChannels resizes bufs to channels x n, keeping every backing array
// that is already large enough.
func EnsureChannels(bufs [][]float64, channels, n int) [][]float64 {
	if channels <= 0 {
		return bufs[:0]
	}
	if cap(bufs) < channels {
		bufs = append(bufs[:cap(bufs)], make([][]float64, channels-cap(bufs))...)
	}
	bufs = bufs[:channels]
	for ch, b := range bufs {
		if cap(b) < n {
			b = make([]float64, n)
		}
		bufs[ch] = b[:max(n, 0)]
	}
	return bufs
}

// Deinterleave scatters interleaved frames into the planar channels of dst
// and returns how many frames it wrote. The count is bounded by both src
// and the shortest channel.
func Deinterleave(dst [][]float64, src []float64) int {
	stride := len(dst)
	if stride == 0 {
		return 0
	}
	frames := len(src) / stride
	for _, ch := range dst {
		frames = min(frames, len(ch))
	}
	for ch, plane := range dst {
		for i := range frames {
			plane[i] = src[i*stride+ch]
		}
	}
	return frames
}

// Interleave gathers the first frames samples of each planar channel into
// dst.
func Interleave(dst []float64, src [][]float64, frames int) {
	stride := len(src)
	for ch, plane := range src {
		for i := range frames {
			dst[i*stride+ch] = plane[i]
		}
	}
}
