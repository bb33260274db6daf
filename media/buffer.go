package media

import (
	"fmt"
	"math"
)

// Buffer is decoded PCM audio: interleaved int16 samples at a fixed
// sample rate and channel count. It implements timeline.Clip.
type Buffer struct {
	samples  []int16
	rate     int
	channels int
	start    float64
}

// NewBuffer wraps raw interleaved samples in a Buffer.
func NewBuffer(samples []int16, rate, channels int) *Buffer {
	return &Buffer{samples: samples, rate: rate, channels: channels}
}

// Samples exposes the raw interleaved samples (waveform rendering,
// encoding). Callers must not mutate them.
func (b *Buffer) Samples() []int16 { return b.samples }

// Duration reports the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.rate == 0 || b.channels == 0 {
		return 0
	}
	return float64(len(b.samples)) / float64(b.rate*b.channels)
}

// StartTime reports the timeline position set by SetStart.
func (b *Buffer) StartTime() float64 { return b.start }

// SetStart positions the buffer's first sample at offset seconds on the
// output timeline.
func (b *Buffer) SetStart(offset float64) { b.start = offset }

// Trim keeps only the first d seconds of the buffer's own samples.
func (b *Buffer) Trim(d float64) error {
	if d < 0 {
		return fmt.Errorf("trim: negative duration %v", d)
	}
	n := b.sampleCount(d)
	if n < len(b.samples) {
		b.samples = b.samples[:n]
	}
	return nil
}

// Truncate bounds the buffer to exactly d seconds: samples past d are
// dropped and a shorter buffer is zero-filled out to d.
func (b *Buffer) Truncate(d float64) error {
	if d < 0 {
		return fmt.Errorf("truncate: negative duration %v", d)
	}
	n := b.sampleCount(d)
	switch {
	case n < len(b.samples):
		b.samples = b.samples[:n]
	case n > len(b.samples):
		b.samples = append(b.samples, make([]int16, n-len(b.samples))...)
	}
	return nil
}

// Release frees the buffer's samples. Further calls are no-ops.
func (b *Buffer) Release() { b.samples = nil }

// sampleCount converts a duration to an interleaved sample count,
// rounded to whole frames.
func (b *Buffer) sampleCount(d float64) int {
	frames := int(math.Round(d * float64(b.rate)))
	return frames * b.channels
}
