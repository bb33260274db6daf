package timeline

import (
	"iter"
	"math"
)

// PeakPair is one waveform column: symmetric half-heights above and below
// the timeline axis at pixel column X.
type PeakPair struct {
	X      int     `json:"x"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// waveformScale keeps a full-scale peak at 80% of the drawable height so
// the wave never touches the widget edges.
const waveformScale = 0.8

// Waveform buckets samples into width equal columns and yields each
// column's peak absolute amplitude as symmetric top/bottom half-heights
// scaled to the given pixel height. The sequence is lazy, finite, and can
// be ranged over any number of times. Pure rendering aid; it plays no
// part in mixing.
func Waveform(samples []int16, width, height int) iter.Seq[PeakPair] {
	return func(yield func(PeakPair) bool) {
		if width <= 0 || height <= 0 || len(samples) == 0 {
			return
		}

		perBucket := len(samples) / width
		if perBucket == 0 {
			perBucket = 1
		}
		drawable := float64(height) * waveformScale

		for x := 0; x < width; x++ {
			lo := x * perBucket
			if lo >= len(samples) {
				return
			}
			hi := lo + perBucket
			if hi > len(samples) {
				hi = len(samples)
			}

			var peak float64
			for _, s := range samples[lo:hi] {
				if a := math.Abs(float64(s)); a > peak {
					peak = a
				}
			}

			half := peak / 32768.0 * drawable / 2
			if !yield(PeakPair{X: x, Top: half, Bottom: half}) {
				return
			}
		}
	}
}
