package media

import (
	"fmt"
	"math"

	"slidecast/timeline"
)

// composeBuffers sums positioned buffers sample-wise at their absolute
// timeline offsets. Accumulation runs in float64 and the result saturates
// at the int16 range instead of wrapping. The output's natural length is
// the maximum end time across the inputs.
func composeBuffers(clips []timeline.Clip, rate, channels int) (*Buffer, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("compose: no clips")
	}

	buffers := make([]*Buffer, len(clips))
	var maxEnd float64
	for i, c := range clips {
		b, ok := c.(*Buffer)
		if !ok {
			return nil, fmt.Errorf("compose: unsupported clip type %T", c)
		}
		buffers[i] = b
		if end := b.StartTime() + b.Duration(); end > maxEnd {
			maxEnd = end
		}
	}

	frames := int(math.Round(maxEnd * float64(rate)))
	mixed := make([]float64, frames*channels)

	for _, b := range buffers {
		offset := int(math.Round(b.StartTime()*float64(rate))) * channels
		for i, s := range b.samples {
			idx := offset + i
			if idx >= len(mixed) {
				break
			}
			mixed[idx] += float64(s)
		}
	}

	out := make([]int16, len(mixed))
	for i, v := range mixed {
		switch {
		case v > 32767:
			out[i] = 32767
		case v < -32768:
			out[i] = -32768
		default:
			out[i] = int16(v)
		}
	}

	return &Buffer{samples: out, rate: rate, channels: channels}, nil
}
