package timeline

// ProbeInfo is the result of probing an audio resource.
type ProbeInfo struct {
	Duration  float64 `json:"duration"`
	Decodable bool    `json:"decodable"`
}

// Prober answers whether a resource is decodable and how long it runs.
// Probing must not leave any handle open after it returns.
type Prober interface {
	Probe(path string) (ProbeInfo, error)
}

// Clip is one decoded audio signal owned by the mixing pipeline. A clip
// is exclusively owned by the stage that acquired it and is released
// exactly once on every exit path.
type Clip interface {
	// Duration reports the clip length in seconds.
	Duration() float64

	// Trim keeps only the first d seconds of the clip's own samples.
	Trim(d float64) error

	// SetStart positions the clip's first sample at offset seconds on
	// the output timeline.
	SetStart(offset float64)

	// StartTime reports the timeline position set by SetStart.
	StartTime() float64

	// Truncate bounds the clip to exactly d seconds: samples past d are
	// dropped and a shorter clip is zero-filled out to d.
	Truncate(d float64) error

	// Release frees the clip's samples.
	Release()
}

// Backend is the media capability the mixing pipeline runs against:
// probe and decode files, and sum positioned clips into one composite.
type Backend interface {
	Prober

	// Decode loads the resource into a clip at the pipeline sample rate.
	Decode(path string) (Clip, error)

	// Compose sums the positioned clips sample-wise at their absolute
	// timeline offsets. The composite's natural length is the maximum
	// end time across the inputs. Input clips remain owned by the
	// caller.
	Compose(clips []Clip) (Clip, error)
}
