package timeline

import "os"

// Validator decides whether a track is admissible for mixing.
type Validator struct {
	prober Prober
}

// NewValidator creates a validator backed by the given prober.
func NewValidator(p Prober) *Validator {
	return &Validator{prober: p}
}

// Validate admits or rejects a track for a mix of the given target
// duration. Checks run in order: the file must exist, the resource must
// be decodable with a positive duration, and the start offset must fall
// before the end of the output. On success the returned spec carries the
// probed source duration; a negative start offset is clamped to zero.
// Rejection returns the drop with its reason and is never fatal to the
// surrounding mix.
//
// Validation is idempotent: the same spec against an unchanged resource
// yields the same decision and the same probed duration.
func (v *Validator) Validate(spec TrackSpec, targetDuration float64) (TrackSpec, *DroppedTrack) {
	if spec.StartTime < 0 {
		spec.StartTime = 0
	}

	if spec.Path == "" {
		return spec, &DroppedTrack{Path: spec.Path, Reason: ReasonMissingFile}
	}
	if _, err := os.Stat(spec.Path); err != nil {
		return spec, &DroppedTrack{Path: spec.Path, Reason: ReasonMissingFile}
	}

	info, err := v.prober.Probe(spec.Path)
	if err != nil || !info.Decodable || info.Duration <= 0 {
		return spec, &DroppedTrack{Path: spec.Path, Reason: ReasonUndecodable}
	}

	if spec.StartTime >= targetDuration {
		return spec, &DroppedTrack{Path: spec.Path, Reason: ReasonOffsetOutOfRange}
	}

	spec.Duration = info.Duration
	return spec, nil
}
