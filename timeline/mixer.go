package timeline

import (
	"context"
	"fmt"
	"log"
)

// ComposeError is the fatal whole-mix failure: the backend could not sum
// the positioned clips. Per-track problems never produce it; they only
// drop the offending track.
type ComposeError struct {
	Stage string
	Err   error
}

func (e *ComposeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ComposeError) Unwrap() error { return e.Err }

// Mixer builds one composite audio signal from a set of track specs.
// Each Mix call is independent and stateless; clips acquired during a
// call are owned by that call and released before it returns, except the
// composite itself, which the caller releases after consuming it.
type Mixer struct {
	backend   Backend
	validator *Validator

	// OnProgress, when set, receives coarse stage names as the mix
	// advances: "validating", "composing", "done".
	OnProgress func(stage string)
}

// NewMixer creates a mixer over the given media backend.
func NewMixer(b Backend) *Mixer {
	return &Mixer{backend: b, validator: NewValidator(b)}
}

// UseProber routes validation probes through p instead of the backend,
// typically to put a cache in front of repeated probes of the same file.
func (m *Mixer) UseProber(p Prober) {
	m.validator = NewValidator(p)
}

// Mix validates, trims, positions and sums the given tracks into a
// single clip of exactly targetDuration seconds.
//
// A nil clip with a nil error means no track survived validation: the
// render simply carries no audio, which is a valid outcome. A non-nil
// error means composition itself failed; every handle acquired for this
// call has been released exactly once before the error is returned.
//
// The context is checked between track-level steps only; a mix that has
// reached composition runs to completion.
func (m *Mixer) Mix(ctx context.Context, tracks []TrackSpec, targetDuration float64) (Clip, *MixReport, error) {
	report := &MixReport{}
	if targetDuration <= 0 {
		return nil, report, fmt.Errorf("target duration must be positive, got %v", targetDuration)
	}

	m.progress("validating")

	positioned := make([]Clip, 0, len(tracks))
	for _, spec := range tracks {
		if err := ctx.Err(); err != nil {
			releaseAll(positioned)
			return nil, report, err
		}

		admitted, dropped := m.validator.Validate(spec, targetDuration)
		if dropped != nil {
			m.drop(report, *dropped)
			continue
		}

		effective, ok := TrimWindow(admitted.StartTime, admitted.Duration, targetDuration)
		if !ok {
			m.drop(report, DroppedTrack{Path: admitted.Path, Reason: ReasonOffsetOutOfRange})
			continue
		}

		clip, err := m.backend.Decode(admitted.Path)
		if err != nil {
			m.drop(report, DroppedTrack{Path: admitted.Path, Reason: ReasonUndecodable})
			continue
		}

		if effective < admitted.Duration {
			if err := clip.Trim(effective); err != nil {
				clip.Release()
				m.drop(report, DroppedTrack{Path: admitted.Path, Reason: ReasonUndecodable})
				continue
			}
		}
		clip.SetStart(admitted.StartTime)
		positioned = append(positioned, clip)
	}

	if len(positioned) == 0 {
		m.progress("done")
		return nil, report, nil
	}

	if err := ctx.Err(); err != nil {
		releaseAll(positioned)
		return nil, report, err
	}

	m.progress("composing")
	composite, err := m.backend.Compose(positioned)

	// Input clips are folded into the composite on success and useless on
	// failure; either way this call owns them and lets them go here.
	report.Mixed = len(positioned)
	releaseAll(positioned)

	if err != nil {
		report.Mixed = 0
		return nil, report, &ComposeError{Stage: "compose", Err: err}
	}

	// The composite's natural length is the max end time across tracks,
	// which can land marginally past the target. Bound it to exactly the
	// target on every path.
	if err := composite.Truncate(targetDuration); err != nil {
		composite.Release()
		return nil, report, &ComposeError{Stage: "compose", Err: err}
	}

	m.progress("done")
	return composite, report, nil
}

func (m *Mixer) drop(report *MixReport, d DroppedTrack) {
	report.Dropped = append(report.Dropped, d)
	log.Printf("⚠️ Track dropped (%s): %s", d.Reason, d.Path)
}

func (m *Mixer) progress(stage string) {
	if m.OnProgress != nil {
		m.OnProgress(stage)
	}
}

func releaseAll(clips []Clip) {
	for _, c := range clips {
		c.Release()
	}
}
