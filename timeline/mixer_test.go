package timeline

import (
	"context"
	"errors"
	"slices"
	"testing"
)

type fakeClip struct {
	path     string
	dur      float64
	start    float64
	releases int
}

func (c *fakeClip) Duration() float64  { return c.dur }
func (c *fakeClip) StartTime() float64 { return c.start }

func (c *fakeClip) Trim(d float64) error {
	c.dur = d
	return nil
}

func (c *fakeClip) SetStart(offset float64) { c.start = offset }

func (c *fakeClip) Truncate(d float64) error {
	c.dur = d
	return nil
}

func (c *fakeClip) Release() { c.releases++ }

type fakeBackend struct {
	*fakeProber

	composeErr   error
	decoded      []*fakeClip
	composed     *fakeClip
	composedFrom []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{fakeProber: newFakeProber()}
}

func (b *fakeBackend) Decode(path string) (Clip, error) {
	info, ok := b.infos[path]
	if !ok {
		return nil, errors.New("decode: unknown path")
	}
	c := &fakeClip{path: path, dur: info.Duration}
	b.decoded = append(b.decoded, c)
	return c, nil
}

func (b *fakeBackend) Compose(clips []Clip) (Clip, error) {
	b.composedFrom = b.composedFrom[:0]
	var end float64
	for _, c := range clips {
		b.composedFrom = append(b.composedFrom, c.(*fakeClip).path)
		if e := c.StartTime() + c.Duration(); e > end {
			end = e
		}
	}
	if b.composeErr != nil {
		return nil, b.composeErr
	}
	b.composed = &fakeClip{dur: end}
	return b.composed, nil
}

// addTrack registers a decodable file with the fake backend and returns
// its spec.
func addTrack(t *testing.T, b *fakeBackend, dir, name string, start, duration float64) TrackSpec {
	t.Helper()
	path := writeAudioFile(t, dir, name)
	b.infos[path] = ProbeInfo{Duration: duration, Decodable: true}
	return TrackSpec{Path: path, StartTime: start}
}

func TestMixProducesExactTargetDuration(t *testing.T) {
	backend := newFakeBackend()
	dir := t.TempDir()
	tracks := []TrackSpec{
		addTrack(t, backend, dir, "a.mp3", 0, 3),
		addTrack(t, backend, dir, "b.mp3", 2, 10), // overhangs the target
	}

	composite, report, err := NewMixer(backend).Mix(context.Background(), tracks, 5)
	if err != nil {
		t.Fatalf("mix failed: %v", err)
	}
	if composite == nil {
		t.Fatal("expected a composite clip")
	}
	if composite.Duration() != 5 {
		t.Fatalf("expected composite of exactly 5s, got %v", composite.Duration())
	}
	if report.Mixed != 2 {
		t.Fatalf("expected 2 mixed tracks, got %d", report.Mixed)
	}
}

func TestMixTrimsOverhangingTrack(t *testing.T) {
	backend := newFakeBackend()
	tracks := []TrackSpec{addTrack(t, backend, t.TempDir(), "long.mp3", 2, 10)}

	_, _, err := NewMixer(backend).Mix(context.Background(), tracks, 5)
	if err != nil {
		t.Fatalf("mix failed: %v", err)
	}
	if len(backend.decoded) != 1 {
		t.Fatalf("expected 1 decoded clip, got %d", len(backend.decoded))
	}
	clip := backend.decoded[0]
	if !approxEqual(clip.dur, 3) {
		t.Fatalf("expected clip trimmed to 3s, got %v", clip.dur)
	}
	if clip.start != 2 {
		t.Fatalf("expected clip positioned at 2s, got %v", clip.start)
	}
}

func TestMixDropsTrackStartingPastTarget(t *testing.T) {
	backend := newFakeBackend()
	dir := t.TempDir()
	keep := addTrack(t, backend, dir, "keep.mp3", 0, 3)
	late := addTrack(t, backend, dir, "late.mp3", 6, 3)

	composite, report, err := NewMixer(backend).Mix(context.Background(), []TrackSpec{keep, late}, 5)
	if err != nil {
		t.Fatalf("mix failed: %v", err)
	}
	if composite == nil {
		t.Fatal("expected a composite from the surviving track")
	}
	if slices.Contains(backend.composedFrom, late.Path) {
		t.Fatal("late track must not reach composition")
	}

	want := DroppedTrack{Path: late.Path, Reason: ReasonOffsetOutOfRange}
	if !slices.Contains(report.Dropped, want) {
		t.Fatalf("expected drop %+v, got %+v", want, report.Dropped)
	}
}

func TestMixDropsTinyRemainder(t *testing.T) {
	backend := newFakeBackend()
	tracks := []TrackSpec{addTrack(t, backend, t.TempDir(), "sliver.mp3", 4.995, 10)}

	composite, report, err := NewMixer(backend).Mix(context.Background(), tracks, 5)
	if err != nil {
		t.Fatalf("mix failed: %v", err)
	}
	if composite != nil {
		t.Fatal("expected no audio when the only track is a sub-threshold sliver")
	}
	if len(report.Dropped) != 1 || report.Dropped[0].Reason != ReasonOffsetOutOfRange {
		t.Fatalf("expected one %s drop, got %+v", ReasonOffsetOutOfRange, report.Dropped)
	}
	if len(backend.decoded) != 0 {
		t.Fatal("sliver track must be dropped before decoding")
	}
}

func TestMixNoTracksIsNoAudio(t *testing.T) {
	backend := newFakeBackend()

	composite, report, err := NewMixer(backend).Mix(context.Background(), nil, 30)
	if err != nil {
		t.Fatalf("expected no-audio outcome, got error: %v", err)
	}
	if composite != nil {
		t.Fatal("expected nil composite for an empty track list")
	}
	if report.Mixed != 0 || len(report.Dropped) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestMixSumsOverlappingTracks(t *testing.T) {
	backend := newFakeBackend()
	dir := t.TempDir()
	a := addTrack(t, backend, dir, "voice.mp3", 0, 4)
	b := addTrack(t, backend, dir, "music.mp3", 0, 4)

	_, report, err := NewMixer(backend).Mix(context.Background(), []TrackSpec{a, b}, 5)
	if err != nil {
		t.Fatalf("mix failed: %v", err)
	}
	if report.Mixed != 2 {
		t.Fatalf("expected both overlapping tracks mixed, got %d", report.Mixed)
	}
	if !slices.Contains(backend.composedFrom, a.Path) || !slices.Contains(backend.composedFrom, b.Path) {
		t.Fatalf("expected both tracks in composition, got %v", backend.composedFrom)
	}
}

func TestMixReleasesEveryClipOnComposeFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.composeErr = errors.New("backend exploded")
	dir := t.TempDir()
	tracks := []TrackSpec{
		addTrack(t, backend, dir, "a.mp3", 0, 3),
		addTrack(t, backend, dir, "b.mp3", 1, 3),
	}

	composite, _, err := NewMixer(backend).Mix(context.Background(), tracks, 5)
	if composite != nil {
		t.Fatal("expected no composite on compose failure")
	}

	var composeErr *ComposeError
	if !errors.As(err, &composeErr) {
		t.Fatalf("expected ComposeError, got %v", err)
	}
	if composeErr.Stage != "compose" {
		t.Fatalf("expected stage %q, got %q", "compose", composeErr.Stage)
	}

	if len(backend.decoded) != 2 {
		t.Fatalf("expected 2 decoded clips, got %d", len(backend.decoded))
	}
	for _, clip := range backend.decoded {
		if clip.releases != 1 {
			t.Fatalf("clip %s released %d times, want exactly once", clip.path, clip.releases)
		}
	}
}

func TestMixReleasesInputsAfterSuccessfulCompose(t *testing.T) {
	backend := newFakeBackend()
	dir := t.TempDir()
	tracks := []TrackSpec{
		addTrack(t, backend, dir, "a.mp3", 0, 3),
		addTrack(t, backend, dir, "b.mp3", 1, 3),
	}

	composite, _, err := NewMixer(backend).Mix(context.Background(), tracks, 5)
	if err != nil {
		t.Fatalf("mix failed: %v", err)
	}
	for _, clip := range backend.decoded {
		if clip.releases != 1 {
			t.Fatalf("input clip %s released %d times, want exactly once", clip.path, clip.releases)
		}
	}
	if composite.(*fakeClip).releases != 0 {
		t.Fatal("composite must remain live for the caller to consume")
	}
}

func TestMixStopsBetweenTracksWhenCanceled(t *testing.T) {
	backend := newFakeBackend()
	tracks := []TrackSpec{addTrack(t, backend, t.TempDir(), "a.mp3", 0, 3)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	composite, _, err := NewMixer(backend).Mix(ctx, tracks, 5)
	if composite != nil {
		t.Fatal("expected no composite after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMixReportsCoarseProgress(t *testing.T) {
	backend := newFakeBackend()
	tracks := []TrackSpec{addTrack(t, backend, t.TempDir(), "a.mp3", 0, 3)}

	var stages []string
	mixer := NewMixer(backend)
	mixer.OnProgress = func(stage string) { stages = append(stages, stage) }

	if _, _, err := mixer.Mix(context.Background(), tracks, 5); err != nil {
		t.Fatalf("mix failed: %v", err)
	}

	want := []string{"validating", "composing", "done"}
	if !slices.Equal(stages, want) {
		t.Fatalf("expected stages %v, got %v", want, stages)
	}
}
