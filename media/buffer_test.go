package media

import (
	"slices"
	"testing"

	"slidecast/timeline"
)

func TestBufferDuration(t *testing.T) {
	// 8 interleaved samples, stereo at 4 Hz = 4 frames = 1 second.
	b := NewBuffer(make([]int16, 8), 4, 2)
	if b.Duration() != 1 {
		t.Fatalf("expected 1s, got %v", b.Duration())
	}
}

func TestBufferTrimKeepsLeadingSamples(t *testing.T) {
	b := NewBuffer([]int16{1, 2, 3, 4, 5, 6, 7, 8}, 4, 1)
	if err := b.Trim(1); err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if !slices.Equal(b.Samples(), []int16{1, 2, 3, 4}) {
		t.Fatalf("expected first 4 samples, got %v", b.Samples())
	}

	// Trimming past the end leaves the buffer unchanged.
	if err := b.Trim(10); err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if len(b.Samples()) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(b.Samples()))
	}
}

func TestBufferTruncateBoundsExactly(t *testing.T) {
	b := NewBuffer([]int16{1, 2, 3, 4, 5, 6}, 4, 1)
	if err := b.Truncate(1); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	if !slices.Equal(b.Samples(), []int16{1, 2, 3, 4}) {
		t.Fatalf("expected cap to 4 samples, got %v", b.Samples())
	}

	// A shorter buffer is zero-filled out to the requested length.
	if err := b.Truncate(2); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	if !slices.Equal(b.Samples(), []int16{1, 2, 3, 4, 0, 0, 0, 0}) {
		t.Fatalf("expected zero-fill to 8 samples, got %v", b.Samples())
	}
	if b.Duration() != 2 {
		t.Fatalf("expected 2s after truncate, got %v", b.Duration())
	}
}

func TestBufferReleaseFreesSamples(t *testing.T) {
	b := NewBuffer([]int16{1, 2, 3}, 4, 1)
	b.Release()
	if b.Samples() != nil {
		t.Fatal("expected nil samples after release")
	}
	b.Release() // second call is a no-op
}

func TestComposeSumsOverlappingBuffers(t *testing.T) {
	a := NewBuffer([]int16{100, 100, 100, 100}, 4, 1)
	b := NewBuffer([]int16{10, 10, 10, 10}, 4, 1)

	out, err := composeBuffers([]timeline.Clip{a, b}, 4, 1)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if !slices.Equal(out.Samples(), []int16{110, 110, 110, 110}) {
		t.Fatalf("expected summed samples, got %v", out.Samples())
	}
}

func TestComposePositionsBuffersAtOffsets(t *testing.T) {
	a := NewBuffer([]int16{1, 1, 1, 1}, 4, 1)
	b := NewBuffer([]int16{5, 5}, 4, 1)
	b.SetStart(0.5) // 2 samples in at 4 Hz mono

	out, err := composeBuffers([]timeline.Clip{a, b}, 4, 1)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if !slices.Equal(out.Samples(), []int16{1, 1, 6, 6}) {
		t.Fatalf("expected offset sum, got %v", out.Samples())
	}
	if out.Duration() != 1 {
		t.Fatalf("expected natural length 1s (max end), got %v", out.Duration())
	}
}

func TestComposeExtendsToLatestEnd(t *testing.T) {
	a := NewBuffer([]int16{1, 1}, 4, 1)
	b := NewBuffer([]int16{2, 2}, 4, 1)
	b.SetStart(1)

	out, err := composeBuffers([]timeline.Clip{a, b}, 4, 1)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if !slices.Equal(out.Samples(), []int16{1, 1, 0, 0, 2, 2}) {
		t.Fatalf("expected gap-filled composite, got %v", out.Samples())
	}
}

func TestComposeSaturatesInsteadOfWrapping(t *testing.T) {
	a := NewBuffer([]int16{30000, -30000}, 4, 1)
	b := NewBuffer([]int16{30000, -30000}, 4, 1)

	out, err := composeBuffers([]timeline.Clip{a, b}, 4, 1)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if !slices.Equal(out.Samples(), []int16{32767, -32768}) {
		t.Fatalf("expected saturated samples, got %v", out.Samples())
	}
}

func TestComposeRejectsEmptyInput(t *testing.T) {
	if _, err := composeBuffers(nil, 4, 1); err == nil {
		t.Fatal("expected error for empty clip set")
	}
}
