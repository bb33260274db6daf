package render

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"slidecast/media"
)

func TestPresetForQuality(t *testing.T) {
	cases := []struct {
		quality string
		want    string
	}{
		{"high", "medium"},
		{"medium", "fast"},
		{"low", "ultrafast"},
		{"", "fast"},
		{"cinematic", "fast"},
	}
	for _, tc := range cases {
		if got := PresetForQuality(tc.quality); got != tc.want {
			t.Fatalf("PresetForQuality(%q): expected %q, got %q", tc.quality, tc.want, got)
		}
	}
}

func TestChooseFadeStrategy(t *testing.T) {
	if got := chooseFadeStrategy(media.Capabilities{Fade: true}, true); got != fadeInOut {
		t.Fatalf("expected fade in-out, got %v", got)
	}
	if got := chooseFadeStrategy(media.Capabilities{}, true); got != fadeNone {
		t.Fatal("expected fade request to degrade without filter support")
	}
	if got := chooseFadeStrategy(media.Capabilities{Fade: true}, false); got != fadeNone {
		t.Fatal("expected no fade when not requested")
	}
}

func TestExistingImagesSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "slide1.png")
	if err := os.WriteFile(present, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	got := existingImages([]string{
		present,
		filepath.Join(dir, "missing.png"),
		dir, // a directory is not a usable slide
	})
	if len(got) != 1 || got[0] != present {
		t.Fatalf("expected only %s to survive, got %v", present, got)
	}
}

func TestStageErrorWrapping(t *testing.T) {
	inner := errors.New("encoder exploded")
	err := error(&StageError{Stage: "encode", Err: inner})

	if err.Error() != "encode: encoder exploded" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Fatal("expected StageError to unwrap to its cause")
	}
	var stage *StageError
	if !errors.As(err, &stage) || stage.Stage != "encode" {
		t.Fatalf("expected stage encode, got %+v", stage)
	}
}
