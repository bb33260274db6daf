// Package render assembles slideshow videos. Stills become a portrait
// video track, narration text becomes timed captions, the audio timeline
// is mixed into a single composite, and everything is muxed into one
// encoded file with progress reported stage by stage.
package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"slidecast/config"
	"slidecast/media"
	"slidecast/project"
	"slidecast/timeline"
)

// StageError reports which assembly stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Options tune a single render.
type Options struct {
	// Quality selects an encoder preset; empty falls back to the
	// project's own quality field, then to medium.
	Quality string

	// Fade requests fade-in/out envelopes on the video.
	Fade bool
}

// Result describes a finished render.
type Result struct {
	OutputPath string
	Audio      *timeline.MixReport
	HasAudio   bool
	Captions   string
}

// Renderer turns project data into an encoded video file.
type Renderer struct {
	engine *media.Engine
	mixer  *timeline.Mixer

	// OnProgress, when set, receives coarse stage names as the render
	// advances: "validating", "slideshow", "captions", "composing",
	// "encoding", "done".
	OnProgress func(stage string)
}

// NewRenderer builds a renderer over the given engine. The prober, when
// non-nil, fronts track validation, typically with a cache.
func NewRenderer(engine *media.Engine, probes timeline.Prober) *Renderer {
	mixer := timeline.NewMixer(engine)
	if probes != nil {
		mixer.UseProber(probes)
	}
	return &Renderer{engine: engine, mixer: mixer}
}

// Render assembles data into a video at outputPath.
func (r *Renderer) Render(ctx context.Context, data *project.Data, outputPath string, opts Options) (*Result, error) {
	r.progress("validating")

	target := data.TargetDuration
	if target <= 0 {
		target = config.DefaultTargetDuration
	}

	images := existingImages(data.Images)
	if len(images) == 0 {
		return nil, &StageError{Stage: "validate", Err: fmt.Errorf("no usable images among %d listed", len(data.Images))}
	}

	workDir, err := os.MkdirTemp("", "slidecast-*")
	if err != nil {
		return nil, &StageError{Stage: "validate", Err: err}
	}
	defer os.RemoveAll(workDir)

	r.progress("slideshow")
	caps := r.engine.Capabilities()
	video := buildSlideshow(images, target, caps)
	if chooseFadeStrategy(caps, opts.Fade) == fadeInOut {
		video = applyFade(video, target)
	} else if opts.Fade {
		log.Printf("⚠️ Fade requested but fade filter unavailable, skipping")
	}

	r.progress("captions")
	video, strategy := r.attachCaptions(video, data.Body, target, workDir)

	r.progress("composing")
	clip, audioReport, err := r.mixer.Mix(ctx, data.AudioTracks, target)
	if err != nil {
		return nil, fmt.Errorf("audio mix: %w", err)
	}

	result := &Result{OutputPath: outputPath, Audio: audioReport, Captions: strategy}

	r.progress("encoding")
	outArgs := ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"preset":  PresetForQuality(quality(opts, data)),
		"pix_fmt": "yuv420p",
		"t":       fmt.Sprintf("%.3f", target),
	}

	var streams []*ffmpeg.Stream
	if clip != nil {
		defer clip.Release()
		pcmPath := filepath.Join(workDir, "mix.pcm")
		if err := r.writeMix(clip, pcmPath); err != nil {
			return nil, &StageError{Stage: "encode", Err: err}
		}
		audio := ffmpeg.Input(pcmPath, ffmpeg.KwArgs{
			"f":  "s16le",
			"ar": r.engine.SampleRate(),
			"ac": r.engine.Channels(),
		})
		outArgs["c:a"] = config.AudioCodec
		outArgs["b:a"] = config.AudioBitrate
		streams = []*ffmpeg.Stream{video, audio}
		result.HasAudio = true
	} else {
		log.Printf("📤 No audio track survived, rendering silent video")
		streams = []*ffmpeg.Stream{video}
	}

	if err := ffmpeg.Output(streams, outputPath, outArgs).OverWriteOutput().Run(); err != nil {
		return nil, &StageError{Stage: "encode", Err: err}
	}

	r.progress("done")
	log.Printf("✅ Video rendered: %s", outputPath)
	return result, nil
}

// attachCaptions tries each caption strategy in order and returns the
// video stream with text attached plus the name of the strategy used.
func (r *Renderer) attachCaptions(video *ffmpeg.Stream, body string, target float64, workDir string) (*ffmpeg.Stream, string) {
	captions := CaptionsFromBody(body, target)
	if len(captions) == 0 {
		return video, captionsNone.String()
	}
	for _, strategy := range chooseCaptionStrategies(r.engine.Capabilities()) {
		switch strategy {
		case captionsDrawText:
			return drawCaptions(video, captions), strategy.String()
		case captionsSubtitleFile:
			srtPath, err := writeSRT(captions, workDir)
			if err != nil {
				log.Printf("⚠️ Subtitle strategy failed, trying next: %v", err)
				continue
			}
			return burnSubtitles(video, srtPath), strategy.String()
		default:
			log.Printf("⚠️ No caption-capable filter available, rendering without text")
			return video, strategy.String()
		}
	}
	return video, captionsNone.String()
}

func (r *Renderer) writeMix(clip timeline.Clip, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.engine.WritePCM(clip, f)
}

func (r *Renderer) progress(stage string) {
	if r.OnProgress != nil {
		r.OnProgress(stage)
	}
}

func quality(opts Options, data *project.Data) string {
	if opts.Quality != "" {
		return opts.Quality
	}
	return data.Quality
}

// PresetForQuality maps a user-facing quality tier to an x264 preset.
// Unknown or empty tiers encode at the medium tier rather than failing.
func PresetForQuality(quality string) string {
	switch quality {
	case config.QualityHigh:
		return "medium"
	case config.QualityLow:
		return "ultrafast"
	default:
		return "fast"
	}
}

// existingImages filters the list down to files that exist, warning about
// the rest. A missing still skips that slide instead of failing the job.
func existingImages(paths []string) []string {
	usable := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			log.Printf("⚠️ Image not found, skipping slide: %s", p)
			continue
		}
		usable = append(usable, p)
	}
	return usable
}
