package render

import (
	"fmt"
	"log"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"slidecast/config"
	"slidecast/media"
)

const fadeDuration = 0.5

// buildSlideshow turns still images into one portrait video stream of
// exactly total seconds, each image holding the screen for an equal
// share.
func buildSlideshow(images []string, total float64, caps media.Capabilities) *ffmpeg.Stream {
	if !caps.Crop {
		log.Printf("⚠️ crop filter unavailable, letterboxing slides instead")
	}

	perImage := total / float64(len(images))
	segments := make([]*ffmpeg.Stream, 0, len(images))
	for _, img := range images {
		in := ffmpeg.Input(img, ffmpeg.KwArgs{
			"loop":      1,
			"t":         fmt.Sprintf("%.3f", perImage),
			"framerate": config.SlideshowFPS,
		})
		segments = append(segments, fitFrame(in, caps))
	}
	if len(segments) == 1 {
		return segments[0]
	}
	return ffmpeg.Concat(segments)
}

// fitFrame maps a source of arbitrary shape onto the portrait canvas.
// With crop support the image covers the full frame and overflow is cut
// away; without it the image is scaled down and padded onto a black
// canvas.
func fitFrame(in *ffmpeg.Stream, caps media.Capabilities) *ffmpeg.Stream {
	if caps.Crop {
		return in.
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d:force_original_aspect_ratio=increase", config.VideoWidth, config.VideoHeight)}).
			Filter("crop", ffmpeg.Args{fmt.Sprintf("%d:%d", config.VideoWidth, config.VideoHeight)}).
			Filter("setsar", ffmpeg.Args{"1"})
	}
	return in.
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d:force_original_aspect_ratio=decrease", config.VideoWidth, config.VideoHeight)}).
		Filter("pad", ffmpeg.Args{fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2", config.VideoWidth, config.VideoHeight)}).
		Filter("setsar", ffmpeg.Args{"1"})
}

// fadeStrategy names how the video's opening and closing are treated.
type fadeStrategy int

const (
	fadeInOut fadeStrategy = iota
	fadeNone
)

func (s fadeStrategy) String() string {
	if s == fadeInOut {
		return "in-out"
	}
	return "none"
}

// chooseFadeStrategy decides whether the video gets fade envelopes. A
// request without filter support degrades to none instead of failing.
func chooseFadeStrategy(caps media.Capabilities, want bool) fadeStrategy {
	if want && caps.Fade {
		return fadeInOut
	}
	return fadeNone
}

// applyFade wraps the stream in fade-in and fade-out envelopes.
func applyFade(video *ffmpeg.Stream, total float64) *ffmpeg.Stream {
	outStart := total - fadeDuration
	if outStart < 0 {
		outStart = 0
	}
	return video.
		Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"type": "in", "start_time": 0, "duration": fadeDuration}).
		Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"type": "out", "start_time": fmt.Sprintf("%.3f", outStart), "duration": fadeDuration})
}
