package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"slidecast/config"
	"slidecast/media"
)

// Caption is one timed line of on-screen text.
type Caption struct {
	Text  string
	Start float64
	End   float64
}

// CaptionsFromBody splits narration text into sentences and spreads them
// across the video, each sentence holding the screen for time
// proportional to its share of the words.
func CaptionsFromBody(body string, totalDuration float64) []Caption {
	sentences := splitSentences(body)
	if len(sentences) == 0 || totalDuration <= 0 {
		return nil
	}

	totalWords := 0
	for _, s := range sentences {
		totalWords += len(strings.Fields(s))
	}
	if totalWords == 0 {
		return nil
	}

	captions := make([]Caption, 0, len(sentences))
	cursor := 0.0
	for _, s := range sentences {
		share := float64(len(strings.Fields(s))) / float64(totalWords)
		hold := share * totalDuration
		captions = append(captions, Caption{
			Text:  s,
			Start: cursor,
			End:   cursor + hold,
		})
		cursor += hold
	}
	// Rounding drift accumulates in cursor; pin the last caption to the
	// actual end of the video.
	captions[len(captions)-1].End = totalDuration
	return captions
}

func splitSentences(body string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range body {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// captionStrategy names one way of getting text onto the frame.
type captionStrategy int

const (
	captionsDrawText captionStrategy = iota
	captionsSubtitleFile
	captionsNone
)

func (s captionStrategy) String() string {
	switch s {
	case captionsDrawText:
		return "drawtext"
	case captionsSubtitleFile:
		return "subtitle-file"
	default:
		return "none"
	}
}

// chooseCaptionStrategies returns the ordered candidates for the
// detected filter support. The renderer applies the first one whose
// setup succeeds; captionsNone always terminates the list so a capability
// gap degrades the output instead of failing the render.
func chooseCaptionStrategies(caps media.Capabilities) []captionStrategy {
	var order []captionStrategy
	if caps.DrawText {
		order = append(order, captionsDrawText)
	}
	if caps.Subtitles {
		order = append(order, captionsSubtitleFile)
	}
	return append(order, captionsNone)
}

// writeSRT writes the captions as a SubRip file into dir and returns its
// path.
func writeSRT(captions []Caption, dir string) (string, error) {
	var srt strings.Builder
	for i, c := range captions {
		srt.WriteString(fmt.Sprintf("%d\n%s --> %s\n%s\n\n",
			i+1, formatTimestamp(c.Start), formatTimestamp(c.End), c.Text))
	}

	path := filepath.Join(dir, "captions.srt")
	if err := os.WriteFile(path, []byte(srt.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return path, nil
}

// formatTimestamp renders seconds as an SRT timestamp (HH:MM:SS,mmm).
func formatTimestamp(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	millis := int((seconds - float64(int(seconds))) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// escapeDrawText escapes the characters the drawtext filter treats as
// syntax inside its text option.
var drawTextEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`:`, `\:`,
	`%`, `\%`,
)

func escapeDrawText(text string) string {
	return drawTextEscaper.Replace(text)
}

// escapeFilterPath escapes a filename for use inside a filter option,
// where Windows drive colons would otherwise read as option separators.
func escapeFilterPath(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), ":", "\\:")
}

// drawCaptions chains one drawtext filter per caption, each enabled only
// during its time window.
func drawCaptions(video *ffmpeg.Stream, captions []Caption) *ffmpeg.Stream {
	for _, c := range captions {
		video = video.Filter("drawtext", ffmpeg.Args{}, ffmpeg.KwArgs{
			"text":        escapeDrawText(c.Text),
			"enable":      fmt.Sprintf("between(t,%.3f,%.3f)", c.Start, c.End),
			"fontsize":    config.CaptionFontSize,
			"fontcolor":   "white",
			"borderw":     3,
			"bordercolor": "black",
			"x":           "(w-text_w)/2",
			"y":           "h*0.78",
		})
	}
	return video
}

// burnSubtitles renders the SRT file onto the frame with the subtitles
// filter.
func burnSubtitles(video *ffmpeg.Stream, srtPath string) *ffmpeg.Stream {
	return video.Filter("subtitles", ffmpeg.Args{}, ffmpeg.KwArgs{
		"filename":    escapeFilterPath(srtPath),
		"force_style": "FontSize=18,PrimaryColour=&Hffffff&,OutlineColour=&H000000&,Outline=2",
	})
}
