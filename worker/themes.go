package worker

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"slidecast/config"
	"slidecast/project"
	"slidecast/sheets"
	"slidecast/timeline"
)

// ThemeSource supplies narration text for a theme. *sheets.Manager
// implements it.
type ThemeSource interface {
	ThemeData(ctx context.Context, theme string) (*sheets.ThemeData, error)
}

// BuildProjectFromTheme assembles a renderable project for a theme: the
// narration text from the theme source, any saved template defaults, a
// matching narration audio file, and the theme's image directory.
func BuildProjectFromTheme(ctx context.Context, src ThemeSource, locator *project.Locator, templates *project.TemplateStore, theme, imageDir string) (*project.Data, error) {
	td, err := src.ThemeData(ctx, theme)
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", theme, err)
	}

	data := &project.Data{
		Theme:          td.Theme,
		Title:          td.Title,
		Body:           td.Body,
		TargetDuration: config.DefaultTargetDuration,
	}

	if templates != nil {
		if path, ok := locator.FindTemplateFile(theme); ok {
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			settings, err := templates.Load(stem)
			if err != nil {
				log.Printf("⚠️ Ignoring unreadable template for %s: %v", theme, err)
			} else {
				applyTemplate(data, settings)
			}
		}
	}

	// The theme's narration track joins whatever the template set up,
	// starting at the top of the video.
	if path, ok := locator.FindAudioFile(theme); ok {
		data.AudioTracks = append(data.AudioTracks, timeline.TrackSpec{Path: path})
	}

	if imageDir != "" {
		if images := themeImages(imageDir, theme); len(images) > 0 {
			data.Images = images
		}
	}

	return data, nil
}

// applyTemplate overlays saved template settings onto the project.
func applyTemplate(data *project.Data, settings map[string]any) {
	if v, ok := settings["target_duration"].(float64); ok && v > 0 {
		data.TargetDuration = v
	}
	if v, ok := settings["quality"].(string); ok && v != "" {
		data.Quality = v
	}
	if raw, ok := settings["image_paths"].([]any); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok {
				data.Images = append(data.Images, s)
			}
		}
	}
	if raw, ok := settings["audio_tracks_info"].([]any); ok {
		for _, item := range raw {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			var spec timeline.TrackSpec
			if s, ok := entry["path"].(string); ok {
				spec.Path = s
			}
			if f, ok := entry["start_time"].(float64); ok {
				spec.StartTime = f
			}
			if f, ok := entry["duration"].(float64); ok {
				spec.Duration = f
			}
			if spec.Path != "" {
				data.AudioTracks = append(data.AudioTracks, spec)
			}
		}
	}
}

// themeImages lists the stills in the theme's image directory, in name
// order so the slide order is stable.
func themeImages(imageDir, theme string) []string {
	dir := filepath.Join(imageDir, project.SanitizeFilename(theme))
	var images []string
	for _, pattern := range []string{"*.png", "*.jpg", "*.jpeg"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		images = append(images, matches...)
	}
	sort.Strings(images)
	return images
}
