package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"slidecast/timeline"
)

// Data is one render's worth of inputs: the narration text, the
// slideshow images, and the audio timeline. The audio_tracks_info field
// name and its per-track field names are the on-disk contract shared
// with saved templates.
type Data struct {
	Theme          string               `json:"theme,omitempty"`
	Title          string               `json:"title"`
	Body           string               `json:"body,omitempty"`
	Images         []string             `json:"image_paths"`
	AudioTracks    []timeline.TrackSpec `json:"audio_tracks_info"`
	TargetDuration float64              `json:"target_duration"`
	Quality        string               `json:"quality,omitempty"`
}

// LoadData reads a project data document from disk.
func LoadData(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", path, err)
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", path, err)
	}
	return &d, nil
}

// Save writes the project data document to disk.
func (d *Data) Save(path string) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write project %s: %w", path, err)
	}
	return nil
}

// FindProjectFile looks for a saved project document by name, trying
// the name as given, with .json appended, and underscore/lowercase
// variants before giving up.
func FindProjectFile(dir, name string) (string, bool) {
	safe := safeName(name)
	return firstExisting(dir, []string{
		name,
		name + ".json",
		safe + ".json",
		strings.ToLower(safe) + ".json",
	})
}

// Locator finds per-theme files by trying the name variants users
// actually produce: the theme as given, spaces and dashes collapsed to
// underscores, and lowercase forms of both.
type Locator struct {
	audioDir     string
	templatesDir string
}

// NewLocator creates a locator over the audio and templates directories.
func NewLocator(audioDir, templatesDir string) *Locator {
	return &Locator{audioDir: audioDir, templatesDir: templatesDir}
}

// FindAudioFile looks for a narration file matching the theme.
func (l *Locator) FindAudioFile(theme string) (string, bool) {
	safe := safeName(theme)
	return firstExisting(l.audioDir, []string{
		theme + ".mp3",
		safe + ".mp3",
		strings.ToLower(theme) + ".mp3",
		strings.ToLower(safe) + ".mp3",
	})
}

// FindTemplateFile looks for a saved template matching the theme.
func (l *Locator) FindTemplateFile(theme string) (string, bool) {
	safe := strings.ToLower(safeName(theme))
	return firstExisting(l.templatesDir, []string{
		safe + ".json",
		strings.ToLower(theme) + ".json",
		theme + ".json",
	})
}

func safeName(theme string) string {
	return strings.NewReplacer(" ", "_", "-", "_").Replace(theme)
}

func firstExisting(dir string, names []string) (string, bool) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
