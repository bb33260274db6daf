// Package project handles saved-project persistence: the template store,
// the project data document, and theme-based file discovery.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const templateExt = ".json"

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	invalidCharRe = regexp.MustCompile(`[^\w._-]`)
	underscoreRe  = regexp.MustCompile(`_+`)
)

// SanitizeFilename turns a display name into a safe file stem. Empty or
// fully-invalid names become "untitled".
func SanitizeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "untitled"
	}
	name = whitespaceRe.ReplaceAllString(name, "_")
	name = invalidCharRe.ReplaceAllString(name, "")
	name = underscoreRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._-")
	if name == "" {
		return "untitled"
	}
	return name
}

// TemplateInfo identifies one saved template: the file stem used for
// load/delete and the display name embedded in the file.
type TemplateInfo struct {
	Stem        string `json:"stem"`
	DisplayName string `json:"display_name"`
}

// TemplateStore persists project settings as JSON files, one per
// template. Settings are opaque to the store except for the embedded
// "name" field carrying the display name.
type TemplateStore struct {
	dir string
}

// NewTemplateStore creates the store, making the directory if needed.
func NewTemplateStore(dir string) (*TemplateStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create templates dir %s: %w", dir, err)
	}
	return &TemplateStore{dir: dir}, nil
}

// Save writes the settings under a sanitized stem derived from the
// display name, embedding the display name into the saved object.
// Returns the stem the template can be loaded by.
func (s *TemplateStore) Save(displayName string, settings map[string]any) (string, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return "", fmt.Errorf("template name must not be empty")
	}

	data := make(map[string]any, len(settings)+1)
	for k, v := range settings {
		data[k] = v
	}
	data["name"] = displayName

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode template %q: %w", displayName, err)
	}

	stem := SanitizeFilename(displayName)
	if err := os.WriteFile(s.path(stem), raw, 0o644); err != nil {
		return "", fmt.Errorf("write template %q: %w", displayName, err)
	}
	return stem, nil
}

// Load reads a template by stem. A file without the embedded "name"
// field is not a valid template.
func (s *TemplateStore) Load(stem string) (map[string]any, error) {
	raw, err := os.ReadFile(s.path(stem))
	if err != nil {
		return nil, fmt.Errorf("read template %q: %w", stem, err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode template %q: %w", stem, err)
	}
	if _, ok := data["name"]; !ok {
		return nil, fmt.Errorf("template %q has no name field", stem)
	}
	return data, nil
}

// List scans the store and returns template infos sorted by display
// name. An unreadable file is still listed under its stem so the user
// can delete it.
func (s *TemplateStore) List() ([]TemplateInfo, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+templateExt))
	if err != nil {
		return nil, fmt.Errorf("scan templates dir: %w", err)
	}

	infos := make([]TemplateInfo, 0, len(matches))
	for _, match := range matches {
		stem := strings.TrimSuffix(filepath.Base(match), templateExt)
		info := TemplateInfo{Stem: stem, DisplayName: stem}

		if raw, err := os.ReadFile(match); err == nil {
			var data struct {
				Name string `json:"name"`
			}
			if json.Unmarshal(raw, &data) == nil && data.Name != "" {
				info.DisplayName = data.Name
			}
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return strings.ToLower(infos[i].DisplayName) < strings.ToLower(infos[j].DisplayName)
	})
	return infos, nil
}

// Delete removes a template by stem.
func (s *TemplateStore) Delete(stem string) error {
	path := s.path(stem)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("template %q not found", stem)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete template %q: %w", stem, err)
	}
	return nil
}

// path resolves a stem inside the store. Stems are re-sanitized so a
// crafted stem can never escape the templates directory.
func (s *TemplateStore) path(stem string) string {
	return filepath.Join(s.dir, SanitizeFilename(stem)+templateExt)
}
