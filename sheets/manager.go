// Package sheets is the spreadsheet content source: one row per theme,
// column A holding the theme name and column B its narration text.
package sheets

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ThemeData is the content behind one theme. The theme name doubles as
// the video title.
type ThemeData struct {
	Theme string `json:"theme"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Manager reads and updates the theme spreadsheet.
type Manager struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewManager authenticates with a service account and opens the
// spreadsheet.
func NewManager(ctx context.Context, serviceAccountFile, spreadsheetID, sheetName string) (*Manager, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return &Manager{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// ListThemes returns the theme names from column A, skipping the header
// row and stopping at the first blank cell.
func (m *Manager) ListThemes(ctx context.Context) ([]string, error) {
	resp, err := m.service.Spreadsheets.Values.
		Get(m.spreadsheetID, m.rangeRef("A:A")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read theme column: %w", err)
	}

	themes := themesFromColumn(resp.Values)
	log.Printf("📋 Found %d themes in spreadsheet", len(themes))
	return themes, nil
}

// ThemeData returns the content for one theme by exact match on column
// A. An unknown theme is an error.
func (m *Manager) ThemeData(ctx context.Context, theme string) (*ThemeData, error) {
	rows, err := m.readRows(ctx)
	if err != nil {
		return nil, err
	}

	data, _, found := themeRow(rows, theme)
	if !found {
		return nil, fmt.Errorf("theme %q not found", theme)
	}
	return &data, nil
}

// UpdateThemeBody replaces the narration text (column B) of the matched
// theme row.
func (m *Manager) UpdateThemeBody(ctx context.Context, theme, body string) error {
	rows, err := m.readRows(ctx)
	if err != nil {
		return err
	}

	_, rowNumber, found := themeRow(rows, theme)
	if !found {
		return fmt.Errorf("theme %q not found", theme)
	}

	cell := m.rangeRef(fmt.Sprintf("B%d", rowNumber))
	_, err = m.service.Spreadsheets.Values.
		Update(m.spreadsheetID, cell, &sheets.ValueRange{Values: [][]any{{body}}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update theme %q: %w", theme, err)
	}

	log.Printf("✅ Updated text for theme %q", theme)
	return nil
}

func (m *Manager) readRows(ctx context.Context) ([][]any, error) {
	resp, err := m.service.Spreadsheets.Values.
		Get(m.spreadsheetID, m.rangeRef("A:B")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	return resp.Values, nil
}

func (m *Manager) rangeRef(cells string) string {
	return fmt.Sprintf("%s!%s", m.sheetName, cells)
}

// themesFromColumn extracts theme names from the raw column A values:
// row 1 is a header, and the list ends at the first blank cell.
func themesFromColumn(values [][]any) []string {
	var themes []string
	for i, row := range values {
		if i == 0 {
			continue // header
		}
		name := ""
		if len(row) > 0 {
			name = strings.TrimSpace(cellString(row[0]))
		}
		if name == "" {
			break
		}
		themes = append(themes, name)
	}
	return themes
}

// themeRow scans the data rows for an exact theme match and returns the
// theme data together with its 1-based sheet row number.
func themeRow(rows [][]any, theme string) (ThemeData, int, bool) {
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 || strings.TrimSpace(cellString(row[0])) != theme {
			continue
		}

		data := ThemeData{Theme: theme, Title: theme}
		if len(row) > 1 {
			data.Body = strings.TrimSpace(cellString(row[1]))
		}
		return data, i + 1, true
	}
	return ThemeData{}, 0, false
}

func cellString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
