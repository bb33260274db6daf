package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"slidecast/timeline"
	"slidecast/types"
)

// StudioClient is a thin HTTP client for the render service API.
type StudioClient struct {
	baseURL string
	client  *http.Client
}

// NewStudioClient creates a new studio client.
func NewStudioClient(baseURL string) *StudioClient {
	return &StudioClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// GetStatus fetches the current worker status.
func (c *StudioClient) GetStatus() (*types.StatusResponse, error) {
	resp, err := c.client.Get(c.baseURL + "/api/status")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var status types.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &status, nil
}

// ListThemes fetches the available sheet themes.
func (c *StudioClient) ListThemes() ([]string, error) {
	resp, err := c.client.Get(c.baseURL + "/api/themes")
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Themes []string `json:"themes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return payload.Themes, nil
}

// ThemeDetail is one theme row plus the narration file behind it.
type ThemeDetail struct {
	Theme     string `json:"theme"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	AudioPath string `json:"audio_path"`
}

// GetTheme fetches one theme's content and narration file path.
func (c *StudioClient) GetTheme(theme string) (*ThemeDetail, error) {
	resp, err := c.client.Get(c.baseURL + "/api/themes/" + url.PathEscape(theme))
	if err != nil {
		return nil, fmt.Errorf("failed to get theme: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var detail ThemeDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &detail, nil
}

// GetWaveform fetches per-pixel peak pairs for an audio file.
func (c *StudioClient) GetWaveform(path string, width, height int) ([]timeline.PeakPair, error) {
	endpoint := fmt.Sprintf("%s/api/waveform?path=%s&width=%d&height=%d",
		c.baseURL, url.QueryEscape(path), width, height)
	resp, err := c.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get waveform: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Peaks []timeline.PeakPair `json:"peaks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return payload.Peaks, nil
}

// RenderTheme asks the service to render one theme.
func (c *StudioClient) RenderTheme(theme string) error {
	endpoint := c.baseURL + "/api/themes/" + url.PathEscape(theme) + "/render"
	resp, err := c.client.Post(endpoint, "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		return fmt.Errorf("failed to start render: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
