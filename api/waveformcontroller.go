package api

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"slidecast/timeline"
)

// RegisterWaveformRoutes registers the waveform preview endpoint.
func (s *Server) RegisterWaveformRoutes(r *gin.Engine) {
	r.GET("/api/waveform", s.handleWaveform)
}

// WaveformResponse carries per-column peak pairs sized to the requested
// drawing area.
type WaveformResponse struct {
	Path   string              `json:"path"`
	Width  int                 `json:"width"`
	Height int                 `json:"height"`
	Peaks  []timeline.PeakPair `json:"peaks"`
}

// handleWaveform decodes an audio file and returns its peak outline.
// GET /api/waveform?path=...&width=640&height=120
func (s *Server) handleWaveform(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	width := intQuery(c, "width", 640)
	height := intQuery(c, "height", 120)
	if width <= 0 || height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be positive"})
		return
	}

	samples, err := s.decoder.DecodeWaveformSamples(path)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to decode audio: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, WaveformResponse{
		Path:   path,
		Width:  width,
		Height: height,
		Peaks:  slices.Collect(timeline.Waveform(samples, width, height)),
	})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
