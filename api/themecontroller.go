package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"slidecast/sheets"
	"slidecast/types"
	"slidecast/worker"
)

// RegisterThemeRoutes registers spreadsheet theme endpoints. With no
// spreadsheet configured, they answer 503.
func (s *Server) RegisterThemeRoutes(r *gin.Engine) {
	g := r.Group("/api/themes")
	g.GET("", s.handleListThemes)
	g.GET("/:theme", s.handleGetTheme)
	g.PUT("/:theme/body", s.handleUpdateThemeBody)
	g.POST("/:theme/render", s.handleRenderTheme)
}

// UpdateThemeBodyRequest carries replacement narration text for a theme.
type UpdateThemeBodyRequest struct {
	Body string `json:"body" binding:"required"`
}

// ThemeDetailResponse is a theme row plus the narration file the
// locator found for it, when one exists.
type ThemeDetailResponse struct {
	sheets.ThemeData
	AudioPath string `json:"audio_path,omitempty"`
}

// handleListThemes returns the theme column of the sheet.
func (s *Server) handleListThemes(c *gin.Context) {
	if s.themes == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spreadsheet access not configured"})
		return
	}

	themes, err := s.themes.ListThemes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list themes: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"themes": themes})
}

// handleGetTheme returns one theme's narration row.
func (s *Server) handleGetTheme(c *gin.Context) {
	if s.themes == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spreadsheet access not configured"})
		return
	}

	td, err := s.themes.ThemeData(c.Request.Context(), c.Param("theme"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	detail := ThemeDetailResponse{ThemeData: *td}
	if path, ok := s.locator.FindAudioFile(td.Theme); ok {
		detail.AudioPath = path
	}
	c.JSON(http.StatusOK, detail)
}

// handleUpdateThemeBody rewrites the narration text cell for a theme.
func (s *Server) handleUpdateThemeBody(c *gin.Context) {
	if s.themes == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spreadsheet access not configured"})
		return
	}

	var req UpdateThemeBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.themes.UpdateThemeBody(c.Request.Context(), c.Param("theme"), req.Body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update theme: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// handleRenderTheme assembles a project for the theme and renders it in
// the background.
// POST /api/themes/:theme/render
func (s *Server) handleRenderTheme(c *gin.Context) {
	if s.themes == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spreadsheet access not configured"})
		return
	}

	theme := c.Param("theme")
	data, err := worker.BuildProjectFromTheme(c.Request.Context(), s.themes, s.locator, s.templates, theme, s.imageDir)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if len(data.Images) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "theme has no images"})
		return
	}

	job := &types.RenderJob{
		ID:      uuid.NewString(),
		Project: *data,
		Quality: data.Quality,
	}

	go func() {
		if _, err := s.runner.ProcessJob(context.Background(), job); err != nil {
			log.Printf("❌ Theme render failed for %s: %v", theme, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status": "started",
		"theme":  theme,
		"job_id": job.ID,
	})
}
