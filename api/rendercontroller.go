package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"slidecast/project"
	"slidecast/types"
)

// RegisterRenderRoutes registers render job endpoints.
func (s *Server) RegisterRenderRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.POST("/render", s.handleSubmitRender)
	g.POST("/render/:name", s.handleRenderSaved)
	g.GET("/status", s.handleGetStatus)
}

// SubmitRenderRequest represents an ad-hoc render submission.
type SubmitRenderRequest struct {
	Project project.Data `json:"project" binding:"required"`
	Quality string       `json:"quality,omitempty"`
	Fade    bool         `json:"fade,omitempty"`
	Upload  bool         `json:"upload,omitempty"`
}

// SubmitRenderResponse acknowledges an accepted job.
type SubmitRenderResponse struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// handleSubmitRender accepts a job and renders it in the background.
// POST /api/render
func (s *Server) handleSubmitRender(c *gin.Context) {
	var req SubmitRenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Project.Images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_paths is required"})
		return
	}

	job := &types.RenderJob{
		ID:      uuid.NewString(),
		Project: req.Project,
		Quality: req.Quality,
		Fade:    req.Fade,
		Upload:  req.Upload,
	}

	log.Printf("📥 Received render request: job=%s images=%d tracks=%d",
		job.ID, len(job.Project.Images), len(job.Project.AudioTracks))

	// Render asynchronously (non-blocking for API response)
	go func() {
		if _, err := s.runner.ProcessJob(context.Background(), job); err != nil {
			log.Printf("❌ Render failed for job %s: %v", job.ID, err)
		}
	}()

	c.JSON(http.StatusAccepted, SubmitRenderResponse{
		JobID:   job.ID,
		Message: "Render started",
	})
}

// handleRenderSaved renders a project document from the input directory,
// located by name.
// POST /api/render/:name
func (s *Server) handleRenderSaved(c *gin.Context) {
	name := c.Param("name")

	path, ok := project.FindProjectFile(s.inputDir, name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found: " + name})
		return
	}

	data, err := project.LoadData(path)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to load project: " + err.Error()})
		return
	}
	if len(data.Images) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "project has no images"})
		return
	}

	job := &types.RenderJob{
		ID:      uuid.NewString(),
		Project: *data,
		Quality: data.Quality,
	}

	log.Printf("📥 Received render request for saved project %q (job=%s)", name, job.ID)

	// Render asynchronously (non-blocking for API response)
	go func() {
		if _, err := s.runner.ProcessJob(context.Background(), job); err != nil {
			log.Printf("❌ Render failed for job %s: %v", job.ID, err)
		}
	}()

	c.JSON(http.StatusAccepted, SubmitRenderResponse{
		JobID:   job.ID,
		Message: "Render started",
	})
}

// handleGetStatus reports the worker state snapshot.
// GET /api/status
func (s *Server) handleGetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.states.GetStatus())
}
