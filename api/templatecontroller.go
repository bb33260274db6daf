package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterTemplateRoutes registers template endpoints.
func (s *Server) RegisterTemplateRoutes(r *gin.Engine) {
	g := r.Group("/api/templates")
	g.GET("", s.handleListTemplates)
	g.POST("", s.handleSaveTemplate)
	g.GET("/:stem", s.handleLoadTemplate)
	g.DELETE("/:stem", s.handleDeleteTemplate)
}

// SaveTemplateRequest represents a template save request.
type SaveTemplateRequest struct {
	Name     string         `json:"name" binding:"required"`
	Settings map[string]any `json:"settings" binding:"required"`
}

// handleListTemplates lists saved templates sorted by display name.
func (s *Server) handleListTemplates(c *gin.Context) {
	infos, err := s.templates.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list templates: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": infos})
}

// handleSaveTemplate persists settings under a sanitized file name.
func (s *Server) handleSaveTemplate(c *gin.Context) {
	var req SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stem, err := s.templates.Save(req.Name, req.Settings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save template: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "saved",
		"stem":   stem,
	})
}

// handleLoadTemplate returns the stored settings document.
func (s *Server) handleLoadTemplate(c *gin.Context) {
	settings, err := s.templates.Load(c.Param("stem"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// handleDeleteTemplate removes a saved template.
func (s *Server) handleDeleteTemplate(c *gin.Context) {
	if err := s.templates.Delete(c.Param("stem")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
