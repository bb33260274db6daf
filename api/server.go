// Package api exposes the render service over HTTP: job submission and
// status, template CRUD, spreadsheet themes, and waveform previews.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"slidecast/project"
	"slidecast/sheets"
	"slidecast/state"
	"slidecast/types"
)

// JobRunner runs one render job. *worker.Worker implements it.
type JobRunner interface {
	ProcessJob(ctx context.Context, job *types.RenderJob) (*types.JobResult, error)
}

// WaveformDecoder extracts preview samples from an audio file.
// *media.Engine implements it.
type WaveformDecoder interface {
	DecodeWaveformSamples(path string) ([]int16, error)
}

// ServerConfig wires the API's collaborators. Themes may be nil when
// spreadsheet access is not configured.
type ServerConfig struct {
	Runner    JobRunner
	States    *state.Manager
	Decoder   WaveformDecoder
	Templates *project.TemplateStore
	Themes    *sheets.Manager
	Locator   *project.Locator
	ImageDir  string
	InputDir  string
}

// Server holds the handler dependencies.
type Server struct {
	runner    JobRunner
	states    *state.Manager
	decoder   WaveformDecoder
	templates *project.TemplateStore
	themes    *sheets.Manager
	locator   *project.Locator
	imageDir  string
	inputDir  string
}

// NewServer creates a new API server instance.
func NewServer(cfg ServerConfig) *Server {
	return &Server{
		runner:    cfg.Runner,
		states:    cfg.States,
		decoder:   cfg.Decoder,
		templates: cfg.Templates,
		themes:    cfg.Themes,
		locator:   cfg.Locator,
		imageDir:  cfg.ImageDir,
		inputDir:  cfg.InputDir,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	s.RegisterRenderRoutes(r)
	s.RegisterTemplateRoutes(r)
	s.RegisterThemeRoutes(r)
	s.RegisterWaveformRoutes(r)
	RegisterHealthRoutes(r)
	return r
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", handleHealth)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
