package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"slidecast/project"
	"slidecast/state"
	"slidecast/types"
)

type fakeRunner struct {
	jobs chan *types.RenderJob
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{jobs: make(chan *types.RenderJob, 1)}
}

func (f *fakeRunner) ProcessJob(ctx context.Context, job *types.RenderJob) (*types.JobResult, error) {
	f.jobs <- job
	return &types.JobResult{JobID: job.ID}, nil
}

type fakeDecoder struct {
	samples []int16
	err     error
}

func (f *fakeDecoder) DecodeWaveformSamples(path string) ([]int16, error) {
	return f.samples, f.err
}

func newTestRouter(t *testing.T, runner JobRunner, states *state.Manager, decoder WaveformDecoder) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := project.NewTemplateStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inputDir := t.TempDir()

	s := NewServer(ServerConfig{
		Runner:    runner,
		States:    states,
		Decoder:   decoder,
		Templates: store,
		Locator:   project.NewLocator(t.TempDir(), t.TempDir()),
		InputDir:  inputDir,
	})
	return NewRouter(s), inputDir
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, newFakeRunner(), state.NewManager(), &fakeDecoder{})

	w := doJSON(router, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestSubmitRenderRejectsImagelessProject(t *testing.T) {
	router, _ := newTestRouter(t, newFakeRunner(), state.NewManager(), &fakeDecoder{})

	w := doJSON(router, http.MethodPost, "/api/render", `{"project":{"title":"x","image_paths":[]}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitRenderAcceptsJob(t *testing.T) {
	runner := newFakeRunner()
	router, _ := newTestRouter(t, runner, state.NewManager(), &fakeDecoder{})

	body := `{"project":{"title":"Sunrise","image_paths":["a.png"],"target_duration":10},"quality":"low"}`
	w := doJSON(router, http.MethodPost, "/api/render", body)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp SubmitRenderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp.JobID == "" {
		t.Fatal("expected a job id")
	}

	select {
	case job := <-runner.jobs:
		if job.ID != resp.JobID {
			t.Fatalf("expected job %s to reach runner, got %s", resp.JobID, job.ID)
		}
		if job.Project.Title != "Sunrise" || job.Quality != "low" {
			t.Fatalf("unexpected job payload: %+v", job)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job never reached the runner")
	}
}

func TestRenderSavedProjectByName(t *testing.T) {
	runner := newFakeRunner()
	router, inputDir := newTestRouter(t, runner, state.NewManager(), &fakeDecoder{})

	data := &project.Data{
		Title:          "Saved",
		Images:         []string{"a.png"},
		TargetDuration: 12,
		Quality:        "low",
	}
	if err := data.Save(filepath.Join(inputDir, "morning_vibes.json")); err != nil {
		t.Fatal(err)
	}

	w := doJSON(router, http.MethodPost, "/api/render/morning_vibes", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	select {
	case job := <-runner.jobs:
		if job.Project.Title != "Saved" || job.Quality != "low" {
			t.Fatalf("unexpected job payload: %+v", job)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job never reached the runner")
	}
}

func TestRenderSavedProjectMissing(t *testing.T) {
	router, _ := newTestRouter(t, newFakeRunner(), state.NewManager(), &fakeDecoder{})

	w := doJSON(router, http.MethodPost, "/api/render/no_such_project", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStatusEndpoint(t *testing.T) {
	states := state.NewManager()
	router, _ := newTestRouter(t, newFakeRunner(), states, &fakeDecoder{})

	states.StartJob("job-9")

	w := doJSON(router, http.MethodGet, "/api/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var status types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if status.State != types.StateRendering || status.ActiveJob != "job-9" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestTemplateLifecycleOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t, newFakeRunner(), state.NewManager(), &fakeDecoder{})

	w := doJSON(router, http.MethodPost, "/api/templates", `{"name":"Morning Vibes","settings":{"quality":"high"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "morning_vibes") {
		t.Fatalf("expected sanitized stem in response: %s", w.Body.String())
	}

	w = doJSON(router, http.MethodGet, "/api/templates", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Morning Vibes") {
		t.Fatalf("list: unexpected response %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodGet, "/api/templates/morning_vibes", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "high") {
		t.Fatalf("load: unexpected response %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodDelete, "/api/templates/morning_vibes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	w = doJSON(router, http.MethodGet, "/api/templates/morning_vibes", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("load after delete: expected 404, got %d", w.Code)
	}
}

func TestThemesUnavailableWithoutSheet(t *testing.T) {
	router, _ := newTestRouter(t, newFakeRunner(), state.NewManager(), &fakeDecoder{})

	w := doJSON(router, http.MethodGet, "/api/themes", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestWaveformEndpoint(t *testing.T) {
	decoder := &fakeDecoder{samples: []int16{0, 100, -200, 300, -400, 500, -600, 700}}
	router, _ := newTestRouter(t, newFakeRunner(), state.NewManager(), decoder)

	w := doJSON(router, http.MethodGet, "/api/waveform?path=voice.mp3&width=4&height=100", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp WaveformResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(resp.Peaks) != 4 {
		t.Fatalf("expected 4 peak pairs, got %d", len(resp.Peaks))
	}
	if resp.Width != 4 || resp.Height != 100 {
		t.Fatalf("unexpected dimensions: %+v", resp)
	}
}

func TestWaveformEndpointErrors(t *testing.T) {
	router, _ := newTestRouter(t, newFakeRunner(), state.NewManager(), &fakeDecoder{err: errors.New("no such file")})

	w := doJSON(router, http.MethodGet, "/api/waveform", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing path: expected 400, got %d", w.Code)
	}

	w = doJSON(router, http.MethodGet, "/api/waveform?path=broken.mp3", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("decode failure: expected 422, got %d", w.Code)
	}
}
