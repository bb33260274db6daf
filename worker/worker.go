// Package worker executes render jobs end to end: render, archive,
// publish. Jobs arrive from Kafka, from a batch directory or one-off
// from the API.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"slidecast/config"
	"slidecast/kafka"
	"slidecast/project"
	"slidecast/publish"
	"slidecast/render"
	"slidecast/state"
	"slidecast/storage"
	"slidecast/types"
)

// Worker runs render jobs and records their outcomes.
type Worker struct {
	renderer  *render.Renderer
	archive   *storage.Archive // nil disables archiving
	publisher *publish.Publisher
	states    *state.Manager
	outputDir string
}

// New wires a worker. A nil archive turns archiving off; a publisher in
// skip mode renders without uploading.
func New(renderer *render.Renderer, archive *storage.Archive, publisher *publish.Publisher, states *state.Manager) *Worker {
	renderer.OnProgress = states.SetStage
	return &Worker{
		renderer:  renderer,
		archive:   archive,
		publisher: publisher,
		states:    states,
		outputDir: config.OutputDir,
	}
}

// ProcessJob runs one job to completion.
func (w *Worker) ProcessJob(ctx context.Context, job *types.RenderJob) (*types.JobResult, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	w.states.StartJob(job.ID)

	outputPath := filepath.Join(w.outputDir, fmt.Sprintf("%s.mp4", job.ID))
	res, err := w.renderer.Render(ctx, &job.Project, outputPath, render.Options{
		Quality: job.Quality,
		Fade:    job.Fade,
	})
	if err != nil {
		w.states.FailJob(job.ID, err)
		return nil, err
	}

	result := &types.JobResult{
		JobID:      job.ID,
		OutputPath: outputPath,
		Captions:   res.Captions,
		Audio:      res.Audio,
	}

	// Archive failures degrade to local-only output rather than failing a
	// render that already succeeded.
	if w.archive != nil {
		key, err := w.archive.StoreVideo(ctx, job.ID, outputPath)
		if err != nil {
			log.Printf("⚠️ Archive failed for %s: %v", job.ID, err)
		} else {
			result.ArchiveKey = key
			if report, err := json.Marshal(res.Audio); err == nil {
				if _, err := w.archive.StoreReport(ctx, job.ID, report); err != nil {
					log.Printf("⚠️ Report archive failed for %s: %v", job.ID, err)
				}
			}
		}
	}

	if job.Upload {
		if w.publisher.Skipping() {
			log.Printf("Skipping YouTube upload (no credentials)")
		} else {
			videoID, err := w.publisher.Publish(outputPath, publish.GenerateMetadata(&job.Project))
			if err != nil {
				w.states.FailJob(job.ID, fmt.Errorf("upload failed: %w", err))
				return nil, err
			}
			result.VideoID = videoID
		}
	}

	w.states.CompleteJob(result)
	return result, nil
}

// RunBatch renders every project JSON in inputDir, a few at a time.
func (w *Worker) RunBatch(ctx context.Context, inputDir string) error {
	files, err := filepath.Glob(filepath.Join(inputDir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list input files: %w", err)
	}
	if len(files) == 0 {
		log.Printf("No project files found in %s", inputDir)
		return nil
	}

	log.Printf("Found %d projects to render", len(files))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.MaxConcurrentRenders)

	for i, file := range files {
		wg.Add(1)

		go func(idx int, path string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			log.Printf("[%d/%d] Rendering: %s", idx+1, len(files), filepath.Base(path))
			if err := w.processFile(ctx, path); err != nil {
				log.Printf("Failed to render %s: %v", path, err)
			}
		}(i, file)
	}

	wg.Wait()
	log.Println("All projects rendered!")
	return nil
}

func (w *Worker) processFile(ctx context.Context, path string) error {
	data, err := project.LoadData(path)
	if err != nil {
		return err
	}

	job := &types.RenderJob{
		ID:      jobIDFromFile(path),
		Project: *data,
		Quality: data.Quality,
	}
	_, err = w.ProcessJob(ctx, job)
	return err
}

// jobIDFromFile derives a stable job ID from the input filename, so a
// re-run overwrites its own output instead of accumulating copies.
func jobIDFromFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// KafkaHandler adapts the worker to the consumer's message interface.
func (w *Worker) KafkaHandler() kafka.MessageHandler {
	return &kafka.TypedMessageHandler[types.RenderJob]{
		Validate: func(job *types.RenderJob) bool {
			if len(job.Project.Images) == 0 {
				log.Printf("⚠️ Job %s has no images, skipping", job.ID)
				return false
			}
			return true
		},
		Process: func(ctx context.Context, job *types.RenderJob) error {
			_, err := w.ProcessJob(ctx, job)
			return err
		},
		AlwaysMark: true, // Mark validation failures, but not render failures
	}
}

// RunKafka consumes render jobs until interrupted.
func (w *Worker) RunKafka() error {
	return kafka.RunWithGracefulShutdown(kafka.ConsumerConfig{
		Brokers: kafka.GetBrokers(),
		Topic:   kafka.GetTopic(),
		GroupID: kafka.GetGroupID(),
		Handler: w.KafkaHandler(),
	})
}
