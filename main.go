package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"slidecast/api"
	"slidecast/cache"
	"slidecast/config"
	"slidecast/media"
	"slidecast/project"
	"slidecast/publish"
	"slidecast/render"
	"slidecast/sheets"
	"slidecast/state"
	"slidecast/storage"
	"slidecast/worker"
)

const (
	// DefaultAPIPort is the default port for the HTTP API server
	DefaultAPIPort = ":8080"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	// Command-line flags
	batchMode := flag.Bool("batch", false, "Run in batch mode (render every project in the input/ directory)")
	kafkaMode := flag.Bool("kafka", false, "Run in Kafka consumer mode (consume render jobs from a topic)")
	apiPort := flag.String("port", DefaultAPIPort, "API server port (e.g., :8080)")
	flag.Parse()

	log.Println("🎬 Slidecast Render Service - Starting...")

	engine, err := media.NewEngine()
	if err != nil {
		log.Fatalf("❌ Failed to initialize media engine: %v", err)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		log.Fatalf("❌ Failed to create output directory: %v", err)
	}

	ctx := context.Background()

	renderer := render.NewRenderer(engine, cache.NewProbeCacheFromEnv(engine))

	archive, err := storage.NewArchive(ctx, storage.ArchiveConfigFromEnv())
	if err != nil {
		log.Printf("⚠️ Artifact archive unavailable: %v", err)
	}

	publisher, err := publish.NewPublisherFromEnv()
	if err != nil {
		log.Fatalf("❌ Failed to initialize YouTube publisher: %v", err)
	}

	states := state.NewManager()
	w := worker.New(renderer, archive, publisher, states)

	if *batchMode {
		// Batch mode: render every project JSON in the input directory
		log.Println("📁 Running in BATCH mode")
		if err := w.RunBatch(ctx, config.InputDir); err != nil {
			log.Fatalf("❌ Batch rendering failed: %v", err)
		}
		os.Exit(0)
	}

	if *kafkaMode {
		// Kafka mode: consume render jobs from the topic
		log.Println("📨 Running in KAFKA consumer mode")
		if err := w.RunKafka(); err != nil {
			log.Fatalf("❌ Kafka consumer failed: %v", err)
		}
		os.Exit(0)
	}

	// API mode: Start HTTP server
	log.Println("🌐 Running in API mode")

	templates, err := project.NewTemplateStore(config.TemplatesDir)
	if err != nil {
		log.Fatalf("❌ Failed to open template store: %v", err)
	}

	server := api.NewServer(api.ServerConfig{
		Runner:    w,
		States:    states,
		Decoder:   engine,
		Templates: templates,
		Themes:    themeManager(ctx),
		Locator:   project.NewLocator(config.AudioDir, config.TemplatesDir),
		ImageDir:  config.ImagesDir,
		InputDir:  config.InputDir,
	})
	r := api.NewRouter(server)

	log.Printf("🚀 API Server listening on %s", *apiPort)
	log.Println("📌 Endpoints:")
	log.Println("   POST /api/render              - Submit a render job")
	log.Println("   GET  /api/status              - Service status and logs")
	log.Println("   GET  /api/templates           - Saved project templates")
	log.Println("   GET  /api/themes              - Spreadsheet themes")
	log.Println("   GET  /api/waveform            - Audio waveform preview")
	log.Println("   GET  /api/health              - Health check")

	if err := http.ListenAndServe(*apiPort, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// themeManager connects to the theme spreadsheet when credentials are
// configured. A nil manager disables the themes endpoints.
func themeManager(ctx context.Context) *sheets.Manager {
	serviceAccountFile := os.Getenv("SHEETS_SERVICE_ACCOUNT_FILE")
	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if serviceAccountFile == "" || spreadsheetID == "" {
		log.Println("⚠️ No theme spreadsheet configured, themes endpoints disabled")
		return nil
	}

	m, err := sheets.NewManager(ctx, serviceAccountFile, spreadsheetID, config.GetEnv("SHEET_NAME", "Themes"))
	if err != nil {
		log.Printf("⚠️ Theme spreadsheet unavailable: %v", err)
		return nil
	}
	return m
}
