// Package publish uploads finished slideshows to YouTube. Without a
// service account configured the publisher runs in skip mode, so local
// and CI renders never need credentials.
package publish

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"slidecast/config"
	"slidecast/project"
)

// Metadata is what an upload carries besides the video bytes.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
}

type Publisher struct {
	service *youtube.Service
}

// NewPublisher authenticates with a service account JSON file.
func NewPublisher(serviceAccountFile string) (*Publisher, error) {
	ctx := context.Background()

	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	client := jwtConfig.Client(ctx)

	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}

	return &Publisher{service: service}, nil
}

// NewPublisherFromEnv builds a publisher from YOUTUBE_SERVICE_ACCOUNT_FILE.
// With the variable unset, uploads are skipped rather than failing.
func NewPublisherFromEnv() (*Publisher, error) {
	file := config.GetEnv("YOUTUBE_SERVICE_ACCOUNT_FILE", "")
	if file == "" {
		log.Printf("⚠️ No YouTube service account configured, uploads will be skipped")
		return &Publisher{}, nil
	}
	return NewPublisher(file)
}

// Skipping reports whether uploads are disabled.
func (p *Publisher) Skipping() bool { return p.service == nil }

// Publish uploads the video at videoPath. In skip mode it returns an
// empty video ID and no error.
func (p *Publisher) Publish(videoPath string, metadata Metadata) (string, error) {
	if p.Skipping() {
		log.Printf("📤 Upload skipped for %s (%s)", videoPath, metadata.Title)
		return "", nil
	}

	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}

	log.Printf("📤 Uploading: %s (%.2f MB)", videoPath, float64(fileInfo.Size())/(1024*1024))

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       metadata.Title,
			Description: metadata.Description,
			Tags:        metadata.Tags,
			CategoryId:  config.YouTubeCategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           config.YouTubePrivacyStatus,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := p.service.Videos.Insert([]string{"snippet", "status"}, video)
	call = call.Media(file)

	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	videoID := response.Id
	log.Printf("✅ Uploaded! https://youtube.com/shorts/%s", videoID)

	return videoID, nil
}

// GenerateMetadata derives the upload title, description and tags from
// the project.
func GenerateMetadata(data *project.Data) Metadata {
	title := strings.TrimSpace(data.Title)
	if title == "" {
		title = strings.TrimSpace(data.Theme)
	}
	if title == "" {
		title = "Daily Slideshow"
	}
	if len(title) > 100 {
		title = title[:97] + "..."
	}

	description := fmt.Sprintf(
		"%s\n\n"+
			"📱 Follow for a new slideshow every day!\n"+
			"#slideshow #shorts",
		strings.TrimSpace(data.Body),
	)

	tags := []string{
		"slideshow",
		"shorts",
		"daily",
	}
	for _, word := range strings.Fields(strings.ToLower(data.Theme)) {
		tags = append(tags, word)
	}

	return Metadata{
		Title:       title,
		Description: description,
		Tags:        tags,
	}
}
