// Package storage archives rendered artifacts to an S3-compatible
// object store. Archiving is optional: without a bucket configured the
// worker keeps everything on local disk only.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"slidecast/config"
)

// ArchiveConfig selects the bucket and addressing for artifact uploads.
// Credentials come from the standard AWS config/credential chain.
type ArchiveConfig struct {
	// Bucket receives the artifacts. Empty disables archiving.
	Bucket string
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// Prefix is prepended to every object key.
	Prefix string
	// UsePathStyle forces path-style addressing (useful for some S3-compatible providers).
	UsePathStyle bool
}

// ArchiveConfigFromEnv reads S3_BUCKET, AWS_REGION, S3_PREFIX and
// S3_USE_PATH_STYLE.
func ArchiveConfigFromEnv() ArchiveConfig {
	return ArchiveConfig{
		Bucket:       config.GetEnv("S3_BUCKET", ""),
		Region:       config.GetEnv("AWS_REGION", ""),
		Prefix:       config.GetEnv("S3_PREFIX", "renders"),
		UsePathStyle: config.GetEnvBool("S3_USE_PATH_STYLE", false),
	}
}

// Archive uploads rendered videos and their mix reports.
type Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewArchive creates an archive over the standard AWS configuration
// chain. A config without a bucket returns (nil, nil); callers treat a
// nil archive as "archiving off".
func NewArchive(ctx context.Context, cfg ArchiveConfig) (*Archive, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	log.Printf("✅ Artifact archive ready (bucket=%s)", cfg.Bucket)
	return &Archive{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// StoreVideo uploads a rendered video file and returns its object key.
// A key that is already archived (a redelivered job re-rendering the
// same output) is not uploaded again.
func (a *Archive) StoreVideo(ctx context.Context, jobID, localPath string) (string, error) {
	key := objectKey(a.prefix, jobID, filepath.Ext(localPath), time.Now().UTC())
	if ok, err := a.Exists(ctx, key); err == nil && ok {
		log.Printf("📤 Video already archived at s3://%s/%s, skipping upload", a.bucket, key)
		return key, nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open rendered video: %w", err)
	}
	defer f.Close()

	if err := a.put(ctx, key, f, "video/mp4"); err != nil {
		return "", fmt.Errorf("failed to archive video: %w", err)
	}
	log.Printf("📤 Archived video to s3://%s/%s", a.bucket, key)
	return key, nil
}

// StoreReport uploads the JSON mix report alongside the video.
func (a *Archive) StoreReport(ctx context.Context, jobID string, report []byte) (string, error) {
	key := objectKey(a.prefix, jobID, ".report.json", time.Now().UTC())
	if err := a.put(ctx, key, bytes.NewReader(report), "application/json"); err != nil {
		return "", fmt.Errorf("failed to archive mix report: %w", err)
	}
	return key, nil
}

// Exists reports whether an object is already archived, so a redelivered
// job can skip its upload.
func (a *Archive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *http.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}

func (a *Archive) put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

// objectKey lays artifacts out as prefix/YYYY/MM/jobID.ext so buckets
// stay browsable as volume grows.
func objectKey(prefix, jobID, ext string, now time.Time) string {
	return path.Join(prefix, fmt.Sprintf("%04d/%02d", now.Year(), int(now.Month())), jobID+ext)
}
