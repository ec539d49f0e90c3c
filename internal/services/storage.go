package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// MediaStorage persists generated audio, video and thumbnail files to a
// public GCS bucket and returns their public URLs.
type MediaStorage struct {
	client *storage.Client
	bucket string
}

func NewMediaStorage(ctx context.Context, bucket string) (*MediaStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &MediaStorage{
		client: client,
		bucket: bucket,
	}, nil
}

func (s *MediaStorage) Close() error {
	return s.client.Close()
}

func (s *MediaStorage) UploadAudio(ctx context.Context, data []byte) (string, error) {
	return s.upload(ctx, objectName("audio", ".mp3"), data, "audio/mpeg")
}

func (s *MediaStorage) UploadVideo(ctx context.Context, data []byte) (string, error) {
	return s.upload(ctx, objectName("videos", ".mp4"), data, "video/mp4")
}

func (s *MediaStorage) UploadThumbnail(ctx context.Context, data []byte) (string, error) {
	return s.upload(ctx, objectName("thumbnails", ".jpg"), data, "image/jpeg")
}

func (s *MediaStorage) upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("no data to upload")
	}

	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload of %s: %w", path, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, path), nil
}

func objectName(prefix, ext string) string {
	return fmt.Sprintf("%s/%s_%s%s", prefix, time.Now().UTC().Format("20060102"), uuid.New().String(), ext)
}
