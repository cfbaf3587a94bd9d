// handlers/file_gcs.go
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"cloud.google.com/go/storage"
)

var (
	gcsOnce   sync.Once
	gcsClient *storage.Client
	gcsErr    error
)

func storageClient(ctx context.Context) (*storage.Client, error) {
	gcsOnce.Do(func() {
		gcsClient, gcsErr = storage.NewClient(ctx)
	})
	return gcsClient, gcsErr
}

// saveFileGCS streams an upload into the GCS_BUCKET bucket under the
// permit object key and returns the public object URL.
func saveFileGCS(ctx context.Context, key string, src io.Reader, contentType string) (string, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return "", fmt.Errorf("GCS_BUCKET must be set")
	}

	client, err := storageClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create Storage client: %w", err)
	}

	wr := client.Bucket(bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		wr.ContentType = contentType
	}
	if _, err := io.Copy(wr, src); err != nil {
		wr.Close()
		return "", fmt.Errorf("failed to write gs://%s/%s: %w", bucket, key, err)
	}
	if err := wr.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize gs://%s/%s: %w", bucket, key, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key), nil
}
