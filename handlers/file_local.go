// handlers/file_local.go
package handlers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const uploadDir = "./uploads" // Local directory for file storage

// saveFileLocal writes an upload under ./uploads keyed by the permit
// object key and returns the relative URL the router serves it from.
// Development fallback for environments without a GCS bucket.
func saveFileLocal(key string, src io.Reader) (string, error) {
	dest := filepath.Join(uploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return "/uploads/" + key, nil
}
