// Package local stores uploaded images on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ImageStore writes images under a single base directory. The directory is
// created once here, at construction — nothing happens at import time.
type ImageStore struct {
	basePath string
}

func NewImageStore(basePath string) (*ImageStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("local: creating image directory: %w", err)
	}
	return &ImageStore{basePath: basePath}, nil
}

// Save writes the image to disk under the name date_<dateID>_<nanos><ext>.
// The nanosecond timestamp keeps concurrent uploads for the same date from
// colliding. A partially written file is removed before the error returns.
func (s *ImageStore) Save(ctx context.Context, dateID, mimeType string, r io.Reader) (string, error) {
	filename := fmt.Sprintf("date_%s_%d%s", dateID, time.Now().UnixNano(), mimeTypeToExt(mimeType))
	filePath := filepath.Join(s.basePath, filename)

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("local: creating file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return "", fmt.Errorf("local: writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return "", fmt.Errorf("local: closing file: %w", err)
	}
	return filename, nil
}

// Delete removes a stored image. Deleting a file that is already gone is
// not an error: the record is the source of truth, the file is derived.
func (s *ImageStore) Delete(ctx context.Context, filename string) error {
	filePath, err := s.safeJoin(filename)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("local: deleting file: %w", err)
	}
	return nil
}

// Dir returns the base directory, for serving the files over HTTP.
func (s *ImageStore) Dir() string {
	return s.basePath
}

// safeJoin resolves filename relative to basePath and rejects directory
// traversal. Filenames reach Delete from URL paths, so this is load-bearing.
func (s *ImageStore) safeJoin(filename string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("local: invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, filename))
	if err != nil {
		return "", fmt.Errorf("local: invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("local: path traversal attempt")
	}
	return absPath, nil
}

func mimeTypeToExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
