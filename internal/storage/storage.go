// Package storage abstracts where uploaded date photos live. The local
// subpackage stores them on disk; the interface keeps the service layer
// ignorant of that, so an S3-style backend could be swapped in later.
package storage

import (
	"context"
	"io"
)

// ImageStore persists uploaded images and hands back the generated
// filename, which doubles as the storage key.
type ImageStore interface {
	// Save writes the image and returns its filename. dateID and the mime
	// type drive the naming scheme; the caller has already validated both.
	Save(ctx context.Context, dateID, mimeType string, r io.Reader) (filename string, err error)
	// Delete removes a stored image by filename.
	Delete(ctx context.Context, filename string) error
}
