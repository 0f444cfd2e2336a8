package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lfournier/datebook/internal/apperror"
	"github.com/lfournier/datebook/internal/auth"
	"github.com/lfournier/datebook/internal/model"
	"github.com/lfournier/datebook/internal/service"
)

const (
	// maxImageSize is the per-file cap. The client compresses photos before
	// uploading, so anything larger is a misbehaving client.
	maxImageSize = 3 * 1024 * 1024 // 3 MB

	// maxUploadMemory bounds how much of the multipart body is buffered in
	// memory before spilling to temp files.
	maxUploadMemory = 16 * 1024 * 1024
)

// allowedImageTypes is the set of MIME types accepted for uploads.
// http.DetectContentType covers JPEG, PNG and GIF by magic-byte sniffing;
// WebP is checked separately because the WHATWG sniff spec the stdlib
// implements has no WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP"
// at offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is
// an accepted image format. Detection works on content, never on the
// client-supplied Content-Type or filename.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

type imagesResponse struct {
	Images  []string `json:"images"`
	Message string   `json:"message"`
}

// HandleUploadImages serves POST /api/dates/{id}/images (multipart field
// "images", up to 5 files, 3 MB each). Validation happens here — size,
// count, sniffed type — and the service enforces the per-date limit before
// anything is written to disk.
func (h *DateHandler) HandleUploadImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.KeyUnauthorized))
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, apperror.ValidationFailed("images", apperror.KeyUploadFailed))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		writeError(w, apperror.ValidationFailed("images", apperror.KeyMissingFields))
		return
	}
	if len(headers) > model.MaxImagesPerDate {
		writeError(w, apperror.ValidationFailed("images", apperror.KeyTooManyImages))
		return
	}

	files := make([]service.ImageUpload, 0, len(headers))
	openFiles := make([]io.Closer, 0, len(headers))
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()

	for _, header := range headers {
		if header.Size > maxImageSize {
			writeError(w, apperror.ValidationFailed("images", apperror.KeyFileTooLarge))
			return
		}

		f, err := header.Open()
		if err != nil {
			writeError(w, apperror.ValidationFailed("images", apperror.KeyUploadFailed))
			return
		}
		openFiles = append(openFiles, f)

		// Sniff the first 512 bytes, then stitch them back in front of the
		// remainder so the store still writes the whole file.
		head := make([]byte, 512)
		n, err := io.ReadFull(f, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			writeError(w, apperror.ValidationFailed("images", apperror.KeyUploadFailed))
			return
		}
		head = head[:n]

		mimeType, ok := allowedImageMIME(head)
		if !ok {
			writeError(w, apperror.ValidationFailed("images", apperror.KeyInvalidFileType))
			return
		}

		files = append(files, service.ImageUpload{
			MIMEType: mimeType,
			Data:     io.MultiReader(bytes.NewReader(head), f),
		})
	}

	images, err := h.service.UploadImages(r.Context(), userID, chi.URLParam(r, "id"), baseURL(r), files)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, imagesResponse{
		Images:  images,
		Message: apperror.KeyImagesUploaded,
	})
}

// HandleDeleteImage serves DELETE /api/dates/{id}/images/{filename}.
func (h *DateHandler) HandleDeleteImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.KeyUnauthorized))
		return
	}

	images, err := h.service.DeleteImage(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "filename"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, imagesResponse{
		Images:  images,
		Message: apperror.KeyImageDeleted,
	})
}

// baseURL reconstructs the public origin for building image URLs.
// Behind a TLS-terminating proxy the scheme arrives in X-Forwarded-Proto.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
