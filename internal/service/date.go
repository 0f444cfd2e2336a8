// Package service contains the business logic layer: validation, ownership
// rules and orchestration. Handlers parse HTTP and delegate here; this
// package knows nothing about HTTP, repositories know nothing about rules.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/lfournier/datebook/internal/apperror"
	"github.com/lfournier/datebook/internal/audit"
	"github.com/lfournier/datebook/internal/model"
	"github.com/lfournier/datebook/internal/repository"
	"github.com/lfournier/datebook/internal/storage"
)

// MaxTitleLength bounds the title so a paste accident cannot blow up the
// list rendering.
const MaxTitleLength = 200

// ImageUpload is one validated file from a multipart request. The handler
// has already checked size and sniffed the mime type.
type ImageUpload struct {
	MIMEType string
	Data     io.Reader
}

// DateUpdate carries the partial fields of an update request. Nil means
// "leave unchanged", mirroring a JSON body with the key absent.
type DateUpdate struct {
	Title    *string
	Notes    *string
	Category *string
}

// DateService handles business logic for date ideas.
//
// Every operation takes the owner ID resolved from the bearer token and is
// scoped to it. A date belonging to another user is reported as NotFound,
// never as Forbidden — a 403 would confirm the record exists.
type DateService struct {
	repo   repository.DateRepository
	images storage.ImageStore
	audit  audit.Logger
	logger *slog.Logger
}

func NewDateService(repo repository.DateRepository, images storage.ImageStore, auditLog audit.Logger, logger *slog.Logger) *DateService {
	return &DateService{
		repo:   repo,
		images: images,
		audit:  auditLog,
		logger: logger,
	}
}

// List returns one page of the owner's dates and the total count under the
// same filters. opts.OwnerID is overwritten with ownerID so a caller can
// never list on behalf of someone else.
func (s *DateService) List(ctx context.Context, ownerID string, opts repository.DateListOptions) ([]model.Date, int, error) {
	opts.OwnerID = ownerID

	dates, count, err := s.repo.List(ctx, opts)
	if err != nil {
		s.logger.Error("failed to list dates", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("listing dates: %w", err)
	}

	return dates, count, nil
}

// Get returns a single date owned by ownerID.
func (s *DateService) Get(ctx context.Context, ownerID, id string) (*model.Date, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// Create validates and saves a new date idea. New dates start pending:
// done=false, no realization date, no images.
func (s *DateService) Create(ctx context.Context, ownerID, title, notes, category string) (*model.Date, error) {
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)

	if title == "" || category == "" {
		return nil, apperror.ValidationFailed("title", apperror.KeyMissingFields)
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title", apperror.KeyMissingFields)
	}

	date := &model.Date{
		OwnerID:  ownerID,
		Title:    title,
		Notes:    strings.TrimSpace(notes),
		Category: category,
		Images:   []string{},
		Done:     false,
	}

	if err := s.repo.Create(ctx, date); err != nil {
		s.logger.Error("failed to create date",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating date: %w", err)
	}

	s.audit.Log(ctx, audit.Entry{
		Message: fmt.Sprintf("Date '%s' created successfully", date.Title),
		UserID:  ownerID,
		Level:   audit.LevelInfo,
	})

	return date, nil
}

// Update merges the provided fields into an existing date. Returns NotFound
// if the date does not exist or belongs to another user.
func (s *DateService) Update(ctx context.Context, ownerID, id string, upd DateUpdate) (*model.Date, error) {
	date, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" || len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title", apperror.KeyMissingFields)
		}
		date.Title = title
	}
	if upd.Notes != nil {
		date.Notes = strings.TrimSpace(*upd.Notes)
	}
	if upd.Category != nil {
		category := strings.TrimSpace(*upd.Category)
		if category == "" {
			return nil, apperror.ValidationFailed("category", apperror.KeyMissingFields)
		}
		date.Category = category
	}

	if err := s.repo.Update(ctx, date); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, audit.Entry{
		Message: fmt.Sprintf("Date '%s' updated successfully", date.Title),
		UserID:  ownerID,
		Level:   audit.LevelInfo,
	})

	return date, nil
}

// Toggle flips the completion state.
//
// done=true stamps the supplied realization date, or the current time when
// none is given. done=false always clears the realization date — even if
// the request carried one — keeping the invariant that date_realised is
// set exactly when done is.
func (s *DateService) Toggle(ctx context.Context, ownerID, id string, done bool, dateRealised *time.Time) (*model.Date, error) {
	date, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if done {
		realised := time.Now()
		if dateRealised != nil {
			realised = *dateRealised
		}
		date.Done = true
		date.DateRealised = &realised
	} else {
		date.Done = false
		date.DateRealised = nil
	}

	if err := s.repo.Update(ctx, date); err != nil {
		return nil, err
	}

	state := "pending"
	if done {
		state = "complete"
	}
	s.audit.Log(ctx, audit.Entry{
		Message: fmt.Sprintf("Date '%s' marked %s", date.Title, state),
		UserID:  ownerID,
		Level:   audit.LevelInfo,
	})

	return date, nil
}

// Delete removes a date and then its image files. File deletion is best
// effort: the record is already gone, so a failing unlink only leaves an
// orphaned file worth a log line, not an error to the caller.
func (s *DateService) Delete(ctx context.Context, ownerID, id string) error {
	date, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	for _, url := range date.Images {
		filename := path.Base(url)
		if err := s.images.Delete(ctx, filename); err != nil {
			s.logger.Warn("failed to delete image file",
				slog.String("dateId", id),
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
		}
	}

	s.audit.Log(ctx, audit.Entry{
		Message: fmt.Sprintf("Date '%s' deleted successfully", date.Title),
		UserID:  ownerID,
		Level:   audit.LevelInfo,
	})

	return nil
}

// UploadImages stores the uploaded files and appends their public URLs to
// the date. The limit check runs before anything touches disk, so an
// over-limit batch is rejected whole — no partial acceptance. If a write
// fails halfway, the files already written are rolled back.
func (s *DateService) UploadImages(ctx context.Context, ownerID, id, baseURL string, files []ImageUpload) ([]string, error) {
	date, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, apperror.ValidationFailed("images", apperror.KeyMissingFields)
	}
	if len(date.Images)+len(files) > model.MaxImagesPerDate {
		return nil, apperror.ValidationFailed("images", apperror.KeyTooManyImages)
	}

	saved := make([]string, 0, len(files))
	for _, f := range files {
		filename, err := s.images.Save(ctx, date.ID, f.MIMEType, f.Data)
		if err != nil {
			s.rollbackFiles(ctx, saved)
			return nil, fmt.Errorf("saving image: %w", err)
		}
		saved = append(saved, filename)
	}

	for _, filename := range saved {
		date.Images = append(date.Images, fmt.Sprintf("%s/uploads/dates/%s", baseURL, filename))
	}

	if err := s.repo.Update(ctx, date); err != nil {
		s.rollbackFiles(ctx, saved)
		return nil, err
	}

	s.audit.Log(ctx, audit.Entry{
		Message: fmt.Sprintf("Uploaded %d image(s) for date '%s'", len(saved), date.Title),
		UserID:  ownerID,
		Level:   audit.LevelInfo,
	})

	return date.Images, nil
}

// DeleteImage removes one image from a date by filename and deletes the
// underlying file. Matching is by substring: the record stores full public
// URLs while the route carries only the filename.
func (s *DateService) DeleteImage(ctx context.Context, ownerID, id, filename string) ([]string, error) {
	date, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	found := false
	remaining := make([]string, 0, len(date.Images))
	for _, url := range date.Images {
		if !found && strings.Contains(url, filename) {
			found = true
			continue
		}
		remaining = append(remaining, url)
	}
	if !found {
		return nil, apperror.NotFound(apperror.KeyNoSuchImage)
	}

	date.Images = remaining
	if err := s.repo.Update(ctx, date); err != nil {
		return nil, err
	}

	if err := s.images.Delete(ctx, filename); err != nil {
		s.logger.Warn("failed to delete image file",
			slog.String("dateId", id),
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}

	s.audit.Log(ctx, audit.Entry{
		Message: fmt.Sprintf("Deleted image '%s' from date '%s'", filename, date.Title),
		UserID:  ownerID,
		Level:   audit.LevelInfo,
	})

	return date.Images, nil
}

// rollbackFiles removes files written before a failed operation, so a
// rejected request leaves no stray uploads behind.
func (s *DateService) rollbackFiles(ctx context.Context, filenames []string) {
	for _, filename := range filenames {
		if err := s.images.Delete(ctx, filename); err != nil {
			s.logger.Warn("failed to roll back uploaded file",
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
		}
	}
}
