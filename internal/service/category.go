package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lfournier/datebook/internal/apperror"
	"github.com/lfournier/datebook/internal/audit"
	"github.com/lfournier/datebook/internal/model"
	"github.com/lfournier/datebook/internal/repository"
)

// defaultCategories is the seeded base vocabulary. Names are French
// because the product is; they are data, not UI strings, and the client
// displays them verbatim.
var defaultCategories = []model.Category{
	{Name: "Romantique", Color: "#ec4899", Icon: "heart", IsDefault: true},
	{Name: "Aventure", Color: "#f97316", Icon: "mountain", IsDefault: true},
	{Name: "Culture", Color: "#8b5cf6", Icon: "book", IsDefault: true},
	{Name: "Gastronomie", Color: "#eab308", Icon: "utensils", IsDefault: true},
	{Name: "Sport", Color: "#22c55e", Icon: "dumbbell", IsDefault: true},
	{Name: "Détente", Color: "#06b6d4", Icon: "spa", IsDefault: true},
}

// CategoryUpdate carries the partial fields of a category update.
type CategoryUpdate struct {
	Name  *string
	Color *string
	Icon  *string
}

// CategoryService handles business logic for categories. Categories are
// shared, not per-user; the actor ID is only threaded through for the
// audit trail.
type CategoryService struct {
	repo   repository.CategoryRepository
	audit  audit.Logger
	logger *slog.Logger
}

func NewCategoryService(repo repository.CategoryRepository, auditLog audit.Logger, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		audit:  auditLog,
		logger: logger,
	}
}

// Seed upserts the default categories. Insert-if-absent semantics make it
// idempotent: running it on every start never duplicates a name and never
// overwrites a category the users have customized.
func (s *CategoryService) Seed(ctx context.Context) error {
	for _, cat := range defaultCategories {
		c := cat
		if err := s.repo.EnsureExists(ctx, &c); err != nil {
			return fmt.Errorf("seeding category %q: %w", cat.Name, err)
		}
	}
	s.logger.Info("default categories seeded", slog.Int("count", len(defaultCategories)))
	return nil
}

// List returns all categories, default ones first, then alphabetical.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// Create adds a user-defined category. The name must be unique after
// trimming; a duplicate is a Conflict.
func (s *CategoryService) Create(ctx context.Context, actorID, name, color, icon string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", apperror.KeyMissingFields)
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, apperror.Conflict(apperror.KeyCategoryExists)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking category name: %w", err)
	}

	if color == "" {
		color = model.DefaultCategoryColor
	}

	category := &model.Category{
		Name:      name,
		Color:     color,
		Icon:      icon,
		IsDefault: false,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		s.logger.Error("failed to create category",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating category: %w", err)
	}

	s.audit.Log(ctx, audit.Entry{
		Message: fmt.Sprintf("Category '%s' created successfully", name),
		UserID:  actorID,
		Level:   audit.LevelInfo,
	})

	return category, nil
}

// Update merges the provided fields into an existing category.
func (s *CategoryService) Update(ctx context.Context, actorID, id string, upd CategoryUpdate) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", apperror.KeyMissingFields)
		}
		category.Name = name
	}
	if upd.Color != nil {
		category.Color = *upd.Color
	}
	if upd.Icon != nil {
		category.Icon = *upd.Icon
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, audit.Entry{
		Message: fmt.Sprintf("Category '%s' updated successfully", category.Name),
		UserID:  actorID,
		Level:   audit.LevelInfo,
	})

	return category, nil
}

// Delete removes a category. Default categories are part of the product
// vocabulary and cannot be deleted by anyone.
func (s *CategoryService) Delete(ctx context.Context, actorID, id string) error {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if category.IsDefault {
		return apperror.ValidationFailed("id", apperror.KeyCannotDeleteDefault)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Log(ctx, audit.Entry{
		Message: fmt.Sprintf("Category '%s' deleted successfully", category.Name),
		UserID:  actorID,
		Level:   audit.LevelInfo,
	})

	return nil
}
