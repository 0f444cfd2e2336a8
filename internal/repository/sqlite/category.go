package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/lfournier/datebook/internal/apperror"
	"github.com/lfournier/datebook/internal/model"
	"github.com/lfournier/datebook/internal/repository"
)

// Compile-time check that *CategoryStore implements repository.CategoryRepository.
var _ repository.CategoryRepository = (*CategoryStore)(nil)

const categoryColumns = `id, name, color, icon, is_default, created_at, updated_at`

func (s *CategoryStore) Create(ctx context.Context, category *model.Category) error {
	category.ID = xid.New().String()

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, color, icon, is_default, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		category.ID,
		category.Name,
		category.Color,
		category.Icon,
		category.IsDefault,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating category: %w", err)
	}

	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id string) (*model.Category, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id,
	)

	category, err := scanCategory(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(apperror.KeyCategoryNotFound)
		}
		return nil, fmt.Errorf("sqlite: getting category %s: %w", id, err)
	}

	return category, nil
}

func (s *CategoryStore) GetByName(ctx context.Context, name string) (*model.Category, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = ?`, name,
	)

	category, err := scanCategory(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(apperror.KeyCategoryNotFound)
		}
		return nil, fmt.Errorf("sqlite: getting category %q: %w", name, err)
	}

	return category, nil
}

// List returns all categories, default ones first, then alphabetical.
func (s *CategoryStore) List(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY is_default DESC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

func (s *CategoryStore) Update(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = time.Now()

	result, err := s.db.conn.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ?, icon = ?, updated_at = ? WHERE id = ?`,
		category.Name,
		category.Color,
		category.Icon,
		category.UpdatedAt,
		category.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating category %s: %w", category.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(apperror.KeyCategoryNotFound)
	}

	return nil
}

func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(apperror.KeyCategoryNotFound)
	}

	return nil
}

// EnsureExists inserts the category unless one with the same name already
// exists. ON CONFLICT DO NOTHING gives us insert-if-absent in a single
// statement, so re-running the seed never duplicates or overwrites.
func (s *CategoryStore) EnsureExists(ctx context.Context, category *model.Category) error {
	category.ID = xid.New().String()

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, color, icon, is_default, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		category.ID,
		category.Name,
		category.Color,
		category.Icon,
		category.IsDefault,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: seeding category %q: %w", category.Name, err)
	}

	return nil
}

func scanCategory(s scanner) (*model.Category, error) {
	var category model.Category
	if err := s.Scan(
		&category.ID,
		&category.Name,
		&category.Color,
		&category.Icon,
		&category.IsDefault,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}
