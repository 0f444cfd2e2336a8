// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage provides the real implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/lfournier/datebook/internal/model"
)

// SortField is a closed set of columns a date listing may be ordered by.
// Query strings arrive loosely typed; ParseSortField converts them at the
// boundary and defaults on anything unknown instead of failing.
type SortField int

const (
	SortCreatedAt SortField = iota
	SortDateRealised
)

func ParseSortField(s string) SortField {
	if s == "date_realised" {
		return SortDateRealised
	}
	return SortCreatedAt
}

// SortOrder is the listing direction. Default is descending (newest first).
type SortOrder int

const (
	SortDesc SortOrder = iota
	SortAsc
)

func ParseSortOrder(s string) SortOrder {
	if s == "asc" {
		return SortAsc
	}
	return SortDesc
}

// ParseDoneFilter maps the done query parameter to an optional filter.
// Only the literal strings "true" and "false" enable filtering; anything
// else (including "all" and garbage) disables it.
func ParseDoneFilter(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// DateListOptions scopes and shapes a date listing. OwnerID is mandatory:
// every listing is ownership-scoped.
type DateListOptions struct {
	OwnerID   string
	Page      int
	Size      int
	Category  string // exact category name; "" or "all" disables the filter
	Done      *bool  // nil disables the filter
	SortField SortField
	SortOrder SortOrder
}

// DateRepository persists date ideas. All single-record operations take the
// owner ID and filter by (id AND owner_id) — a date belonging to another
// user is indistinguishable from a missing one.
type DateRepository interface {
	Create(ctx context.Context, date *model.Date) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Date, error)
	List(ctx context.Context, opts DateListOptions) ([]model.Date, int, error)
	Update(ctx context.Context, date *model.Date) error
	Delete(ctx context.Context, ownerID, id string) error
}

// CategoryRepository persists categories. Categories are shared between
// users, so there is no ownership scoping here.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
	// EnsureExists inserts the category if no category with the same name
	// exists, and leaves an existing one untouched. Used by seeding.
	EnsureExists(ctx context.Context, category *model.Category) error
}
