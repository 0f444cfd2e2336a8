package model

import "time"

// DefaultCategoryColor is used when a category is created without an
// explicit color.
const DefaultCategoryColor = "#6366f1"

// Category groups date ideas under a named label with a display color.
//
// IsDefault marks seeded categories. They are part of the product's base
// vocabulary and cannot be deleted by users; the service layer rejects
// such deletes with a validation error.
type Category struct {
	ID        string    `json:"_id"       db:"id"`
	Name      string    `json:"name"      db:"name"` // unique, trimmed
	Color     string    `json:"color"     db:"color"`
	Icon      string    `json:"icon"      db:"icon"`
	IsDefault bool      `json:"isDefault" db:"is_default"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
