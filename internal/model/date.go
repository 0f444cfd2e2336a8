// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// MaxImagesPerDate is the upper bound on photos attached to a single date.
// Enforced in the service layer before any file is written.
const MaxImagesPerDate = 5

// Date represents a date idea — a planned or completed shared activity.
//
// The JSON tags match the wire format the web client already speaks:
// snake_case for the legacy fields (date_realised, done) and camelCase
// for the timestamps. Changing these would break the client.
//
// WHY DateRealised *time.Time (not time.Time)?
// date_realised is null until the date is marked done. A pointer gives us
// a real null in JSON and in the database, instead of a confusing zero
// time (0001-01-01) that the client would render as a real date.
// Invariant: DateRealised != nil exactly when Done == true.
type Date struct {
	ID           string     `json:"_id"           db:"id"`
	OwnerID      string     `json:"-"             db:"owner_id"` // never serialized; resolved from the bearer token
	Title        string     `json:"title"         db:"title"`
	Notes        string     `json:"notes"         db:"notes"`
	Category     string     `json:"category"      db:"category"` // category name, by convention only (no FK)
	Images       []string   `json:"images"        db:"images"`   // public URLs, 0..MaxImagesPerDate
	Done         bool       `json:"done"          db:"done"`
	DateRealised *time.Time `json:"date_realised" db:"date_realised"`
	CreatedAt    time.Time  `json:"createdAt"     db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt"     db:"updated_at"`
}
