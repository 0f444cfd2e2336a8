package apperror

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError is a domain error carrying the i18n key returned to the client.
// The web client resolves Key to a localized message, so Key must come from
// the shared translation catalogue (server.* keys), never free-form text.
type AppError struct {
	Err   error  // sentinel classifying the error
	Key   string // i18n key sent as {"error": key}
	Field string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Key
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(key string) *AppError {
	return &AppError{Err: ErrNotFound, Key: key}
}

func ValidationFailed(field, key string) *AppError {
	return &AppError{Err: ErrValidation, Key: key, Field: field}
}

func Conflict(key string) *AppError {
	return &AppError{Err: ErrConflict, Key: key}
}

// Unauthorized returns an AppError for a missing or invalid credential.
// HTTP handlers map this to 401.
func Unauthorized(key string) *AppError {
	return &AppError{Err: ErrUnauthorized, Key: key}
}
