package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", NotFound(KeyNoSuchDate), ErrNotFound},
		{"validation", ValidationFailed("title", KeyMissingFields), ErrValidation},
		{"conflict", Conflict(KeyCategoryExists), ErrConflict},
		{"unauthorized", Unauthorized(KeyUnauthorized), ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}
}

func TestErrorCarriesKey(t *testing.T) {
	err := NotFound(KeyNoSuchDate)

	if err.Error() != KeyNoSuchDate {
		t.Errorf("Error() = %q, want %q", err.Error(), KeyNoSuchDate)
	}
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading date: %w", NotFound(KeyNoSuchDate))

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As() failed on wrapped AppError")
	}
	if appErr.Key != KeyNoSuchDate {
		t.Errorf("Key = %q, want %q", appErr.Key, KeyNoSuchDate)
	}
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error lost its sentinel")
	}
}

func TestValidationFieldIsRecorded(t *testing.T) {
	err := ValidationFailed("title", KeyMissingFields)

	if err.Field != "title" {
		t.Errorf("Field = %q, want %q", err.Field, "title")
	}
}
