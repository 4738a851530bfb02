package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "corpus", ID: "corpus_abc123"},
			wantMsg:  "corpus not found: corpus_abc123",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "run"},
			wantMsg:  "run not found",
			wantBase: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q; want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, tt.wantBase) {
				t.Errorf("errors.Is(%v, %v) = false; want true", tt.err, tt.wantBase)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("max_mora_length", "must be positive")

	want := "validation failed for max_mora_length: must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should unwrap to ErrInvalidInput")
	}
	if !IsInvalidInput(err) {
		t.Error("IsInvalidInput should report true")
	}
}

func TestValidationError_NoField(t *testing.T) {
	err := &ValidationError{Message: "empty input"}
	if err.Error() != "validation failed: empty input" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStore("insert", "lyric_tokens", cause)

	want := "store: failed to insert lyric_tokens: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("StoreError should unwrap to its cause")
	}
}

func TestStoreError_NoResource(t *testing.T) {
	cause := errors.New("locked")
	err := NewStore("open", "", cause)
	if err.Error() != "store: failed to open: locked" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("loading run: %w", NewNotFound("run", "run_x"))
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through wrapping")
	}
	if IsAlreadyExists(wrapped) {
		t.Error("IsAlreadyExists should be false for a not-found error")
	}
}
