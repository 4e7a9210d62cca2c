package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestPintreeError_Error(t *testing.T) {
	err := &PintreeError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "primary category not found: Tools",
	}

	expected := "NOT_FOUND: primary category not found: Tools"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("query is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "query is required" {
		t.Errorf("Message = %q, want %q", err.Message, "query is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("secondary", "Reading")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["level"] != "secondary" {
		t.Errorf("Details[level] = %v, want %q", err.Details["level"], "secondary")
	}
	if err.Details["title"] != "Reading" {
		t.Errorf("Details[title] = %v, want %q", err.Details["title"], "Reading")
	}
}

func TestNewFileNotFound(t *testing.T) {
	err := NewFileNotFound("/tmp/missing.json")

	if err.Code != ErrFileNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrFileNotFound)
	}
	if err.Details["path"] != "/tmp/missing.json" {
		t.Errorf("Details[path] = %v", err.Details["path"])
	}
}

func TestNewMalformedEntry(t *testing.T) {
	err := NewMalformedEntry([]string{"Tools", "Broken"}, "invalid_url")

	if err.Code != ErrMalformedEntry {
		t.Errorf("Code = %q, want %q", err.Code, ErrMalformedEntry)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	path, ok := err.Details["path"].([]string)
	if !ok || len(path) != 2 {
		t.Errorf("Details[path] = %v, want 2-element path", err.Details["path"])
	}
}

func TestNewLoadFailed(t *testing.T) {
	err := NewLoadFailed("pintree.json", fmt.Errorf("connection refused"))

	if err.Code != ErrLoadFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrLoadFailed)
	}
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
	want := "failed to load bookmarks from pintree.json: connection refused"
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}

	bare := NewLoadFailed("pintree.json", nil)
	if bare.Message != "failed to load bookmarks from pintree.json" {
		t.Errorf("Message = %q", bare.Message)
	}
}

func TestNewNotReady(t *testing.T) {
	err := NewNotReady("loading")

	if err.Code != ErrNotReady {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotReady)
	}
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
	if err.Details["status"] != "loading" {
		t.Errorf("Details[status] = %v, want loading", err.Details["status"])
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled("export")

	if err.Code != ErrCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCancelled)
	}
	if err.Message != "export cancelled" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"with error", fmt.Errorf("disk full"), "disk full"},
		{"nil error", nil, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewInternal(tt.err)
			if err.Code != ErrInternal {
				t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
			}
			if err.Status != 500 {
				t.Errorf("Status = %d, want 500", err.Status)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewNotReady("loading"), ErrNotReady, true},
		{"different code", NewNotReady("loading"), ErrLoadFailed, false},
		{"wrapped", fmt.Errorf("dispatch: %w", NewNotFound("primary", "x")), ErrNotFound, true},
		{"plain error", stderrors.New("boom"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	if As(nil) != nil {
		t.Error("As(nil) should be nil")
	}

	orig := NewInvalidRequest("bad")
	if got := As(fmt.Errorf("wrap: %w", orig)); got != orig {
		t.Errorf("As() = %v, want original error", got)
	}

	got := As(stderrors.New("boom"))
	if got.Code != ErrInternal || got.Message != "boom" {
		t.Errorf("As(plain) = %+v, want INTERNAL boom", got)
	}
}
