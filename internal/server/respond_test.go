package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"pico-editor/internal/auth"
	"pico-editor/internal/content"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&content.Error{Kind: content.ErrInvalidName}, http.StatusBadRequest},
		{&content.Error{Kind: content.ErrInvalidRequest}, http.StatusBadRequest},
		{&content.Error{Kind: content.ErrNotFound}, http.StatusNotFound},
		{&content.Error{Kind: content.ErrConflict}, http.StatusConflict},
		{&content.Error{Kind: content.ErrStorage, Err: errors.New("disk full")}, http.StatusInternalServerError},
		{auth.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("%w: later", auth.ErrLocked), http.StatusTooManyRequests},
		{&http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestMessageFor(t *testing.T) {
	ce := &content.Error{Kind: content.ErrStorage, Message: "Save Error: Could not write file a.md", Err: errors.New("EIO /var/secret")}
	if got := messageFor(ce, http.StatusInternalServerError); got != ce.Message {
		t.Fatalf("content error message = %q", got)
	}
	if got := messageFor(errors.New("dsn=postgres://u:p@host"), http.StatusInternalServerError); got != "Internal Server Error" {
		t.Fatalf("internal error leaked: %q", got)
	}
	if got := messageFor(auth.ErrUnauthorized, http.StatusUnauthorized); got != "unauthorized" {
		t.Fatalf("client error message = %q", got)
	}
}
