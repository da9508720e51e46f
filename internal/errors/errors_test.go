package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestIsTypeThroughWrapping(t *testing.T) {
	base := InvalidAmount("milestone amount must not be negative")
	wrapped := fmt.Errorf("quote milestone: %w", base)

	if !IsType(wrapped, TypeInvalidAmount) {
		t.Fatalf("expected wrapped error to carry %s", TypeInvalidAmount)
	}
	if IsType(wrapped, TypeInvalidBudget) {
		t.Fatalf("did not expect %s", TypeInvalidBudget)
	}
	if IsType(fmt.Errorf("plain"), TypeInternal) {
		t.Fatal("plain errors carry no type")
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Storage("save quote", fmt.Errorf("disk full"))
	want := "[STORAGE_ERROR] save quote: disk full"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
	if err.Unwrap() == nil {
		t.Error("Expected cause to be unwrappable")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{InvalidAmount("x"), http.StatusBadRequest},
		{InvalidBudget("x"), http.StatusBadRequest},
		{Parsing("x", nil), http.StatusBadRequest},
		{NotFound("quote", "abc"), http.StatusNotFound},
		{Storage("x", nil), http.StatusServiceUnavailable},
		{Internal("x", nil), http.StatusInternalServerError},
		{fmt.Errorf("untyped"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWithContext(t *testing.T) {
	err := InvalidBudget("project budget must not be negative").WithContext("budget", "-1")
	if err.Context["budget"] != "-1" {
		t.Errorf("Expected context budget=-1, got %v", err.Context["budget"])
	}
}
