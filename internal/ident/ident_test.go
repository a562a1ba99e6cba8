package ident

import (
	"errors"
	"strings"
	"testing"

	"industrain/internal/apperr"

	"github.com/google/uuid"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"canonical lowercase", "3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6b", true},
		{"uppercase", "3F2B8C1E-9A4D-4E6F-8B7A-1C2D3E4F5A6B", true},
		{"mixed case", "3f2B8c1E-9a4D-4e6F-8b7A-1c2D3e4F5a6B", true},
		{"nil uuid", "00000000-0000-0000-0000-000000000000", true},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"small int", "1", false},
		{"title", "PLC Programming & Automation", false},
		{"missing group", "3f2b8c1e-9a4d-4e6f-1c2d3e4f5a6b", false},
		{"undashed", "3f2b8c1e9a4d4e6f8b7a1c2d3e4f5a6b", false},
		{"braced", "{3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6b}", false},
		{"urn", "urn:uuid:3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6b", false},
		{"non hex", "3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6g", false},
		{"leading space", " 3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6b", false},
		{"too long", "3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6b0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.input); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	want := uuid.MustParse("3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6b")

	got, err := Parse("  3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6b\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("42")
	if err == nil {
		t.Fatal("expected error for non-uuid input")
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	if appErr.Kind != apperr.Validation {
		t.Errorf("expected validation kind, got %v", appErr.Kind)
	}
	if !strings.Contains(appErr.Message, `"42"`) {
		t.Errorf("expected message to name the received value, got %q", appErr.Message)
	}
}
