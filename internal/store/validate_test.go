package store

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
		is      error
	}{
		{name: "plain", input: "Acme", want: "Acme"},
		{name: "trimmed", input: "  Acme Corp \t", want: "Acme Corp"},
		{name: "unicode", input: "Café", want: "Café"},
		{name: "at limit", input: strings.Repeat("é", MaxNameLength), want: strings.Repeat("é", MaxNameLength)},
		{name: "empty", input: "", wantErr: true, is: ErrNameRequired},
		{name: "blank", input: "   ", wantErr: true, is: ErrNameRequired},
		{name: "too long", input: strings.Repeat("a", MaxNameLength+1), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateName(%q) = %q, want error", tt.input, got)
				}
				if tt.is != nil && !errors.Is(err, tt.is) {
					t.Errorf("error = %v, want %v", err, tt.is)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateName(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength)); err != nil {
		t.Errorf("description at limit: %v", err)
	}
	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)); err == nil {
		t.Error("expected error for over-long description")
	}
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: errors.New("constraint failed: UNIQUE constraint failed: pages.org_id, pages.name (2067)"), want: true},
		{err: errors.New(`pq: duplicate key value violates unique constraint "pages_org_id_name_key"`), want: true},
		{err: errors.New("Error 1062 (23000): Duplicate entry 'x' for key 'name'"), want: true},
		{err: errors.New("connection refused"), want: false},
	}
	for _, tt := range tests {
		if got := isUniqueConstraintError(tt.err); got != tt.want {
			t.Errorf("isUniqueConstraintError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
	if !errors.Is(mapWriteError(errors.New("UNIQUE constraint failed")), ErrDuplicateName) {
		t.Error("mapWriteError did not map a unique violation to ErrDuplicateName")
	}
}
