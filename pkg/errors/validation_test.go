package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"asin", "B00004U9V2", false},
		{"numeric", "42", false},
		{"unicode title-like", "商品-1", false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", MaxNodeIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateDepth(t *testing.T) {
	tests := []struct {
		depth   int
		wantErr bool
	}{
		{1, false},
		{3, false},
		{MaxDepthLimit, false},
		{0, true},
		{-1, true},
		{MaxDepthLimit + 1, true},
	}

	for _, tt := range tests {
		err := ValidateDepth(tt.depth)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDepth(%d) error = %v, wantErr %v", tt.depth, err, tt.wantErr)
		}
	}
}

func TestValidateQuery(t *testing.T) {
	if err := ValidateQuery(""); err != nil {
		t.Errorf("empty query should be accepted: %v", err)
	}
	if err := ValidateQuery("widget"); err != nil {
		t.Errorf("short query should be accepted: %v", err)
	}
	if err := ValidateQuery(strings.Repeat("q", MaxNodeIDLength+1)); err == nil {
		t.Error("oversized query should be rejected")
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidConfig,
		ErrCodeNotFound, ErrCodeNodeNotFound, ErrCodeFileNotFound, ErrCodeSessionNotFound,
		ErrCodeInternal, ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate error code: %s", c)
		}
		seen[c] = true
	}
}
