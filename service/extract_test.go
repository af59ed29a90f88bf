package service

import (
	"errors"
	"testing"
)

func TestExtractTextNotPDF(t *testing.T) {
	_, err := ExtractText([]byte("plain text, not a pdf"))
	if !errors.Is(err, ErrNotPDF) {
		t.Errorf("Expected ErrNotPDF, got %v", err)
	}
}

func TestExtractTextEmptyInput(t *testing.T) {
	_, err := ExtractText(nil)
	if !errors.Is(err, ErrNotPDF) {
		t.Errorf("Expected ErrNotPDF for empty input, got %v", err)
	}
}

func TestExtractTextCorruptPDF(t *testing.T) {
	// Carries the magic bytes but no valid structure. Must error, never
	// panic.
	_, err := ExtractText([]byte("%PDF-1.7\ngarbage that is not a document"))
	if err == nil {
		t.Error("Expected error for corrupt PDF")
	}
}

func TestExtractTextTruncatedPDF(t *testing.T) {
	_, err := ExtractText([]byte("%PDF-"))
	if err == nil {
		t.Error("Expected error for truncated PDF")
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "collapses spaces",
			input:    "a   b\t\tc",
			expected: "a b c",
		},
		{
			name:     "preserves paragraph breaks",
			input:    "line one\n\nline two",
			expected: "line one\nline two",
		},
		{
			name:     "trims edges",
			input:    "  \n  hello  \n ",
			expected: "hello",
		},
		{
			name:     "empty input",
			input:    "   \n\t ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeText(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
