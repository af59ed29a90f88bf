package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Extraction failure modes surfaced to callers so the handler can tell
// "bad input" apart from "model failure".
var (
	ErrNotPDF = errors.New("file is not a PDF")
	ErrNoText = errors.New("no text could be extracted from the PDF")
)

var pdfMagic = []byte("%PDF-")

// ExtractText converts PDF bytes into normalized plain text.
//
// The pdf library panics on some malformed inputs, so the parse is wrapped
// in a recover to keep a bad upload from taking the process down.
func ExtractText(data []byte) (text string, err error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", ErrNotPDF
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read extracted text: %w", err)
	}

	text = normalizeText(buf.String())
	if text == "" {
		return "", ErrNoText
	}

	return text, nil
}

// normalizeText collapses runs of whitespace into single spaces while
// preserving paragraph breaks.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := false
	lastNewline := false
	for _, r := range s {
		switch {
		case r == '\n':
			lastNewline = true
			lastSpace = false
		case unicode.IsSpace(r):
			lastSpace = true
		default:
			if lastNewline && b.Len() > 0 {
				b.WriteByte('\n')
			} else if lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			lastSpace = false
			lastNewline = false
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}
