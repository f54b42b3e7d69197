// Package ingestion turns job descriptions from files, readers and web
// pages into clean plain text ready for keyword analysis.
package ingestion

import (
	"fmt"
	"io"
	"os"

	"github.com/mpopescu/atsmatch/internal/textnorm"
)

// MaxInputBytes caps how much raw input one job description may carry.
const MaxInputBytes = 1 << 20

// Error represents a failure to ingest a job description source.
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingestion error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("ingestion error for %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FromFile reads a plain-text job description from disk and normalizes it.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Source: path, Message: "failed to read file", Cause: err}
	}
	if len(data) > MaxInputBytes {
		return "", &Error{Source: path, Message: fmt.Sprintf("input exceeds %d bytes", MaxInputBytes)}
	}

	text := textnorm.CleanText(string(data))
	if text == "" {
		return "", &Error{Source: path, Message: "file contains no text"}
	}
	return text, nil
}

// FromReader reads a job description from an arbitrary stream, typically
// stdin, and normalizes it.
func FromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return "", &Error{Source: "stream", Message: "failed to read input", Cause: err}
	}
	if len(data) > MaxInputBytes {
		return "", &Error{Source: "stream", Message: fmt.Sprintf("input exceeds %d bytes", MaxInputBytes)}
	}

	text := textnorm.CleanText(string(data))
	if text == "" {
		return "", &Error{Source: "stream", Message: "input contains no text"}
	}
	return text, nil
}
