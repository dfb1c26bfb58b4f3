// Package session owns the upload-to-finalize workflow: it orchestrates the
// subtitle parser, the tokenizer, the frequency extractor and the known
// vocabulary store, and guards the session state machine.
package session

import (
	"errors"

	"github.com/handsomecheung/subscout/pkg/subtitle"
)

// Status is a session's lifecycle state. Transitions are strictly
// uploaded -> processed -> finalized; nothing skips or reverses.
type Status string

const (
	StatusUploaded  Status = "uploaded"
	StatusProcessed Status = "processed"
	StatusFinalized Status = "finalized"
)

// CanAdvance reports whether next is the legal successor of s.
func (s Status) CanAdvance(next Status) bool {
	switch {
	case s == StatusUploaded && next == StatusProcessed:
		return true
	case s == StatusProcessed && next == StatusFinalized:
		return true
	}
	return false
}

var (
	// ErrStyleRequired is returned when a multi-style .ass session is
	// processed without choosing a style.
	ErrStyleRequired = errors.New("style selection required")
	// ErrInvalidState is returned when an operation is not valid for the
	// session's current status.
	ErrInvalidState = errors.New("operation not valid for session state")
	// ErrNotFound is returned for unknown session ids.
	ErrNotFound = errors.New("session not found")
	// ErrPayloadTooLarge is returned for uploads above the configured limit.
	ErrPayloadTooLarge = errors.New("subtitle file too large")
)

// Session is the externally visible state of a workflow instance.
type Session struct {
	ID            string            `json:"id"`
	Language      subtitle.Language `json:"language"`
	Filename      string            `json:"filename"`
	Status        Status            `json:"status"`
	Styles        []string          `json:"styles,omitempty"`
	SelectedStyle string            `json:"selected_style,omitempty"`
}

// Report is the result of finalizing a session. TopWords holds the highest
// frequency still-unknown words, capped by the configured limit.
type Report struct {
	TopWords     []string `json:"top_words"`
	LearnedCount int      `json:"learned_count"`
	TotalCount   int      `json:"total_count"`
}
