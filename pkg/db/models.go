package db

import "time"

// Session is a stored upload-to-finalize workflow instance.
type Session struct {
	ID            string
	Language      string
	Filename      string
	Status        string
	Styles        []string
	SelectedStyle string
	// RawLines holds the parsed dialogue lines as JSON until processing
	// completes, then it is discarded.
	RawLines  []byte
	CreatedAt time.Time
}

// SessionWord is one extracted word of a session, in list order.
type SessionWord struct {
	ID        int64
	SessionID string
	Position  int
	Word      string
	Frequency int
	IsRemoved bool
}
