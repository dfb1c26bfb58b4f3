package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// CreateSession inserts a new session row.
func CreateSession(db DBExecutor, s *Session) error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("session id must be non-empty")
	}
	styles, err := json.Marshal(s.Styles)
	if err != nil {
		return fmt.Errorf("marshal styles: %w", err)
	}
	_, err = db.Exec(
		`INSERT INTO sessions (id, language, filename, status, styles, selected_style, raw_lines, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Language, s.Filename, s.Status, string(styles), s.SelectedStyle, nullableBytes(s.RawLines), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession loads a session by id. Returns sql.ErrNoRows when it does not exist.
func GetSession(db DBExecutor, id string) (*Session, error) {
	var s Session
	var styles string
	var raw sql.NullString
	err := db.QueryRow(
		`SELECT id, language, filename, status, styles, selected_style, raw_lines, created_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.Language, &s.Filename, &s.Status, &styles, &s.SelectedStyle, &raw, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(styles), &s.Styles); err != nil {
		return nil, fmt.Errorf("unmarshal styles: %w", err)
	}
	if raw.Valid {
		s.RawLines = []byte(raw.String)
	}
	return &s, nil
}

// MarkProcessed records the chosen style, advances the status and discards
// the retained dialogue text in one statement.
func MarkProcessed(db DBExecutor, id, selectedStyle string) error {
	res, err := db.Exec(
		`UPDATE sessions SET status = 'processed', selected_style = ?, raw_lines = NULL WHERE id = ?`,
		selectedStyle, id,
	)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// MarkFinalized advances the session to its terminal status.
func MarkFinalized(db DBExecutor, id string) error {
	res, err := db.Exec(`UPDATE sessions SET status = 'finalized' WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// InsertSessionWords stores the word list, preserving its order via position.
func InsertSessionWords(db DBExecutor, sessionID string, words []SessionWord) error {
	for i, w := range words {
		_, err := db.Exec(
			`INSERT INTO session_words (session_id, position, word, frequency, is_removed) VALUES (?, ?, ?, ?, ?)`,
			sessionID, i, w.Word, w.Frequency, w.IsRemoved,
		)
		if err != nil {
			return fmt.Errorf("insert word %q: %w", w.Word, err)
		}
	}
	return nil
}

// GetSessionWords returns the word list in its fixed order.
func GetSessionWords(db DBExecutor, sessionID string) ([]SessionWord, error) {
	rows, err := db.Query(
		`SELECT id, session_id, position, word, frequency, is_removed FROM session_words WHERE session_id = ? ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SessionWord
	for rows.Next() {
		var w SessionWord
		if err := rows.Scan(&w.ID, &w.SessionID, &w.Position, &w.Word, &w.Frequency, &w.IsRemoved); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// SetRemovedWords applies full-replace semantics: exactly the given words end
// up flagged as removed, everything else is reset. Words that match no entry
// are ignored.
func SetRemovedWords(db DBExecutor, sessionID string, removed []string) error {
	if _, err := db.Exec(`UPDATE session_words SET is_removed = 0 WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	if len(removed) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(removed))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, 0, len(removed)+1)
	args = append(args, sessionID)
	for _, w := range removed {
		args = append(args, w)
	}
	_, err := db.Exec(
		`UPDATE session_words SET is_removed = 1 WHERE session_id = ? AND word IN (`+placeholders+`)`,
		args...,
	)
	return err
}

// AddKnownWords merges words into a language partition. Already-present words
// are no-ops, so the merge is idempotent and safe to retry.
func AddKnownWords(db DBExecutor, language string, words []string) error {
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, err := db.Exec(`INSERT OR IGNORE INTO known_words (language, word) VALUES (?, ?)`, language, w); err != nil {
			return fmt.Errorf("add known word %q: %w", w, err)
		}
	}
	return nil
}

// KnownWordSet loads a language partition as a lookup set.
func KnownWordSet(db DBExecutor, language string) (map[string]bool, error) {
	rows, err := db.Query(`SELECT word FROM known_words WHERE language = ?`, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	set := make(map[string]bool)
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		set[w] = true
	}
	return set, rows.Err()
}

// ListKnownWords returns a language partition sorted alphabetically.
func ListKnownWords(db DBExecutor, language string) ([]string, error) {
	rows, err := db.Query(`SELECT word FROM known_words WHERE language = ? ORDER BY word`, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// PruneSessions deletes non-finalized sessions created before the cutoff,
// along with their words. Returns the number of sessions removed.
func PruneSessions(db DBExecutor, before time.Time) (int64, error) {
	if _, err := db.Exec(
		`DELETE FROM session_words WHERE session_id IN
		 (SELECT id FROM sessions WHERE created_at < ? AND status != 'finalized')`,
		before,
	); err != nil {
		return 0, err
	}
	res, err := db.Exec(`DELETE FROM sessions WHERE created_at < ? AND status != 'finalized'`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func nullableBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
