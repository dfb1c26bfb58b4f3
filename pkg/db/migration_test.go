package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// TestInitDBCreatesSchema verifies InitDB creates the session and known-word
// tables with the columns the store relies on.
func TestInitDBCreatesSchema(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if err := InitDB(conn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	for _, table := range []string{"sessions", "session_words", "known_words"} {
		var name string
		if err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}

	cols := tableColumns(t, conn, "sessions")
	for _, c := range []string{"id", "language", "filename", "status", "styles", "selected_style", "raw_lines", "created_at"} {
		if !cols[c] {
			t.Errorf("sessions missing column %s (have %v)", c, cols)
		}
	}

	cols = tableColumns(t, conn, "session_words")
	for _, c := range []string{"session_id", "position", "word", "frequency", "is_removed"} {
		if !cols[c] {
			t.Errorf("session_words missing column %s (have %v)", c, cols)
		}
	}
}

// TestInitDBIdempotent ensures running migrations twice is safe.
func TestInitDBIdempotent(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	if err := InitDB(conn); err != nil {
		t.Fatalf("first InitDB: %v", err)
	}
	if err := InitDB(conn); err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
}

func tableColumns(t *testing.T, conn *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := conn.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("pragma: %v", err)
	}
	defer rows.Close()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan col: %v", err)
		}
		cols[name] = true
	}
	return cols
}
