package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/handsomecheung/subscout/pkg/config"
	"github.com/handsomecheung/subscout/pkg/db"
	"github.com/handsomecheung/subscout/pkg/extract"
	"github.com/handsomecheung/subscout/pkg/subtitle"
	"github.com/handsomecheung/subscout/pkg/tokenize"
	"github.com/handsomecheung/subscout/pkg/vocab"
)

// Manager drives session lifecycles against a SQLite connection and a known
// vocabulary store. All state transitions on one session run under that
// session's mutex; operations on different sessions proceed in parallel.
type Manager struct {
	conn  *sql.DB
	vocab vocab.Store

	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger

	maxUploadSize  int64
	minTokenLength int
	topWordsLimit  int
	workers        int

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	tkMu       sync.Mutex
	tokenizers map[subtitle.Language]tokenize.Tokenizer
}

// NewManager creates a manager over an initialized database connection.
func NewManager(conn *sql.DB, store vocab.Store, cfg config.Config) *Manager {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Manager{
		conn:           conn,
		vocab:          store,
		maxUploadSize:  cfg.MaxUploadSize,
		minTokenLength: cfg.MinTokenLength,
		topWordsLimit:  cfg.TopWordsLimit,
		workers:        workers,
		locks:          make(map[string]*sync.Mutex),
		tokenizers:     make(map[subtitle.Language]tokenize.Tokenizer),
	}
}

// Upload parses the subtitle bytes and creates a new session. On any parse
// failure no session is created.
func (m *Manager) Upload(filename string, data []byte) (*Session, error) {
	if m.maxUploadSize > 0 && int64(len(data)) > m.maxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrPayloadTooLarge, len(data), m.maxUploadSize)
	}

	doc, err := subtitle.Parse(filename, data)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(doc.Lines)
	if err != nil {
		return nil, fmt.Errorf("marshal dialogue lines: %w", err)
	}

	s := &Session{
		ID:       uuid.NewString(),
		Language: doc.Language,
		Filename: filename,
		Status:   StatusUploaded,
		Styles:   doc.Styles,
	}
	row := &db.Session{
		ID:       s.ID,
		Language: string(s.Language),
		Filename: s.Filename,
		Status:   string(s.Status),
		Styles:   s.Styles,
		RawLines: raw,
	}
	if err := db.CreateSession(m.conn, row); err != nil {
		return nil, err
	}
	if m.Logger != nil {
		m.Logger.Printf("session %s: uploaded %q (%s, %d lines, %d styles)",
			s.ID, filename, s.Language, len(doc.Lines), len(s.Styles))
	}
	return s, nil
}

// Process tokenizes the session's dialogue, filters it against the known
// vocabulary and fixes the word list. A multi-style .ass session requires a
// style; a single-style one selects it automatically.
func (m *Manager) Process(ctx context.Context, id, style string) ([]extract.WordEntry, error) {
	defer m.lockSession(id)()

	row, err := m.loadSession(id)
	if err != nil {
		return nil, err
	}
	if !Status(row.Status).CanAdvance(StatusProcessed) {
		return nil, fmt.Errorf("%w: cannot process session in state %q", ErrInvalidState, row.Status)
	}

	selected, err := resolveStyle(row.Styles, style)
	if err != nil {
		return nil, err
	}

	var lines []subtitle.Line
	if len(row.RawLines) > 0 {
		if err := json.Unmarshal(row.RawLines, &lines); err != nil {
			return nil, fmt.Errorf("unmarshal dialogue lines: %w", err)
		}
	}
	var texts []string
	for _, l := range lines {
		if selected != "" && l.Style != selected {
			continue
		}
		texts = append(texts, l.Text)
	}

	tk, err := m.tokenizerFor(subtitle.Language(row.Language))
	if err != nil {
		return nil, err
	}
	known, err := m.vocab.Known(row.Language)
	if err != nil {
		return nil, fmt.Errorf("load known words: %w", err)
	}

	ex := extract.NewExtractor(tk)
	ex.Workers = m.workers
	entries, err := ex.Extract(ctx, texts, known)
	if err != nil {
		return nil, err
	}

	words := make([]db.SessionWord, len(entries))
	for i, e := range entries {
		words[i] = db.SessionWord{Word: e.Word, Frequency: e.Frequency}
	}
	err = db.WithTx(m.conn, func(tx *sql.Tx) error {
		if err := db.InsertSessionWords(tx, id, words); err != nil {
			return err
		}
		return db.MarkProcessed(tx, id, selected)
	})
	if err != nil {
		return nil, err
	}
	if m.Logger != nil {
		m.Logger.Printf("session %s: processed, %d unknown words", id, len(entries))
	}
	return entries, nil
}

// Words returns the current word list of a processed or finalized session.
func (m *Manager) Words(id string) ([]extract.WordEntry, error) {
	defer m.lockSession(id)()

	row, err := m.loadSession(id)
	if err != nil {
		return nil, err
	}
	if Status(row.Status) == StatusUploaded {
		return nil, fmt.Errorf("%w: session %s has not been processed", ErrInvalidState, id)
	}
	return m.wordEntries(id)
}

// UpdateWords applies full-replace semantics: exactly the given words end up
// marked removed (= learned). Unknown words are silently ignored. Edits are
// only allowed while the session is processed.
func (m *Manager) UpdateWords(id string, removed []string) error {
	defer m.lockSession(id)()

	row, err := m.loadSession(id)
	if err != nil {
		return err
	}
	if Status(row.Status) != StatusProcessed {
		return fmt.Errorf("%w: cannot edit words in state %q", ErrInvalidState, row.Status)
	}
	return db.WithTx(m.conn, func(tx *sql.Tx) error {
		return db.SetRemovedWords(tx, id, removed)
	})
}

// Finalize merges the marked words into the known vocabulary and reports the
// top still-unknown words. The merge is idempotent, so a failure leaves the
// session processed and the call can simply be retried.
func (m *Manager) Finalize(id string) (*Report, error) {
	defer m.lockSession(id)()

	row, err := m.loadSession(id)
	if err != nil {
		return nil, err
	}
	if !Status(row.Status).CanAdvance(StatusFinalized) {
		return nil, fmt.Errorf("%w: cannot finalize session in state %q", ErrInvalidState, row.Status)
	}

	words, err := db.GetSessionWords(m.conn, id)
	if err != nil {
		return nil, err
	}

	var learned []string
	top := []string{}
	for _, w := range words {
		if w.IsRemoved {
			learned = append(learned, w.Word)
		} else if len(top) < m.topWordsLimit {
			top = append(top, w.Word)
		}
	}

	// Merge before the status flip: if the merge fails the session stays
	// processed and a retry re-applies the same idempotent set union.
	if err := m.vocab.Merge(row.Language, learned); err != nil {
		return nil, fmt.Errorf("merge known words: %w", err)
	}
	if err := db.MarkFinalized(m.conn, id); err != nil {
		return nil, err
	}
	if m.Logger != nil {
		m.Logger.Printf("session %s: finalized, learned %d of %d words", id, len(learned), len(words))
	}
	return &Report{TopWords: top, LearnedCount: len(learned), TotalCount: len(words)}, nil
}

// KnownWords lists a language partition of the known vocabulary.
func (m *Manager) KnownWords(language string) ([]string, int, error) {
	if !subtitle.Language(language).Valid() {
		return nil, 0, fmt.Errorf("invalid language %q (want en or jp)", language)
	}
	words, err := m.vocab.All(language)
	if err != nil {
		return nil, 0, err
	}
	return words, len(words), nil
}

// Prune deletes unfinished sessions older than the given age.
func (m *Manager) Prune(age time.Duration) (int64, error) {
	return db.PruneSessions(m.conn, time.Now().UTC().Add(-age))
}

func resolveStyle(styles []string, style string) (string, error) {
	switch {
	case len(styles) == 0:
		// .srt or style-less .ass; any requested style is meaningless.
		return "", nil
	case style != "":
		for _, s := range styles {
			if s == style {
				return style, nil
			}
		}
		return "", fmt.Errorf("%w: style %q not found (available: %s)",
			ErrStyleRequired, style, strings.Join(styles, ", "))
	case len(styles) == 1:
		return styles[0], nil
	default:
		return "", fmt.Errorf("%w: choose one of: %s", ErrStyleRequired, strings.Join(styles, ", "))
	}
}

func (m *Manager) wordEntries(id string) ([]extract.WordEntry, error) {
	rows, err := db.GetSessionWords(m.conn, id)
	if err != nil {
		return nil, err
	}
	entries := make([]extract.WordEntry, len(rows))
	for i, w := range rows {
		entries[i] = extract.WordEntry{Word: w.Word, Frequency: w.Frequency, IsRemoved: w.IsRemoved}
	}
	return entries, nil
}

func (m *Manager) loadSession(id string) (*db.Session, error) {
	row, err := db.GetSession(m.conn, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// lockSession acquires the per-session mutex and returns its unlock func.
func (m *Manager) lockSession(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (m *Manager) tokenizerFor(lang subtitle.Language) (tokenize.Tokenizer, error) {
	m.tkMu.Lock()
	defer m.tkMu.Unlock()
	if tk, ok := m.tokenizers[lang]; ok {
		return tk, nil
	}
	tk, err := tokenize.New(lang, tokenize.Options{MinTokenLength: m.minTokenLength})
	if err != nil {
		return nil, err
	}
	m.tokenizers[lang] = tk
	return tk, nil
}
