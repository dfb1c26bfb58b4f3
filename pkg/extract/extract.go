// Package extract builds frequency-ranked word lists from dialogue lines,
// filtered against the user's known vocabulary.
package extract

import (
	"context"
	"sort"
	"sync"

	"github.com/handsomecheung/subscout/pkg/tokenize"
)

// WordEntry is one row of a session's word list.
type WordEntry struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
	// IsRemoved true means the user marked the word as already known.
	// The polarity is inverted from what the name suggests; it is kept for
	// compatibility with the review contract.
	IsRemoved bool `json:"is_removed"`
}

// Extractor tokenizes dialogue lines and counts word occurrences.
type Extractor struct {
	Tokenizer tokenize.Tokenizer
	// Workers bounds the number of lines tokenized concurrently.
	Workers int
}

// NewExtractor creates an extractor over the given tokenizer.
func NewExtractor(tk tokenize.Tokenizer) *Extractor {
	return &Extractor{Tokenizer: tk, Workers: 4}
}

// Extract tokenizes every line concurrently, reassembles the token runs in
// line order so the result is deterministic, and returns the word list sorted
// by descending frequency with ties broken by first occurrence. Words present
// in known are excluded.
func (ex *Extractor) Extract(ctx context.Context, lines []string, known map[string]bool) ([]WordEntry, error) {
	runs := make([][]string, len(lines))

	var errMu sync.Mutex
	var firstErr error

	pool := NewWorkerPool(ex.Workers, ex.Workers*2)
	pool.Start(ctx)

	for i, line := range lines {
		idx, text := i, line
		err := pool.Submit(ctx, func(ctx context.Context) error {
			tokens, err := ex.Tokenizer.Tokens(text)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return err
			}
			runs[idx] = tokens
			return nil
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
	}
	pool.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	errMu.Lock()
	err := firstErr
	errMu.Unlock()
	if err != nil {
		return nil, err
	}

	return rank(runs, known), nil
}

// rank counts occurrences across the ordered token runs and produces the
// final list. Frequencies are counted before the known-word filter so a
// word's count always reflects the source text.
func rank(runs [][]string, known map[string]bool) []WordEntry {
	counts := make(map[string]int)
	var order []string

	for _, run := range runs {
		for _, word := range run {
			if counts[word] == 0 {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	entries := make([]WordEntry, 0, len(order))
	for _, word := range order {
		if known[word] {
			continue
		}
		entries = append(entries, WordEntry{Word: word, Frequency: counts[word]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Frequency > entries[j].Frequency
	})
	return entries
}
