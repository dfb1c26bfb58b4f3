package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/handsomecheung/subscout/pkg/config"
	"github.com/handsomecheung/subscout/pkg/db"
	"github.com/handsomecheung/subscout/pkg/extract"
	"github.com/handsomecheung/subscout/pkg/session"
	"github.com/handsomecheung/subscout/pkg/vocab"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fileFlag := flag.String("file", "", "Subtitle file to process (.srt or .ass)")
	styleFlag := flag.String("style", "", "Style to extract (.ass files with multiple styles)")
	sessionFlag := flag.String("session", "", "Resume an existing session id instead of uploading")
	markFlag := flag.String("mark", "", "Comma-separated words to mark as already known")
	finalizeFlag := flag.Bool("finalize", false, "Finalize the session after review")
	dbFlag := flag.String("db", cfg.DBPath, "Path to SQLite database")
	listKnownFlag := flag.String("list-known", "", "List known words for a language (en or jp) and exit")
	pruneFlag := flag.Bool("prune", false, "Delete stale unfinished sessions and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := sql.Open("sqlite3", *dbFlag)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	if err := db.InitDB(conn); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	mgr := session.NewManager(conn, vocab.NewSQLStore(conn), cfg)

	if *listKnownFlag != "" {
		words, count, err := mgr.KnownWords(*listKnownFlag)
		if err != nil {
			log.Fatalf("Failed to list known words: %v", err)
		}
		for _, w := range words {
			fmt.Println(w)
		}
		fmt.Printf("%d known words (%s)\n", count, *listKnownFlag)
		return
	}

	if *pruneFlag {
		n, err := mgr.Prune(cfg.SessionExpiry)
		if err != nil {
			log.Fatalf("Failed to prune sessions: %v", err)
		}
		fmt.Printf("Pruned %d stale sessions.\n", n)
		return
	}

	var id string
	switch {
	case *sessionFlag != "":
		id = *sessionFlag
		words, err := mgr.Words(id)
		if err != nil {
			log.Fatalf("Failed to load session words: %v", err)
		}
		printWords(words)
	case *fileFlag != "":
		data, err := os.ReadFile(*fileFlag)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *fileFlag, err)
		}

		s, err := mgr.Upload(filepath.Base(*fileFlag), data)
		if err != nil {
			log.Fatalf("Upload failed: %v", err)
		}
		id = s.ID
		fmt.Printf("Session %s: %s (%s)\n", s.ID, s.Filename, s.Language)
		if len(s.Styles) > 0 {
			fmt.Printf("Styles: %s\n", strings.Join(s.Styles, ", "))
		}

		words, err := mgr.Process(ctx, s.ID, *styleFlag)
		if err != nil {
			if errors.Is(err, session.ErrStyleRequired) {
				log.Fatalf("Processing failed: %v. Re-run with -style.", err)
			}
			log.Fatalf("Processing failed: %v", err)
		}
		printWords(words)
	default:
		log.Fatal("Please provide a -file, -session, -list-known or -prune")
	}

	if *markFlag != "" {
		var marked []string
		for _, w := range strings.Split(*markFlag, ",") {
			if w = strings.TrimSpace(w); w != "" {
				marked = append(marked, w)
			}
		}
		if err := mgr.UpdateWords(id, marked); err != nil {
			log.Fatalf("Failed to mark words: %v", err)
		}
		fmt.Printf("Marked %d words as known.\n", len(marked))
	}

	if *finalizeFlag {
		report, err := mgr.Finalize(id)
		if err != nil {
			log.Fatalf("Finalize failed: %v", err)
		}
		fmt.Printf("Learned %d of %d words.\n", report.LearnedCount, report.TotalCount)
		if len(report.TopWords) > 0 {
			fmt.Printf("Top words to study next: %s\n", strings.Join(report.TopWords, ", "))
		}
	} else {
		fmt.Printf("Session left open. Resume later with -session %s.\n", id)
	}
}

func printWords(words []extract.WordEntry) {
	fmt.Printf("Extracted %d words:\n", len(words))
	for _, w := range words {
		marker := " "
		if w.IsRemoved {
			marker = "*"
		}
		fmt.Printf("%s %5d  %s\n", marker, w.Frequency, w.Word)
	}
}
