package batch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/handlog/internal/loader"
)

const handLog = `=== STARTING NEW HAND #1 ===
LLM Prompt for Agent1: {
  "your_chips": 1000,
  "your_cards": ["Ah", "Kd"],
  "community": []
}
[Agent1] Successfully parsed decision: raise, 40, strong
[Agent2] Successfully parsed decision: call, 40, no prompt seen
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func scanDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "poker_game_20251031_184427_838e.log"), handLog)
	writeFile(t, filepath.Join(dir, "broken.log"), "=== STARTING NEW HAND #1 ===\n\xff\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), handLog)
	writeFile(t, filepath.Join(dir, "old", "poker_game_20251030_090000_0001.log"), handLog)
	return dir
}

func TestRunner_ScansLogs(t *testing.T) {
	dir := scanDir(t)
	r := NewRunner(Config{Dir: dir, Recursive: true}, loader.New(nil, discardLogger()), discardLogger())

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rep.Files) != 3 {
		t.Fatalf("expected 3 log files, got %d", len(rep.Files))
	}
	if rep.Errors() != 1 {
		t.Errorf("expected 1 failed file, got %d", rep.Errors())
	}

	total := rep.Total()
	if total.Records != 2 {
		t.Errorf("expected 2 records, got %d", total.Records)
	}
	if total.Orphans != 2 {
		t.Errorf("expected 2 orphans, got %d", total.Orphans)
	}

	for _, f := range rep.Files {
		if strings.HasSuffix(f.Path, "838e.log") && f.Date != "2025-10-31" {
			t.Errorf("expected date from file name, got %q", f.Date)
		}
	}
}

func TestRunner_NonRecursive(t *testing.T) {
	dir := scanDir(t)
	r := NewRunner(Config{Dir: dir}, loader.New(nil, discardLogger()), discardLogger())

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rep.Files) != 2 {
		t.Errorf("expected 2 top-level log files, got %d", len(rep.Files))
	}
}

func TestRunner_StateMarksUnchanged(t *testing.T) {
	dir := scanDir(t)
	statePath := filepath.Join(t.TempDir(), "state.json")
	cfg := Config{Dir: dir, Recursive: true, StatePath: statePath}

	first, err := NewRunner(cfg, loader.New(nil, discardLogger()), discardLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	for _, f := range first.Files {
		if f.Skipped {
			t.Errorf("%s should not be skipped on the first run", f.Path)
		}
	}

	second, err := NewRunner(cfg, loader.New(nil, discardLogger()), discardLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	unchanged := 0
	for _, f := range second.Files {
		if f.Skipped {
			unchanged++
		}
	}
	if unchanged != 2 {
		t.Errorf("expected 2 unchanged files, got %d", unchanged)
	}
}

func TestRunner_MissingDir(t *testing.T) {
	r := NewRunner(Config{Dir: filepath.Join(t.TempDir(), "missing")}, loader.New(nil, discardLogger()), discardLogger())
	if _, err := r.Run(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFormatSummary(t *testing.T) {
	rep := &Report{
		Dir: "/logs",
		Files: []FileSummary{
			{Path: "/logs/poker_game_20251031_184427_838e.log", Date: "2025-10-31", Records: 5, Hands: 2, Orphans: 1},
			{Path: "/logs/broken.log", Error: "parse log: input is not valid UTF-8"},
		},
	}
	text := FormatSummary(rep)

	for _, want := range []string{
		"=== Scan Summary: /logs ===",
		"Files: 2  Records: 5",
		"2025-10-31 (1 files, 5 records)",
		"poker_game_20251031_184427_838e.log: 5 records, 2 hands, 1 orphans",
		"unknown (1 files, 0 records)",
		"broken.log: error: parse log",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestDateFromName(t *testing.T) {
	if got := dateFromName("/x/poker_game_20251031_184427_838e.log"); got != "2025-10-31" {
		t.Errorf("unexpected date %q", got)
	}
	if got := dateFromName("game.log"); got != "" {
		t.Errorf("expected no date, got %q", got)
	}
}
