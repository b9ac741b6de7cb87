package handlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestParseFile_Basic(t *testing.T) {
	path := writeLog(t,
		"=== STARTING NEW HAND #1 ===",
		"LLM Prompt for Agent1: {",
		`"your_chips": 1000, "your_cards": ["Jh", "Jd"], "community": []`,
		"}",
		"[Agent1] Successfully parsed decision: raise, 50, pocket jacks",
	)

	res, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	if res.Stats.Lines != 5 {
		t.Errorf("expected 5 lines, got %d", res.Stats.Lines)
	}
	if res.Stats.Records != 1 || res.Stats.Prompts != 1 || res.Stats.Hands != 1 {
		t.Errorf("unexpected stats %+v", res.Stats)
	}
}

func TestParseFile_Missing(t *testing.T) {
	res, err := ParseFile(filepath.Join(t.TempDir(), "nope.log"))
	if !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound, got %v", err)
	}
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
}

func TestParseFile_CRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.log")
	data := "=== STARTING NEW HAND #2 ===\r\nLLM Prompt for Agent1: {\r\n\"your_chips\": 5, \"community\": []\r\n}\r\n[Agent1] Successfully parsed decision: fold, 0, done\r\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	if res.Records[0].Reasoning != "done" {
		t.Errorf("expected reasoning without carriage return, got %q", res.Records[0].Reasoning)
	}
}

func TestParseBytes_InvalidUTF8(t *testing.T) {
	res, err := ParseBytes([]byte("=== STARTING NEW HAND #1 ===\n\xff\xfe\n"))
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
	if res != nil {
		t.Error("expected no partial result")
	}
}

func TestParseBytes_OversizedLine(t *testing.T) {
	data := "=== STARTING NEW HAND #1 ===\n" + strings.Repeat("x", maxLineSize+1) + "\n"
	res, err := ParseBytes([]byte(data))
	if err == nil {
		t.Fatal("expected error for oversized line")
	}
	if res != nil {
		t.Error("expected no partial result")
	}
}

func TestParse_Reader(t *testing.T) {
	log := "=== STARTING NEW HAND #1 ===\nLLM Prompt for Agent9: {\n\"community\": [\"2s\",\"3s\",\"4s\",\"5s\",\"6s\"]}\n[Agent9] Successfully parsed decision: check, 0, straight flush\n"
	res, err := Parse(strings.NewReader(log))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].Phase != PhaseRiver {
		t.Errorf("unexpected records %+v", res.Records)
	}
}

func TestMatchHandStart_Overflow(t *testing.T) {
	if _, ok := matchHandStart("=== STARTING NEW HAND #99999999999999999999999 ==="); ok {
		t.Error("expected overflowing hand number to be treated as no match")
	}
}

func TestMatchDecision(t *testing.T) {
	d, ok := matchDecision("[Agent12] Successfully parsed decision: all_in, 1500, shove, with commas, in reasoning ")
	if !ok {
		t.Fatal("expected match")
	}
	if d.agent != "Agent12" || d.action != "all_in" || d.amount != 1500 {
		t.Errorf("unexpected decision %+v", d)
	}
	if d.reasoning != "shove, with commas, in reasoning" {
		t.Errorf("unexpected reasoning %q", d.reasoning)
	}

	if _, ok := matchDecision("[Agent1] Successfully parsed decision: raise, -5, negative"); ok {
		t.Error("negative amounts should not match")
	}
}
