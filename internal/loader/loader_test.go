package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/MikeSquared-Agency/handlog/internal/handlog"
	"github.com/MikeSquared-Agency/handlog/internal/hermes"
)

const sampleLog = `=== STARTING NEW HAND #1 ===
LLM Prompt for Agent1: {
  "your_chips": 1000,
  "your_cards": ["Ah", "Kd"],
  "community": []
}
[Agent1] Successfully parsed decision: raise, 40, strong hand
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePublisher struct {
	mu     sync.Mutex
	events []hermes.ParsedEvent
	err    error
}

func (f *fakePublisher) Publish(subject string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if subject != hermes.SubjectParsed {
		return errors.New("unexpected subject " + subject)
	}
	f.events = append(f.events, data.(hermes.ParsedEvent))
	return f.err
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLoad_ParsesAndPublishes(t *testing.T) {
	pub := &fakePublisher{}
	l := New(pub, discardLogger())
	path := writeLog(t, sampleLog)

	res, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].Action != "raise" {
		t.Fatalf("unexpected records %+v", res.Records)
	}
	if res.Stats.Hands != 1 {
		t.Errorf("expected 1 hand, got %d", res.Stats.Hands)
	}
	if pub.count() != 1 {
		t.Fatalf("expected 1 event, got %d", pub.count())
	}
	if pub.events[0].ParseID != res.ParseID.String() {
		t.Errorf("event parse id %s does not match %s", pub.events[0].ParseID, res.ParseID)
	}
}

func TestLoad_CachesUnchangedFile(t *testing.T) {
	pub := &fakePublisher{}
	l := New(pub, discardLogger())
	path := writeLog(t, sampleLog)

	first, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first != second {
		t.Error("expected the cached result on an unchanged file")
	}
	if pub.count() != 1 {
		t.Errorf("expected a single parse event, got %d", pub.count())
	}
}

func TestLoad_ReparsesChangedFile(t *testing.T) {
	l := New(nil, discardLogger())
	path := writeLog(t, sampleLog)

	first, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}

	extra := sampleLog + "=== STARTING NEW HAND #2 ===\n"
	if err := os.WriteFile(path, []byte(extra), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	second, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first.ParseID == second.ParseID {
		t.Error("expected a fresh parse after the file changed")
	}
	if second.Stats.Hands != 2 {
		t.Errorf("expected 2 hands, got %d", second.Stats.Hands)
	}
}

func TestLoad_Invalidate(t *testing.T) {
	l := New(nil, discardLogger())
	path := writeLog(t, sampleLog)

	first, _ := l.Load(context.Background(), path)
	l.Invalidate(path)
	second, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if first.ParseID == second.ParseID {
		t.Error("expected invalidate to force a re-parse")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	l := New(nil, discardLogger())
	res, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.log"))
	if !errors.Is(err, handlog.ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound, got %v", err)
	}
	if res != nil {
		t.Error("expected no result for a missing file")
	}
}

func TestLoad_ParseFailureNotCached(t *testing.T) {
	pub := &fakePublisher{}
	l := New(pub, discardLogger())
	path := writeLog(t, "=== STARTING NEW HAND #1 ===\n\xff\xfe\n")

	if _, err := l.Load(context.Background(), path); err == nil {
		t.Fatal("expected an error for invalid UTF-8")
	}
	if pub.count() != 0 {
		t.Errorf("expected no event for a failed parse, got %d", pub.count())
	}
}

func TestLoad_PublishFailureStillReturns(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats down")}
	l := New(pub, discardLogger())
	path := writeLog(t, sampleLog)

	if _, err := l.Load(context.Background(), path); err != nil {
		t.Fatalf("publish failure should not fail the load: %v", err)
	}
}

func TestLoad_ConcurrentCallersShareParse(t *testing.T) {
	pub := &fakePublisher{}
	l := New(pub, discardLogger())
	path := writeLog(t, sampleLog)

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := l.Load(context.Background(), path)
			if err != nil {
				t.Errorf("load %d: %v", i, err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r == nil || r.ParseID != results[0].ParseID {
			t.Errorf("caller %d saw a different parse", i)
		}
	}
	if pub.count() != 1 {
		t.Errorf("expected one parse for concurrent callers, got %d", pub.count())
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	l := New(nil, discardLogger())
	path := writeLog(t, sampleLog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// A cancelled caller either sees ctx.Err or a result that raced ahead.
	if _, err := l.Load(ctx, path); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error %v", err)
	}
}
