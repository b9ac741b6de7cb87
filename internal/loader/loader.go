package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/MikeSquared-Agency/handlog/internal/handlog"
	"github.com/MikeSquared-Agency/handlog/internal/hermes"
	"github.com/MikeSquared-Agency/handlog/internal/metrics"
)

// Publisher announces parsed logs. *hermes.Client satisfies it.
type Publisher interface {
	Publish(subject string, data any) error
}

// Result is a parsed log together with the identity of the pass that
// produced it.
type Result struct {
	ParseID  uuid.UUID              `json:"parse_id"`
	Path     string                 `json:"path"`
	Digest   string                 `json:"digest"`
	Records  []handlog.ActionRecord `json:"records"`
	Stats    handlog.Stats          `json:"stats"`
	LoadedAt time.Time              `json:"loaded_at"`
}

// Loader parses log files at most once per content version. Concurrent
// loads of the same version share one parse.
type Loader struct {
	mu      sync.Mutex
	entries map[string]*Result // keyed by absolute path
	group   singleflight.Group
	events  Publisher
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Loader. events may be nil.
func New(events Publisher, logger *slog.Logger) *Loader {
	return &Loader{
		entries: make(map[string]*Result),
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// Load returns the records of the log at path. The file is re-read on every
// call and only re-parsed when its content changed. A missing file yields
// an error wrapping handlog.ErrLogNotFound.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			metrics.ObserveNotFound()
			return nil, fmt.Errorf("%w: %s", handlog.ErrLogNotFound, path)
		}
		return nil, fmt.Errorf("read log: %w", err)
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	if cached := l.cached(abs, digest); cached != nil {
		metrics.ObserveCacheHit()
		return cached, nil
	}

	ch := l.group.DoChan(abs+"@"+digest, func() (any, error) {
		return l.parse(abs, digest, data)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Result), nil
	}
}

// Invalidate forgets the cached parse for path.
func (l *Loader) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	l.mu.Lock()
	delete(l.entries, abs)
	l.mu.Unlock()
}

func (l *Loader) cached(abs, digest string) *Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r, ok := l.entries[abs]; ok && r.Digest == digest {
		return r
	}
	return nil
}

func (l *Loader) parse(abs, digest string, data []byte) (*Result, error) {
	// A caller that missed the cache may arrive just after a parse finished.
	if cached := l.cached(abs, digest); cached != nil {
		return cached, nil
	}

	start := time.Now()
	parsed, err := handlog.ParseBytes(data)
	if err != nil {
		metrics.ObserveError()
		l.logger.Error("log parse failed", "path", abs, "error", err)
		return nil, err
	}
	metrics.ObserveParse(parsed.Stats, time.Since(start).Seconds())

	res := &Result{
		ParseID:  uuid.New(),
		Path:     abs,
		Digest:   digest,
		Records:  parsed.Records,
		Stats:    parsed.Stats,
		LoadedAt: l.now().UTC(),
	}

	l.mu.Lock()
	l.entries[abs] = res
	l.mu.Unlock()

	l.logger.Info("log parsed",
		"parse_id", res.ParseID,
		"path", abs,
		"records", parsed.Stats.Records,
		"hands", parsed.Stats.Hands,
		"orphans", parsed.Stats.OrphanDecisions,
		"malformed", parsed.Stats.MalformedPrompts,
		"incomplete", parsed.Stats.IncompleteBlocks,
		"duration", time.Since(start),
	)

	l.publish(res)
	return res, nil
}

func (l *Loader) publish(res *Result) {
	if l.events == nil {
		return
	}
	ev := hermes.ParsedEvent{
		ParseID:          res.ParseID.String(),
		Path:             res.Path,
		Records:          res.Stats.Records,
		Hands:            res.Stats.Hands,
		Decisions:        res.Stats.Decisions,
		OrphanDecisions:  res.Stats.OrphanDecisions,
		MalformedPrompts: res.Stats.MalformedPrompts,
		IncompleteBlocks: res.Stats.IncompleteBlocks,
		ParsedAt:         res.LoadedAt.Format(time.RFC3339),
	}
	if err := l.events.Publish(hermes.SubjectParsed, ev); err != nil {
		l.logger.Warn("failed to publish parsed event", "path", res.Path, "error", err)
	}
}
