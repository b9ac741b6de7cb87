package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/handlog/internal/loader"
)

// Config holds the scan command configuration.
type Config struct {
	Dir         string
	Recursive   bool
	StatePath   string // optional: remember processed files between runs
	Concurrency int
}

// FileSummary is the outcome of parsing one log file.
type FileSummary struct {
	Path       string `json:"path"`
	Date       string `json:"date"`
	Records    int    `json:"records"`
	Hands      int    `json:"hands"`
	Decisions  int    `json:"decisions"`
	Orphans    int    `json:"orphans"`
	Malformed  int    `json:"malformed"`
	Incomplete int    `json:"incomplete"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Report collects every file a scan looked at, in path order.
type Report struct {
	Dir   string        `json:"dir"`
	Files []FileSummary `json:"files"`
}

// Runner parses every log file under a directory.
type Runner struct {
	cfg    Config
	loader *loader.Loader
	logger *slog.Logger
}

func NewRunner(cfg Config, ld *loader.Loader, logger *slog.Logger) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Runner{cfg: cfg, loader: ld, logger: logger}
}

// Run scans the configured directory. A file that fails to parse is
// recorded in its summary and does not stop the scan.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	state, err := LoadState(r.cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	files, err := r.discoverFiles()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	r.logger.Info("log files discovered", "dir", r.cfg.Dir, "files", len(files))

	summaries := make([]FileSummary, len(files))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, path := range files {
		g.Go(func() error {
			sum := FileSummary{Path: path, Date: dateFromName(path)}
			res, err := r.loader.Load(gctx, path)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.Warn("failed to parse log", "path", path, "error", err)
				sum.Error = err.Error()
				mu.Lock()
				state.AddError(fmt.Sprintf("parse %s: %v", path, err))
				mu.Unlock()
				summaries[i] = sum
				return nil
			}

			sum.Records = res.Stats.Records
			sum.Hands = res.Stats.Hands
			sum.Decisions = res.Stats.Decisions
			sum.Orphans = res.Stats.OrphanDecisions
			sum.Malformed = res.Stats.MalformedPrompts
			sum.Incomplete = res.Stats.IncompleteBlocks

			mu.Lock()
			if state.IsProcessed(res.Path, res.Digest) {
				sum.Skipped = true
			}
			state.MarkProcessed(res.Path, res.Digest)
			mu.Unlock()

			summaries[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := state.Save(); err != nil {
		r.logger.Warn("failed to save scan state", "path", r.cfg.StatePath, "error", err)
	}

	report := &Report{Dir: r.cfg.Dir, Files: summaries}
	total := report.Total()
	r.logger.Info("scan complete",
		"files", len(summaries),
		"records", total.Records,
		"hands", total.Hands,
		"orphans", total.Orphans,
		"errors", report.Errors(),
	)
	return report, nil
}

// Total sums every successfully parsed file.
func (rep *Report) Total() FileSummary {
	var t FileSummary
	for _, f := range rep.Files {
		if f.Error != "" {
			continue
		}
		t.Records += f.Records
		t.Hands += f.Hands
		t.Decisions += f.Decisions
		t.Orphans += f.Orphans
		t.Malformed += f.Malformed
		t.Incomplete += f.Incomplete
	}
	return t
}

// Errors counts files that failed to parse.
func (rep *Report) Errors() int {
	n := 0
	for _, f := range rep.Files {
		if f.Error != "" {
			n++
		}
	}
	return n
}

// FormatSummary renders a report grouped by the game date in each file
// name. Files already seen in an earlier run are marked unchanged.
func FormatSummary(rep *Report) string {
	byDate := make(map[string][]FileSummary)
	for _, f := range rep.Files {
		date := f.Date
		if date == "" {
			date = "unknown"
		}
		byDate[date] = append(byDate[date], f)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var sb strings.Builder
	total := rep.Total()
	fmt.Fprintf(&sb, "=== Scan Summary: %s ===\n", rep.Dir)
	fmt.Fprintf(&sb, "Files: %d  Records: %d  Hands: %d  Orphans: %d  Malformed: %d  Incomplete: %d  Errors: %d\n",
		len(rep.Files), total.Records, total.Hands, total.Orphans, total.Malformed, total.Incomplete, rep.Errors())

	for _, date := range dates {
		files := byDate[date]
		records := 0
		for _, f := range files {
			records += f.Records
		}
		fmt.Fprintf(&sb, "\n%s (%d files, %d records)\n", date, len(files), records)
		for _, f := range files {
			name := filepath.Base(f.Path)
			if f.Error != "" {
				fmt.Fprintf(&sb, "  - %s: error: %s\n", name, f.Error)
				continue
			}
			fmt.Fprintf(&sb, "  - %s: %d records, %d hands, %d orphans, %d malformed", name, f.Records, f.Hands, f.Orphans, f.Malformed)
			if f.Incomplete > 0 {
				fmt.Fprintf(&sb, ", %d incomplete", f.Incomplete)
			}
			if f.Skipped {
				sb.WriteString(" (unchanged)")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (r *Runner) discoverFiles() ([]string, error) {
	dir := expandHome(r.cfg.Dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && !r.cfg.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".log") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

var nameDate = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})_\d{6}`)

// dateFromName pulls the game date out of names like
// poker_game_20251031_184427_838e.log.
func dateFromName(path string) string {
	m := nameDate.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2] + "-" + m[3]
}
