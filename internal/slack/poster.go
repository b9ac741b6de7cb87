package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/handlog/internal/batch"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostScanReport posts the scan summary as a new message and, when some
// files failed, lists their errors in a thread under it.
func (p *Poster) PostScanReport(ctx context.Context, rep *batch.Report) (string, error) {
	ts, err := p.post(ctx, map[string]any{
		"channel": p.channel,
		"text":    formatScanMessage(rep),
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": "```" + batch.FormatSummary(rep) + "```",
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	p.logger.Info("posted scan report to slack", "ts", ts, "dir", rep.Dir, "files", len(rep.Files))

	if failures := formatFailures(rep); failures != "" {
		if err := p.PostThread(ctx, ts, failures); err != nil {
			p.logger.Warn("failed to post scan failures", "ts", ts, "error", err)
		}
	}
	return ts, nil
}

// PostThread posts a threaded reply to a message.
func (p *Poster) PostThread(ctx context.Context, threadTS, text string) error {
	_, err := p.post(ctx, map[string]any{
		"channel":   p.channel,
		"thread_ts": threadTS,
		"text":      text,
	})
	return err
}

func (p *Poster) post(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}
	return slackResp.TS, nil
}

// formatScanMessage is the plain-text fallback shown in notifications.
func formatScanMessage(rep *batch.Report) string {
	total := rep.Total()
	return fmt.Sprintf("Poker log scan of %s: %d files, %d records, %d hands, %d errors",
		rep.Dir, len(rep.Files), total.Records, total.Hands, rep.Errors())
}

func formatFailures(rep *batch.Report) string {
	var sb strings.Builder
	for _, f := range rep.Files {
		if f.Error == "" {
			continue
		}
		fmt.Fprintf(&sb, "- *%s*: %s\n", filepath.Base(f.Path), f.Error)
	}
	if sb.Len() == 0 {
		return ""
	}
	return "*Failed files*\n" + sb.String()
}
