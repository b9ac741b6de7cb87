package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/handlog/internal/analysis"
	"github.com/MikeSquared-Agency/handlog/internal/export"
	"github.com/MikeSquared-Agency/handlog/internal/handlog"
)

// RecordsResponse is the filtered record table.
type RecordsResponse struct {
	ParseID uuid.UUID        `json:"parse_id"`
	Path    string           `json:"path"`
	Stats   handlog.Stats    `json:"stats"`
	Options analysis.Options `json:"options"`
	Count   int              `json:"count"`
	Records []analysis.Row   `json:"records"`
}

// RecordDetail pairs the prompt an agent saw with the decision it made.
type RecordDetail struct {
	Index  int                  `json:"index"`
	Record handlog.ActionRecord `json:"record"`
	Input  json.RawMessage      `json:"input"`
	Output DecisionView         `json:"output"`
}

type DecisionView struct {
	Action    string `json:"action"`
	Amount    int    `json:"amount"`
	Reasoning string `json:"reasoning"`
}

// SummaryResponse wraps the aggregate view with the parse it came from.
type SummaryResponse struct {
	ParseID uuid.UUID `json:"parse_id"`
	analysis.Summary
}

// listRecords handles GET /api/v1/records
func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, ok := s.load(w, r)
	if !ok {
		return
	}

	rows := f.Apply(res.Records)
	writeJSON(w, http.StatusOK, RecordsResponse{
		ParseID: res.ParseID,
		Path:    res.Path,
		Stats:   res.Stats,
		Options: analysis.OptionsFor(res.Records),
		Count:   len(rows),
		Records: rows,
	})
}

// getRecord handles GET /api/v1/records/{index}
func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 {
		writeError(w, http.StatusBadRequest, "index must be a non-negative integer")
		return
	}
	res, ok := s.load(w, r)
	if !ok {
		return
	}
	if idx >= len(res.Records) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("record %d not found (%d records)", idx, len(res.Records)))
		return
	}

	rec := res.Records[idx]
	writeJSON(w, http.StatusOK, RecordDetail{
		Index:  idx,
		Record: rec,
		Input:  rec.RawPrompt,
		Output: DecisionView{Action: rec.Action, Amount: rec.Amount, Reasoning: rec.Reasoning},
	})
}

// summary handles GET /api/v1/summary
func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, ok := s.load(w, r)
	if !ok {
		return
	}

	sum := analysis.Summarize(res.Records, f, s.opts.SampleSize, s.opts.SampleSeed)
	writeJSON(w, http.StatusOK, SummaryResponse{ParseID: res.ParseID, Summary: sum})
}

// export handles GET /api/v1/export.{format}
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, ok := s.load(w, r)
	if !ok {
		return
	}

	rows := f.Apply(res.Records)
	records := make([]handlog.ActionRecord, len(rows))
	for i, row := range rows {
		records[i] = row.ActionRecord
	}

	// Encode fully before writing headers so a failure can still become a 500.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, records); err != nil {
		s.logger.Error("export failed", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="actions.%s"`, format))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseFilter reads repeatable or comma-separated agent, hand and phase
// query parameters.
func parseFilter(r *http.Request) (analysis.Filter, error) {
	q := r.URL.Query()
	var f analysis.Filter

	f.Agents = splitValues(q["agent"])

	for _, v := range splitValues(q["hand"]) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return analysis.Filter{}, fmt.Errorf("invalid hand %q", v)
		}
		f.Hands = append(f.Hands, n)
	}

	for _, v := range splitValues(q["phase"]) {
		p, ok := handlog.ParsePhase(v)
		if !ok {
			return analysis.Filter{}, fmt.Errorf("invalid phase %q", v)
		}
		f.Phases = append(f.Phases, p)
	}

	return f, nil
}

func splitValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
