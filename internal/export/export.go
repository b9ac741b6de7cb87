package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MikeSquared-Agency/handlog/internal/handlog"
)

// Format is an output encoding for action records.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet holding records in XLSX output.
const SheetName = "actions"

// Columns is the header row of tabular output, in record field order.
var Columns = []string{
	"hand_id",
	"agent_name",
	"phase",
	"chips_before",
	"hole_cards",
	"community_cards",
	"action",
	"amount",
	"reasoning",
	"raw_prompt",
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json, csv or xlsx)", s)
	}
}

// ContentType is the HTTP media type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Write encodes records to w in the given format.
func Write(w io.Writer, f Format, records []handlog.ActionRecord) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteJSON writes records as an indented JSON array. An empty set is [].
func WriteJSON(w io.Writer, records []handlog.ActionRecord) error {
	if records == nil {
		records = []handlog.ActionRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func WriteCSV(w io.Writer, records []handlog.ActionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with a single "actions" sheet. Numeric
// columns stay numeric so spreadsheet formulas work on them.
func WriteXLSX(w io.Writer, records []handlog.ActionRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("locate row %d: %w", i, err)
		}
		values := []any{
			r.HandID,
			r.AgentName,
			string(r.Phase),
			r.ChipsBefore,
			r.HoleCards,
			r.CommunityCards,
			r.Action,
			r.Amount,
			r.Reasoning,
			compactPrompt(r.RawPrompt),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func row(r handlog.ActionRecord) []string {
	return []string{
		strconv.Itoa(r.HandID),
		r.AgentName,
		string(r.Phase),
		strconv.Itoa(r.ChipsBefore),
		r.HoleCards,
		r.CommunityCards,
		r.Action,
		strconv.Itoa(r.Amount),
		r.Reasoning,
		compactPrompt(r.RawPrompt),
	}
}

// compactPrompt squeezes a multi-line prompt onto one line. Text that is
// not valid JSON is passed through unchanged.
func compactPrompt(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
