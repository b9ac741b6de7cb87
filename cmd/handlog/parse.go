package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/handlog/internal/export"
	"github.com/MikeSquared-Agency/handlog/internal/handlog"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Extract action records from a log and write them as JSON, CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "json", "output format: json, csv or xlsx")
	parseCmd.Flags().String("out", "", "output file (default stdout)")
}

func runParse(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if format == export.FormatXLSX && out == "" {
		return fmt.Errorf("xlsx output needs --out")
	}

	res, err := handlog.ParseFile(args[0])
	if err != nil {
		return err
	}
	slog.Info("log parsed",
		"path", args[0],
		"records", res.Stats.Records,
		"hands", res.Stats.Hands,
		"orphans", res.Stats.OrphanDecisions,
		"malformed", res.Stats.MalformedPrompts,
	)

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, format, res.Records); err != nil {
		return err
	}
	if out != "" {
		slog.Info("records written", "path", out, "format", format, "records", len(res.Records))
	}
	return nil
}
