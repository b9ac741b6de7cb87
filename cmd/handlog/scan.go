package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/handlog/internal/batch"
	"github.com/MikeSquared-Agency/handlog/internal/loader"
	"github.com/MikeSquared-Agency/handlog/internal/slack"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Parse every .log file under a directory and summarise each one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().Bool("recursive", true, "descend into subdirectories (default $HANDLOG_SCAN_RECURSIVE)")
	scanCmd.Flags().String("state", "", "state file remembering already scanned logs")
	scanCmd.Flags().Int("workers", 4, "files parsed in parallel")
	scanCmd.Flags().Bool("json", false, "print the report as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	dir := cfg.LogDir
	if len(args) == 1 {
		dir = args[0]
	}
	recursive := cfg.ScanRecursive
	if cmd.Flags().Changed("recursive") {
		recursive, _ = cmd.Flags().GetBool("recursive")
	}
	statePath, _ := cmd.Flags().GetString("state")
	workers, _ := cmd.Flags().GetInt("workers")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(batch.Config{
		Dir:         dir,
		Recursive:   recursive,
		StatePath:   statePath,
		Concurrency: workers,
	}, loader.New(nil, slog.Default()), slog.Default())

	rep, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		poster := slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		if _, err := poster.PostScanReport(ctx, rep); err != nil {
			slog.Warn("failed to post scan report to slack", "error", err)
		}
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	fmt.Fprint(cmd.OutOrStdout(), batch.FormatSummary(rep))
	return nil
}
