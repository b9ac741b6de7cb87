package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/handlog/internal/analysis"
	"github.com/MikeSquared-Agency/handlog/internal/handlog"
	"github.com/MikeSquared-Agency/handlog/internal/loader"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Print action, bet and hand-strength statistics for a log as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringSlice("agent", nil, "only these agents")
	summaryCmd.Flags().StringSlice("hand", nil, "only these hand numbers")
	summaryCmd.Flags().StringSlice("phase", nil, "only these phases (preflop, flop, turn, river, unknown)")
	summaryCmd.Flags().Int("sample", 0, "reasoning rows to sample (default $HANDLOG_SAMPLE_SIZE)")
	summaryCmd.Flags().Uint64("seed", 0, "sampling seed (default $HANDLOG_SAMPLE_SEED)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	sample := cfg.SampleSize
	if cmd.Flags().Changed("sample") {
		sample, _ = cmd.Flags().GetInt("sample")
	}
	seed := uint64(cfg.SampleSeed)
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}

	res, err := loader.New(nil, slog.Default()).Load(context.Background(), args[0])
	if err != nil {
		return err
	}

	out := struct {
		ParseID string        `json:"parse_id"`
		Path    string        `json:"path"`
		Stats   handlog.Stats `json:"stats"`
		analysis.Summary
	}{
		ParseID: res.ParseID.String(),
		Path:    res.Path,
		Stats:   res.Stats,
		Summary: analysis.Summarize(res.Records, f, sample, seed),
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func filterFromFlags(cmd *cobra.Command) (analysis.Filter, error) {
	var f analysis.Filter
	f.Agents, _ = cmd.Flags().GetStringSlice("agent")

	hands, _ := cmd.Flags().GetStringSlice("hand")
	for _, h := range hands {
		n, err := strconv.Atoi(h)
		if err != nil {
			return f, fmt.Errorf("invalid hand %q", h)
		}
		f.Hands = append(f.Hands, n)
	}

	phases, _ := cmd.Flags().GetStringSlice("phase")
	for _, p := range phases {
		phase, ok := handlog.ParsePhase(p)
		if !ok {
			return f, fmt.Errorf("invalid phase %q", p)
		}
		f.Phases = append(f.Phases, phase)
	}
	return f, nil
}
