package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/nocturnehq/nocturne/internal/night"
	"github.com/nocturnehq/nocturne/internal/service/insight"
)

type ingestReport struct {
	Result  insight.IngestResult  `json:"result"`
	Summary *night.Summary        `json:"summary,omitempty"`
	Score   *night.ScoreBreakdown `json:"score,omitempty"`
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <export>",
		Short: "Ingest an export and print the sleep summary and score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open export: %w", err)
			}
			defer f.Close()

			service := insight.New(night.NewWindow())

			result, err := service.Ingest(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			report := ingestReport{Result: result}

			summary, err := service.Summary()
			if err != nil && !errors.Is(err, insight.ErrNoData) {
				return fmt.Errorf("summarize: %w", err)
			}
			if err == nil {
				report.Summary = &summary
			}

			score, err := service.Score()
			if err != nil && !errors.Is(err, insight.ErrNoData) {
				return fmt.Errorf("score: %w", err)
			}
			if err == nil {
				report.Score = &score
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}
