package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/pkg/civicengine"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score upcoming races and rank them by donation leverage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("score"); err != nil {
			return err
		}
		ctx := cmd.Context()

		e, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		donation, _ := cmd.Flags().GetFloat64("donation")
		output, _ := cmd.Flags().GetString("output")
		limit, _ := cmd.Flags().GetInt("limit")

		races, err := fetchRaces(cmd, e.Elections)
		if err != nil {
			return err
		}
		if len(races) == 0 {
			fmt.Fprintln(os.Stderr, "No upcoming races found.")
			return nil
		}

		scores, err := e.Pipeline.ScoreRaces(ctx, races, donation)
		if err != nil {
			return eris.Wrap(err, "score races")
		}
		if limit > 0 && len(scores) > limit {
			scores = scores[:limit]
		}

		if output == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(scores)
		}
		formatScores(os.Stdout, scores)
		return nil
	},
}

// fetchRaces lists races through the window flags shared by score and races.
func fetchRaces(cmd *cobra.Command, elections *civicengine.Client) ([]model.Race, error) {
	opts := civicengine.DefaultListOptions()
	opts.MonthsAhead = cfg.Scoring.MonthsAhead
	if months, _ := cmd.Flags().GetInt("months-ahead"); months > 0 {
		opts.MonthsAhead = months
	}
	opts.IncludePast, _ = cmd.Flags().GetBool("include-past")

	races, err := elections.ListRaces(cmd.Context(), time.Now(), opts)
	if err != nil {
		return nil, eris.Wrap(err, "list races")
	}
	zap.L().Info("races fetched", zap.Int("count", len(races)))
	return races, nil
}

// formatScores writes the ranked table to w.
func formatScores(out io.Writer, scores []model.LeverageScore) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RANK\tRACE\tLEVEL\tLEVERAGE\tCOMP\tSAT\tQUALITY\tELECTION\tPRIORITY")
	_, _ = fmt.Fprintln(w, "----\t----\t-----\t--------\t----\t---\t-------\t--------\t--------")

	for i, s := range scores {
		name := s.Race.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}

		day := ""
		if !s.Race.ElectionDay.IsZero() {
			day = s.Race.ElectionDay.Format("2006-01-02")
		}

		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%.3f\t%.2f (%s)\t%.2f (%s)\t%s\t%s\t%s\n",
			i+1,
			name,
			s.Race.Level,
			s.Leverage,
			s.Competitiveness.Score, s.Competitiveness.Method,
			s.Saturation.Score, s.Saturation.Method,
			s.Competitiveness.Quality,
			day,
			s.TimePriority,
		)
	}
	_ = w.Flush()
}

func init() {
	scoreCmd.Flags().Float64("donation", 0, "donation amount in dollars for the monetary multiplier")
	scoreCmd.Flags().Int("months-ahead", 0, "race window in months (default from config)")
	scoreCmd.Flags().Bool("include-past", false, "keep races whose election day already passed")
	scoreCmd.Flags().Int("limit", 0, "show only the top N races")
	scoreCmd.Flags().String("output", "table", "output format: table or json")
	rootCmd.AddCommand(scoreCmd)
}
