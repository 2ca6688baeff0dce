package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/internal/parse"
	"github.com/donorlens/leverage-cli/pkg/civicengine"
)

var racesCmd = &cobra.Command{
	Use:   "races",
	Short: "List upcoming races without scoring them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("races"); err != nil {
			return err
		}

		elections := civicengine.NewClient(cfg.CivicEngine.Token,
			civicengine.WithEndpoint(cfg.CivicEngine.Endpoint))

		races, err := fetchRaces(cmd, elections)
		if err != nil {
			return err
		}
		if len(races) == 0 {
			fmt.Fprintln(os.Stderr, "No upcoming races found.")
			return nil
		}

		if output, _ := cmd.Flags().GetString("output"); output == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(races)
		}
		formatRaces(os.Stdout, races)
		return nil
	},
}

// formatRaces writes the race listing to w, flagging names the identifier
// parser cannot resolve since those races score on fallbacks only.
func formatRaces(out io.Writer, races []model.Race) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RACE\tLEVEL\tELECTION\tCANDIDATES\tPARSED")
	_, _ = fmt.Fprintln(w, "----\t-----\t--------\t----------\t------")

	for _, r := range races {
		name := r.Name
		if len(name) > 50 {
			name = name[:47] + "..."
		}

		day := ""
		if !r.ElectionDay.IsZero() {
			day = r.ElectionDay.Format("2006-01-02")
		}

		parsed := "yes"
		if !parse.RaceName(r.Name).Parseable() {
			parsed = "no"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			name, r.Level, day, len(r.Candidacies), parsed)
	}
	_ = w.Flush()
}

func init() {
	racesCmd.Flags().Int("months-ahead", 0, "race window in months (default from config)")
	racesCmd.Flags().Bool("include-past", false, "keep races whose election day already passed")
	racesCmd.Flags().String("output", "table", "output format: table or json")
	rootCmd.AddCommand(racesCmd)
}
