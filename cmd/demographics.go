package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/demographics"
)

var demographicsCmd = &cobra.Command{
	Use:   "demographics",
	Short: "Manage the county partisan-lean dataset",
	Long:  "Commands for migrating and loading the county-level election results that back the demographic proxy estimator.",
}

// -- demographics migrate --

var demographicsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the county results schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, pool, err := initDemographics(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "demographics migrate")
		}
		fmt.Println("Schema ready.")
		return nil
	},
}

// -- demographics load --

var demographicsLoadCmd = &cobra.Command{
	Use:   "load <results.tsv>",
	Short: "Load a county results TSV into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, pool, err := initDemographics(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "demographics migrate")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "open %s", args[0])
		}
		defer f.Close()

		records, err := demographics.ParseTSV(f)
		if err != nil {
			return eris.Wrap(err, "parse results")
		}

		n, err := st.Load(ctx, records)
		if err != nil {
			return eris.Wrap(err, "load results")
		}

		zap.L().Info("county results loaded",
			zap.Int("parsed", len(records)), zap.Int64("upserted", n))
		fmt.Printf("Loaded %d county rows (%d parsed).\n", n, len(records))
		return nil
	},
}

// initDemographics connects to the Postgres backend named in config.
func initDemographics(ctx context.Context) (*demographics.Store, *pgxpool.Pool, error) {
	if err := cfg.Validate("demographics"); err != nil {
		return nil, nil, err
	}
	if cfg.Database.URL == "" {
		return nil, nil, eris.New("database.url is required for demographics commands")
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, eris.Wrap(err, "connect demographics database")
	}
	return demographics.NewStore(pool), pool, nil
}

func init() {
	demographicsCmd.AddCommand(demographicsMigrateCmd)
	demographicsCmd.AddCommand(demographicsLoadCmd)
	rootCmd.AddCommand(demographicsCmd)
}
