package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"pick-reconciler/core/storage"
	"pick-reconciler/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag  bool
	jsonFlag bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the archive storage and the picking schema",
	Long:  `Checks that the archive bucket and prefix exist and that the order database has every picking table and column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(false)
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()

		client, err := storage.NewClient(rt.cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		svc := integrity.NewService(client, rt.cfg.Storage, logg, rt.db)
		logg.Info("Running integrity checks", zap.Bool("fix", fixFlag))
		report := svc.Run(cmd.Context(), fixFlag)

		if jsonFlag {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		for check, msg := range report.Errors {
			logg.Error("Check failed", zap.String("check", check), zap.String("error", msg))
		}
		if st := report.Storage; st != nil {
			if st.Missing() {
				logg.Warn("Archive storage incomplete",
					zap.String("bucket", st.Bucket),
					zap.Bool("bucket_exists", st.BucketExists),
					zap.Bool("prefix_exists", st.PrefixExists))
				logg.Info("Run with --fix to create the bucket and prefix.")
			} else {
				logg.Info("Archive storage is intact.", zap.String("status", st.Status))
			}
		}
		if sc := report.Schema; sc != nil {
			if sc.Matched {
				logg.Info("Picking schema matches the models.")
			} else {
				for table, tbl := range sc.Tables {
					if tbl.Status != "ok" {
						logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
					}
				}
				for _, e := range sc.Errors {
					logg.Error("Inspection Error", zap.String("error", e))
				}
			}
		}

		if !report.Healthy() {
			return errors.New("integrity problems found")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing storage folders and migrate tables")
	integrityCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the report as JSON")
}
