package cmd

import (
	"errors"
	"fmt"

	"pick-reconciler/feature/picking"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrateImport string
	migrateOrder  string
)

// migrateCmd creates the picking tables and optionally loads a pick list.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the picking tables",
	Long: `Migrates the order_lines, pick_sessions, picked_units and scan_events tables.
With --import and --order the lines of a pick list spreadsheet replace the
stored lines of that order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (migrateImport == "") != (migrateOrder == "") {
			return errors.New("--import and --order must be used together")
		}

		rt, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		ctx := cmd.Context()
		store := picking.NewGormStore(rt.db)
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		rt.logger.Info("Picking tables migrated")

		if migrateImport == "" {
			return nil
		}

		lines, err := readPickList(migrateImport)
		if err != nil {
			return err
		}
		if err := store.ReplaceLines(ctx, migrateOrder, lines); err != nil {
			return err
		}
		rt.logger.Info("Pick list imported",
			zap.String("order_id", migrateOrder),
			zap.String("file", migrateImport),
			zap.Int("lines", len(lines)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateImport, "import", "", "XLSX pick list to import")
	migrateCmd.Flags().StringVar(&migrateOrder, "order", "", "Order ID of the imported pick list")
}
