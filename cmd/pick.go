package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"pick-reconciler/core/events"
	"pick-reconciler/core/reconcile"
	"pick-reconciler/core/storage"
	"pick-reconciler/feature/picking"
	"pick-reconciler/feature/picking/sheet"

	"github.com/spf13/cobra"
)

// defaultEndCode ends an interactive session when scanned or typed.
const defaultEndCode = "END"

var (
	pickOrder   string
	pickLines   string
	pickExport  string
	pickEndCode string
)

// pickCmd runs an interactive pick session on stdin.
var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick an order interactively",
	Long: `Opens a pick session and reads one scanner code per line from stdin.
A keyboard-wedge scanner works as is. The session is closed at end of input
or when a line equal to the end code (END by default) is read. The end code is
compared with the raw line, so a label such as "end" or " END " is scanned.

Examples:
  # Lines from the order database, archive to storage on close
  pick --order ORD-1001

  # Offline, lines from a pick list spreadsheet
  pick --order ORD-1001 --lines picklist.xlsx --export audit.xlsx

  # Close on a dedicated barcode, read to end of input otherwise
  pick --order ORD-1001 --end-code '#CLOSE#'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pickOrder == "" {
			return errors.New("--order is required")
		}

		rt, err := bootstrap(pickLines == "")
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		var svc *picking.Service
		if pickLines != "" {
			lines, err := readPickList(pickLines)
			if err != nil {
				return err
			}
			store := picking.NewMemoryStore()
			store.SetLines(pickOrder, lines)
			svc = picking.NewService(store, nil, nil, rt.logger, rt.cfg.Server.Station, rt.cfg.Reconcile.Options()...)
		} else {
			client, err := storage.NewClient(rt.cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
			publisher := events.NewPublisher(rt.cfg.Kafka)
			defer publisher.Close()

			svc = picking.NewService(
				picking.NewGormStore(rt.db),
				picking.NewArchiver(client, rt.cfg.Storage.Bucket, rt.cfg.Storage.ArchivePrefix),
				publisher,
				rt.logger,
				rt.cfg.Server.Station,
				rt.cfg.Reconcile.Options()...,
			)
		}

		return runPick(cmd.Context(), svc, pickOrder, pickExport, pickEndCode, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	RootCmd.AddCommand(pickCmd)
	pickCmd.Flags().StringVar(&pickOrder, "order", "", "Order ID to pick")
	pickCmd.Flags().StringVar(&pickLines, "lines", "", "Read order lines from an XLSX pick list instead of the database")
	pickCmd.Flags().StringVar(&pickExport, "export", "", "Write the session audit to this XLSX file before closing")
	pickCmd.Flags().StringVar(&pickEndCode, "end-code", defaultEndCode, "Input line that closes the session, matched exactly (empty to read until EOF)")
}

func readPickList(path string) ([]reconcile.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pick list: %w", err)
	}
	defer f.Close()
	return sheet.ImportLines(f)
}

// runPick drives one session from in until EOF or a line equal to endCode,
// then closes it. An empty endCode reads until EOF.
func runPick(ctx context.Context, svc *picking.Service, orderID, exportPath, endCode string, in io.Reader, out io.Writer) error {
	snap, err := svc.Open(ctx, orderID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Session %s for order %s: %d units to pick\n", snap.SessionID, orderID, snap.Progress.TotalUnits)

	announced := false
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		raw := scanner.Text()
		if endCode != "" && strings.TrimSuffix(raw, "\r") == endCode {
			break
		}

		res, err := svc.Scan(ctx, snap.SessionID, raw)
		if errors.Is(err, reconcile.ErrInvalidScan) {
			continue
		}
		if err != nil {
			return err
		}

		ev := res.Event
		if ev.IsMatch() {
			fmt.Fprintf(out, "#%d OK    %s line %s unit %d  [%d/%d %d%%]\n",
				ev.Sequence, ev.Code, ev.Unit.LineID, ev.Unit.UnitIndex,
				res.Progress.MatchedCount, res.Progress.TotalUnits, res.Progress.Percent)
		} else {
			fmt.Fprintf(out, "#%d WARN  %s %s\n", ev.Sequence, ev.Code, ev.Outcome.Warning())
		}

		if res.Complete && !announced {
			if endCode != "" {
				fmt.Fprintf(out, "All units picked. Scan %s to close.\n", endCode)
			} else {
				fmt.Fprintln(out, "All units picked. End input to close.")
			}
			announced = true
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read scans: %w", err)
	}

	if exportPath != "" {
		if err := exportSession(svc, snap.SessionID, exportPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Audit written to %s\n", exportPath)
	}

	record, err := svc.Close(ctx, snap.SessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Closed: %d/%d units, %d scans\n", record.Progress.MatchedCount, record.Progress.TotalUnits, len(record.Log))
	if !record.Complete {
		fmt.Fprintf(out, "Order %s is incomplete: %d units not picked\n", orderID, record.Progress.TotalUnits-record.Progress.MatchedCount)
	}
	return nil
}

func exportSession(svc *picking.Service, sessionID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := svc.Export(sessionID, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
