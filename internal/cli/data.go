package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"crypto-journal/internal/backup"
	"crypto-journal/internal/errors"
)

func addDataCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newImportCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newBackupCmd(app))
	rootCmd.AddCommand(newRestoreCmd(app))
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import trades from a spreadsheet CSV export",
		Long: `Import trades from a CSV export with fixed column positions.

Rows whose (timestamp, symbol) pair matches an existing trade are skipped
as duplicates. When the file carries an ending-balance column, the account
balance is overwritten with its last value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			acc, err := resolveAccount(app, cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.NewImportError(args[0], 0, "reading file", err)
			}

			sum, err := app.Journal.ImportCSV(string(data), acc.ID, args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(sum)
			}
			output.Success("✓ Import finished")
			output.Printf("  Imported:   %d\n", sum.Imported)
			output.Printf("  Duplicates: %d\n", sum.Duplicates)
			output.Printf("  Skipped:    %d\n", sum.SkippedRows)
			if sum.BalanceSet != nil {
				output.Printf("  Balance set to %.2f\n", *sum.BalanceSet)
			}
			return nil
		},
	}

	cmd.Flags().String("account", "", "account ID or name")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Export trades to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			acc, err := resolveAccount(app, cmd)
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return errors.Wrap(err, "creating export file")
			}
			defer f.Close()

			w := csv.NewWriter(f)
			w.Write([]string{"Timestamp", "Status", "Symbol", "Direction", "Leverage", "Entry", "StopLoss", "Size", "Exit", "PnLAmount", "PnLPercent", "Strategy", "Review"})

			count := 0
			for _, t := range app.Journal.Repo().Trades {
				if t.AccountID != acc.ID {
					continue
				}
				exit := ""
				if t.Exit != nil {
					exit = strconv.FormatFloat(*t.Exit, 'f', -1, 64)
				}
				w.Write([]string{
					t.Timestamp.Format("2006-01-02 15:04:05"),
					string(t.Status),
					t.Symbol,
					string(t.Direction),
					fmt.Sprintf("%g", t.Leverage),
					fmt.Sprintf("%g", t.Entry),
					fmt.Sprintf("%g", t.StopLoss),
					fmt.Sprintf("%g", t.PositionSize),
					exit,
					fmt.Sprintf("%g", t.PnLAmount),
					fmt.Sprintf("%g", t.PnLPercent),
					t.Strategy,
					t.Review,
				})
				count++
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return errors.Wrap(err, "writing export file")
			}

			output.Success("✓ Exported %d trades to %s", count, args[0])
			return nil
		},
	}

	cmd.Flags().String("account", "", "account ID or name")
	return cmd
}

func newBackupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file.json>",
		Short: "Back up the full journal to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			if err := backup.Export(app.Journal.Repo(), args[0]); err != nil {
				return err
			}
			output.Success("✓ Backup written to %s", args[0])
			return nil
		},
	}
}

func newRestoreCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <file.json>",
		Short: "Restore the journal from a backup file",
		Long:  "Restore replaces all trades, accounts, symbols, strategies and the language setting. Existing data is overwritten.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			snap, err := backup.Load(args[0])
			if err != nil {
				return err
			}

			if !yes {
				output.Warning("Restoring replaces ALL current data:")
				output.Printf("  Backup from %s\n", snap.ExportDate.Format("2006-01-02 15:04"))
				output.Printf("  %d trades, %d accounts\n", len(snap.Trades), len(snap.Accounts))
				output.Println("Re-run with --yes to confirm.")
				return nil
			}

			if err := backup.Restore(app.Journal.Repo(), snap); err != nil {
				return err
			}
			output.Success("✓ Journal restored from %s", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}
