package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"crypto-journal/internal/importer"
	"crypto-journal/internal/stats"
)

func addStatsCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatsCmd(app))
	rootCmd.AddCommand(newEquityCmd(app))
}

func statsRange(cmd *cobra.Command) stats.Range {
	days, _ := cmd.Flags().GetInt("days")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	r := stats.QuickRange(days)
	if from != "" {
		r.From = importer.ParseTimestamp(from)
	}
	if to != "" {
		r.To = importer.ParseTimestamp(to)
	}
	return r
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("days", 0, "limit to the last N days")
	cmd.Flags().String("from", "", "start date")
	cmd.Flags().String("to", "", "end date")
	cmd.Flags().String("account", "", "account ID or name")
}

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show performance statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			acc, err := resolveAccount(app, cmd)
			if err != nil {
				return err
			}

			r := statsRange(cmd)
			repo := app.Journal.Repo()
			summary := stats.Summarize(repo.Trades, acc.ID, r)
			bySymbol := stats.BySymbol(repo.Trades, acc.ID, r)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"account":  acc,
					"summary":  summary,
					"bySymbol": bySymbol,
				})
			}

			output.Bold("Account: %s", acc.Name)
			output.Printf("  Balance:     %.2f (initial %.2f)\n", acc.CurrentBalance, acc.InitialBalance)
			output.Println()

			output.Bold("Performance")
			output.Printf("  Closed Trades: %d\n", summary.TotalTrades)
			output.Printf("  Win Rate:      %.1f%% (%dW / %dL / %dBE)\n", summary.WinRate, summary.Wins, summary.Losses, summary.Breakeven)
			output.Printf("  Total PNL:     %s\n", output.FormatPnL(summary.TotalPnL))
			output.Printf("  Average PNL:   %s\n", output.FormatPnL(summary.AvgPnL))
			output.Printf("  Best / Worst:  %s / %s\n", output.FormatPnL(summary.BestPnL), output.FormatPnL(summary.WorstPnL))

			if len(bySymbol) > 0 {
				output.Println()
				output.Bold("By Symbol")
				table := NewTable(output, "Symbol", "Trades", "Wins", "Total PNL")
				for _, s := range bySymbol {
					table.AddRow(s.Symbol, fmt.Sprintf("%d", s.Trades), fmt.Sprintf("%d", s.Wins), output.FormatPnL(s.TotalPnL))
				}
				table.Render()
			}
			return nil
		},
	}

	addRangeFlags(cmd)
	return cmd
}

func newEquityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equity",
		Short: "Show the equity curve",
		Long:  "Show balance over time, stepping once per closed trade.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			acc, err := resolveAccount(app, cmd)
			if err != nil {
				return err
			}

			points := stats.EquityCurve(*acc, app.Journal.Repo().Trades, statsRange(cmd))
			if output.IsJSON() {
				return output.JSON(points)
			}

			table := NewTable(output, "Date", "Balance")
			for _, p := range points {
				table.AddRow(p.Timestamp.Format("2006-01-02 15:04"), fmt.Sprintf("%.2f", p.Balance))
			}
			table.Render()
			return nil
		},
	}

	addRangeFlags(cmd)
	return cmd
}
