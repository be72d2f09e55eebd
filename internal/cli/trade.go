package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"crypto-journal/internal/errors"
	"crypto-journal/internal/feedback"
	"crypto-journal/internal/importer"
	"crypto-journal/internal/models"
)

func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLogCmd(app))
	rootCmd.AddCommand(newCloseCmd(app))
	rootCmd.AddCommand(newEditCmd(app))
	rootCmd.AddCommand(newReopenCmd(app))
	rootCmd.AddCommand(newDeleteCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newFeedbackCmd(app))
}

func newLogCmd(app *App) *cobra.Command {
	var (
		symbol     string
		direction  string
		leverage   float64
		entry      float64
		exit       float64
		stopLoss   float64
		takeProfit float64
		size       float64
		unit       string
		strategy   string
		review     string
		timestamp  string
		closed     bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a new trade",
		Long: `Log a new trade into the journal.

By default the trade is recorded as an open position. Pass --exit (or
--closed with --exit) to record an already-closed trade; its PNL is
computed and reconciled into the account balance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			acc, err := resolveAccount(app, cmd)
			if err != nil {
				return err
			}

			if closed && !cmd.Flags().Changed("exit") {
				return errors.NewValidationError("exit", nil, "required when --closed is set")
			}

			if leverage == 0 {
				leverage = app.Config.Trading.DefaultLeverage
			}
			if leverage < 1 {
				leverage = 1
			}
			if leverage > app.Config.Trading.MaxLeverage {
				leverage = app.Config.Trading.MaxLeverage
			}

			t := models.Trade{
				ID:           models.NewTradeID(),
				Timestamp:    time.Now(),
				Symbol:       symbol,
				Direction:    parseDirectionFlag(direction),
				Leverage:     leverage,
				Entry:        entry,
				StopLoss:     stopLoss,
				PositionSize: size,
				PositionUnit: parseUnitFlag(unit),
				Strategy:     strategy,
				Review:       review,
				AccountID:    acc.ID,
				Status:       models.StatusActive,
			}
			if takeProfit > 0 {
				t.TakeProfits = []models.TakeProfit{{Price: takeProfit, Status: models.TakeProfitPending}}
			}
			if timestamp != "" {
				t.Timestamp = importer.ParseTimestamp(timestamp)
			}

			if err := app.Journal.AddOrUpdateTrade(t); err != nil {
				return err
			}

			if closed || cmd.Flags().Changed("exit") {
				if err := app.Journal.CloseTrade(t.ID, exit, time.Now()); err != nil {
					return err
				}
			}

			saved := app.Journal.Repo().FindTrade(t.ID)
			if output.IsJSON() {
				return output.JSON(saved)
			}
			output.Success("✓ Trade logged: %s", saved.ID)
			printTradeSummary(output, saved)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "traded symbol (required)")
	cmd.Flags().StringVar(&direction, "direction", "Long", "trade direction: Long or Short")
	cmd.Flags().Float64Var(&leverage, "leverage", 0, "position leverage")
	cmd.Flags().Float64Var(&entry, "entry", 0, "entry price (required)")
	cmd.Flags().Float64Var(&exit, "exit", 0, "exit price, closes the trade")
	cmd.Flags().Float64Var(&stopLoss, "sl", 0, "stop loss price")
	cmd.Flags().Float64Var(&takeProfit, "tp", 0, "take profit price")
	cmd.Flags().Float64Var(&size, "size", 0, "position size (required)")
	cmd.Flags().StringVar(&unit, "unit", "margin", "position size unit: margin or tokens")
	cmd.Flags().StringVar(&strategy, "strategy", "", "strategy name")
	cmd.Flags().StringVar(&review, "review", "", "review notes")
	cmd.Flags().StringVar(&timestamp, "time", "", "entry timestamp (default: now)")
	cmd.Flags().BoolVar(&closed, "closed", false, "record as already closed")
	cmd.Flags().String("account", "", "account ID or name")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("size")

	return cmd
}

func newCloseCmd(app *App) *cobra.Command {
	var (
		exit float64
		at   string
	)

	cmd := &cobra.Command{
		Use:   "close <trade-id>",
		Short: "Close an open trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			closedAt := time.Now()
			if at != "" {
				closedAt = importer.ParseTimestamp(at)
			}

			if err := app.Journal.CloseTrade(args[0], exit, closedAt); err != nil {
				return err
			}

			t := app.Journal.Repo().FindTrade(args[0])
			if output.IsJSON() {
				return output.JSON(t)
			}
			output.Success("✓ Trade closed: %s", t.ID)
			output.Printf("  PNL: %s (%s)\n", output.FormatPnL(t.PnLAmount), output.FormatPercent(t.PnLPercent))
			return nil
		},
	}

	cmd.Flags().Float64Var(&exit, "exit", 0, "exit price (required)")
	cmd.Flags().StringVar(&at, "at", "", "close timestamp (default: now)")
	cmd.MarkFlagRequired("exit")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var (
		stopLoss float64
		strategy string
		review   string
		snapshot string
	)

	cmd := &cobra.Command{
		Use:   "edit <trade-id>",
		Short: "Edit a trade's notes and levels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			existing := app.Journal.Repo().FindTrade(args[0])
			if existing == nil {
				return errors.Wrapf(errors.ErrTradeNotFound, "trade %q", args[0])
			}

			updated := *existing
			if cmd.Flags().Changed("sl") {
				updated.StopLoss = stopLoss
			}
			if cmd.Flags().Changed("strategy") {
				updated.Strategy = strategy
			}
			if cmd.Flags().Changed("review") {
				updated.Review = review
			}
			if snapshot != "" {
				updated.Snapshots = append(updated.Snapshots, snapshot)
			}

			if err := app.Journal.AddOrUpdateTrade(updated); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(app.Journal.Repo().FindTrade(args[0]))
			}
			output.Success("✓ Trade updated: %s", args[0])
			return nil
		},
	}

	cmd.Flags().Float64Var(&stopLoss, "sl", 0, "stop loss price")
	cmd.Flags().StringVar(&strategy, "strategy", "", "strategy name")
	cmd.Flags().StringVar(&review, "review", "", "review notes")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "add a chart snapshot URL")
	return cmd
}

func newReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <trade-id>",
		Short: "Reopen a closed trade",
		Long:  "Reopen a closed trade, backing its realized result out of the account balance.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			if err := app.Journal.ReopenTrade(args[0]); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(app.Journal.Repo().FindTrade(args[0]))
			}
			output.Success("✓ Trade reopened: %s", args[0])
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			if !yes {
				output.Warning("This permanently deletes trade %s and reverses its balance effect.", args[0])
				output.Println("Re-run with --yes to confirm.")
				return nil
			}

			if err := app.Journal.DeleteTrade(args[0]); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": args[0]})
			}
			output.Success("✓ Trade deleted: %s", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var (
		status string
		symbol string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show trade history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			acc, err := resolveAccount(app, cmd)
			if err != nil {
				return err
			}

			var trades []models.Trade
			for _, t := range app.Journal.Repo().Trades {
				if t.AccountID != acc.ID {
					continue
				}
				if status != "" && !strings.EqualFold(string(t.Status), status) {
					continue
				}
				if symbol != "" && !strings.EqualFold(t.Symbol, symbol) {
					continue
				}
				trades = append(trades, t)
				if limit > 0 && len(trades) >= limit {
					break
				}
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Dim("No trades found.")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Symbol", "Dir", "Lev", "Entry", "Status", "Duration", "PNL")
			for _, t := range trades {
				pnl := output.DimText("-")
				if t.IsClosed() {
					pnl = output.FormatPnL(t.PnLAmount)
				}
				table.AddRow(
					t.ID,
					t.Timestamp.Format("2006-01-02 15:04"),
					t.Symbol,
					string(t.Direction),
					fmt.Sprintf("%.0fx", t.Leverage),
					fmt.Sprintf("%.4g", t.Entry),
					string(t.Status),
					models.FormatDuration(t.Duration()),
					pnl,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status: Active or Closed")
	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to show")
	cmd.Flags().String("account", "", "account ID or name")
	return cmd
}

func newFeedbackCmd(app *App) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "feedback <trade-id>",
		Short: "Get AI feedback on a closed trade",
		Long: `Fetch psychological feedback on a closed trade from the AI coach.

Feedback is fetched at most once per trade; a cached review is returned
without calling the service again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			if app.Coach == nil {
				output.Warning("No OpenAI API key configured; set OPENAI_API_KEY or credentials.toml.")
				return errors.ErrConfigInvalid
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			text, err := app.Journal.Feedback(ctx, app.Coach, args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"tradeId": args[0], "feedback": text})
			}
			if text == feedback.Fallback {
				output.Warning(text)
			} else {
				output.Bold("AI Feedback")
				output.Println(text)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "feedback request timeout")
	return cmd
}

func parseDirectionFlag(s string) models.Direction {
	if strings.EqualFold(s, "short") {
		return models.Short
	}
	return models.Long
}

func parseUnitFlag(s string) models.PositionUnit {
	if strings.EqualFold(s, "tokens") {
		return models.UnitTokens
	}
	return models.UnitMargin
}

func printTradeSummary(output *Output, t *models.Trade) {
	output.Printf("  %s %s %.0fx @ %.4g\n", t.Symbol, t.Direction, t.Leverage, t.Entry)
	if t.IsClosed() {
		output.Printf("  PNL: %s (%s)\n", output.FormatPnL(t.PnLAmount), output.FormatPercent(t.PnLPercent))
	}
}
