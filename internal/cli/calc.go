package cli

import (
	"github.com/spf13/cobra"

	"crypto-journal/internal/calc"
	"crypto-journal/internal/errors"
)

func addCalcCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPnLCmd(app))
	rootCmd.AddCommand(newSizeCmd(app))
}

func newPnLCmd(app *App) *cobra.Command {
	var (
		entry     float64
		exit      float64
		direction string
		leverage  float64
		size      float64
		unit      string
	)

	cmd := &cobra.Command{
		Use:   "pnl",
		Short: "Calculate PNL for a hypothetical close",
		Long: `Calculate the leveraged PNL of a position closed at the given exit price.

With --unit margin the size is collateral and the dollar result scales the
leveraged percentage move. With --unit tokens the size is a token quantity
and the dollar result is the raw price difference times quantity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if leverage == 0 {
				leverage = app.Config.Trading.DefaultLeverage
			}

			pnl, ok := calc.ComputePnL(entry, exit, parseDirectionFlag(direction), leverage, size, parseUnitFlag(unit))
			if !ok {
				return errors.Wrap(errors.ErrNotComputable, "pnl inputs")
			}

			if output.IsJSON() {
				return output.JSON(map[string]float64{
					"pnlPercentage": pnl.Percent,
					"pnlAmount":     pnl.Amount,
				})
			}
			output.Bold("PNL Calculation")
			output.Printf("  Return:  %s\n", output.FormatPercent(pnl.Percent))
			output.Printf("  Amount:  %s\n", output.FormatPnL(pnl.Amount))
			return nil
		},
	}

	cmd.Flags().Float64Var(&entry, "entry", 0, "entry price (required)")
	cmd.Flags().Float64Var(&exit, "exit", 0, "exit price (required)")
	cmd.Flags().StringVar(&direction, "direction", "Long", "trade direction: Long or Short")
	cmd.Flags().Float64Var(&leverage, "leverage", 0, "position leverage")
	cmd.Flags().Float64Var(&size, "size", 0, "position size (required)")
	cmd.Flags().StringVar(&unit, "unit", "margin", "position size unit: margin or tokens")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("exit")
	cmd.MarkFlagRequired("size")
	return cmd
}

func newSizeCmd(app *App) *cobra.Command {
	var (
		entry    float64
		stopLoss float64
		leverage float64
		balance  float64
		riskPct  float64
	)

	cmd := &cobra.Command{
		Use:   "size",
		Short: "Suggest position size from risk parameters",
		Long: `Suggest the margin to commit so that a stop-loss hit loses exactly the
chosen percentage of the account balance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if leverage == 0 {
				leverage = app.Config.Trading.DefaultLeverage
			}
			if riskPct == 0 {
				riskPct = app.Config.Trading.DefaultRiskPercent
			}
			if balance == 0 && app.Journal != nil {
				if acc, err := resolveAccount(app, cmd); err == nil {
					balance = acc.CurrentBalance
				}
			}

			s, ok := calc.SuggestSize(entry, stopLoss, leverage, balance, riskPct)
			if !ok {
				return errors.Wrap(errors.ErrNotComputable, "sizing inputs")
			}

			if output.IsJSON() {
				return output.JSON(s)
			}
			output.Bold("Position Sizing")
			output.Printf("  Risk Amount:        %.2f (%.1f%% of %.2f)\n", s.RiskAmount, riskPct, balance)
			output.Printf("  Stop Distance:      %s leveraged\n", output.FormatPercent(-s.StopLossPct))
			output.Printf("  Suggested Margin:   %.2f\n", s.SuggestedMargin)
			output.Printf("  Position Value:     %.2f\n", s.SuggestedPosValue)
			if s.SuggestedLeverage > 0 {
				output.Printf("  Implied Leverage:   %.2fx\n", s.SuggestedLeverage)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&entry, "entry", 0, "entry price (required)")
	cmd.Flags().Float64Var(&stopLoss, "sl", 0, "stop loss price (required)")
	cmd.Flags().Float64Var(&leverage, "leverage", 0, "position leverage")
	cmd.Flags().Float64Var(&balance, "balance", 0, "account balance (default: current account)")
	cmd.Flags().Float64Var(&riskPct, "risk", 0, "risk percent of balance")
	cmd.Flags().String("account", "", "account ID or name")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("sl")
	return cmd
}
