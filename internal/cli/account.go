package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addAccountCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAccountCmd(app))
}

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage trading accounts",
	}

	cmd.AddCommand(newAccountListCmd(app))
	cmd.AddCommand(newAccountAddCmd(app))
	cmd.AddCommand(newAccountSetBalanceCmd(app))
	cmd.AddCommand(newAccountRenameCmd(app))
	cmd.AddCommand(newAccountDeleteCmd(app))
	return cmd
}

func newAccountListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)
			accounts := app.Journal.Repo().Accounts

			if output.IsJSON() {
				return output.JSON(accounts)
			}

			table := NewTable(output, "ID", "Name", "Initial", "Current", "Realized")
			for _, a := range accounts {
				table.AddRow(
					a.ID,
					a.Name,
					fmt.Sprintf("%.2f", a.InitialBalance),
					fmt.Sprintf("%.2f", a.CurrentBalance),
					output.FormatPnL(a.CurrentBalance-a.InitialBalance),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newAccountAddCmd(app *App) *cobra.Command {
	var balance float64

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			acc, err := app.Journal.AddAccount(args[0], balance)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(acc)
			}
			output.Success("✓ Account created: %s (%s)", acc.Name, acc.ID)
			return nil
		},
	}

	cmd.Flags().Float64Var(&balance, "balance", 1000, "initial balance")
	return cmd
}

func newAccountSetBalanceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-balance <account> <balance>",
		Short: "Set an account's initial balance",
		Long:  "Rewrite the initial balance; the current balance shifts by the same amount so realized results are preserved.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			var balance float64
			if _, err := fmt.Sscanf(args[1], "%f", &balance); err != nil {
				return fmt.Errorf("invalid balance %q", args[1])
			}

			if err := app.Journal.SetInitialBalance(args[0], balance); err != nil {
				return err
			}
			output.Success("✓ Initial balance updated")
			return nil
		},
	}
	return cmd
}

func newAccountRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <account> <name>",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			if err := app.Journal.RenameAccount(args[0], args[1]); err != nil {
				return err
			}
			output.Success("✓ Account renamed")
			return nil
		},
	}
}

func newAccountDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account and its trades",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			if !yes {
				output.Warning("This permanently deletes account %s and every trade in it.", args[0])
				output.Println("Re-run with --yes to confirm.")
				return nil
			}

			if err := app.Journal.DeleteAccount(args[0]); err != nil {
				return err
			}
			output.Success("✓ Account deleted: %s", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}
