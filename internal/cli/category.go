package cli

import (
	"github.com/spf13/cobra"

	"crypto-journal/internal/models"
)

func addCategoryCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCategoryCmd(app, "symbol", "Manage traded symbols",
		func() []models.Category { return app.Journal.Repo().Symbols },
		app.Journal.AddSymbol))
	rootCmd.AddCommand(newCategoryCmd(app, "strategy", "Manage strategies",
		func() []models.Category { return app.Journal.Repo().Strategies },
		app.Journal.AddStrategy))
	rootCmd.AddCommand(newLangCmd(app))
}

func newCategoryCmd(app *App, use, short string, list func() []models.Category, add func(string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List " + use + " entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			entries := list()
			if output.IsJSON() {
				return output.JSON(entries)
			}
			for _, c := range entries {
				output.Printf("  %s  %s\n", output.DimText(c.ID), c.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a " + use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			if err := add(args[0]); err != nil {
				return err
			}
			output.Success("✓ Added %s: %s", use, args[0])
			return nil
		},
	})

	return cmd
}

func newLangCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lang [code]",
		Short: "Show or set the journal language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJournal(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			if len(args) == 0 {
				if output.IsJSON() {
					return output.JSON(map[string]string{"lang": app.Journal.Repo().Language})
				}
				output.Println(app.Journal.Repo().Language)
				return nil
			}

			if err := app.Journal.SetLanguage(args[0]); err != nil {
				return err
			}
			output.Success("✓ Language set to %s", args[0])
			return nil
		},
	}
}
