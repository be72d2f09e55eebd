package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"crypto-journal/internal/config"
	"crypto-journal/internal/errors"
	"crypto-journal/internal/feedback"
	"crypto-journal/internal/journal"
	"crypto-journal/internal/logging"
	"crypto-journal/internal/models"
	"crypto-journal/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-01-01"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Journal *journal.Service
	Coach   journal.Reviewer
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	kv, err := store.NewSQLiteKV(cfg.Storage.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open journal database, falling back to in-memory store")
		kv = nil
	}

	var backend store.KV
	if kv != nil {
		backend = kv
	} else {
		backend = store.NewMemoryKV()
	}

	repo := store.NewRepository(backend, logger)
	app.Journal = journal.NewService(repo, logger)

	if cfg.Credentials.OpenAI.APIKey != "" {
		app.Coach = feedback.NewCoach(cfg.Credentials.OpenAI.APIKey, cfg.Feedback.Model, logger)
		logger.Debug().Str("model", cfg.Feedback.Model).Msg("Feedback coach initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Crypto Journal - leveraged trading journal CLI",
		Long: `Crypto Journal is a trading journal for leveraged cryptocurrency positions.

It tracks trades and account balances, computes PNL and position sizing,
imports spreadsheet exports, and fetches AI feedback on closed trades.

Use 'journal help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/crypto-journal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addCalcCommands(rootCmd, app)
	addStatsCommands(rootCmd, app)
	addAccountCommands(rootCmd, app)
	addCategoryCommands(rootCmd, app)
	addDataCommands(rootCmd, app)

	return rootCmd
}

func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Crypto Journal v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Storage")
			output.Printf("  Database:        %s\n", app.Config.Storage.Path)
			output.Println()
			output.Bold("Trading")
			output.Printf("  Max Leverage:    %.0fx\n", app.Config.Trading.MaxLeverage)
			output.Printf("  Default Leverage: %.0fx\n", app.Config.Trading.DefaultLeverage)
			output.Printf("  Default Risk %%:  %.1f%%\n", app.Config.Trading.DefaultRiskPercent)
			output.Println()
			output.Bold("Feedback")
			output.Printf("  Model:           %s\n", app.Config.Feedback.Model)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

// requireJournal guards commands that need the loaded journal state.
func requireJournal(app *App) error {
	if app.Journal == nil {
		return errors.Wrap(errors.ErrStorage, "journal state unavailable")
	}
	return nil
}

// resolveAccount picks the account named by the --account flag, or the first
// account when the flag is empty.
func resolveAccount(app *App, cmd *cobra.Command) (*models.Account, error) {
	id, _ := cmd.Flags().GetString("account")
	repo := app.Journal.Repo()
	if id == "" {
		if len(repo.Accounts) == 0 {
			return nil, errors.ErrAccountNotFound
		}
		return &repo.Accounts[0], nil
	}
	if acc := repo.FindAccount(id); acc != nil {
		return acc, nil
	}
	for i := range repo.Accounts {
		if repo.Accounts[i].Name == id {
			return &repo.Accounts[i], nil
		}
	}
	return nil, errors.Wrapf(errors.ErrAccountNotFound, "account %q", id)
}
