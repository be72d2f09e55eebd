package cli

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"crypto-journal/internal/config"
	"crypto-journal/internal/journal"
	"crypto-journal/internal/models"
	"crypto-journal/internal/store"
)

func newTestApp() *App {
	repo := store.NewRepository(store.NewMemoryKV(), zerolog.Nop())
	return &App{
		Config: &config.Config{
			Trading: config.TradingConfig{
				MaxLeverage:        150,
				DefaultLeverage:    20,
				DefaultRiskPercent: 1,
			},
		},
		Logger:  zerolog.Nop(),
		Journal: journal.NewService(repo, zerolog.Nop()),
	}
}

func TestLogClosedRequiresExit(t *testing.T) {
	app := newTestApp()

	cmd := newLogCmd(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--symbol", "BTC", "--entry", "100", "--size", "500", "--closed"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for --closed without --exit")
	}
	if got := len(app.Journal.Repo().Trades); got != 0 {
		t.Errorf("trades logged = %d, want 0", got)
	}
	if acc := app.Journal.Repo().FindAccount("default"); acc.CurrentBalance != 1000 {
		t.Errorf("balance = %v, want untouched 1000", acc.CurrentBalance)
	}
}

func TestLogClosedWithExitRecordsSnapshot(t *testing.T) {
	app := newTestApp()

	cmd := newLogCmd(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--symbol", "BTC", "--direction", "Long", "--leverage", "10", "--entry", "100", "--size", "500", "--exit", "110", "--closed"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	trades := app.Journal.Repo().Trades
	if len(trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(trades))
	}
	tr := trades[0]
	if tr.Status != models.StatusClosed || tr.Exit == nil || *tr.Exit != 110 {
		t.Errorf("trade not closed at 110: %+v", tr)
	}
	if tr.PnLAmount != 500 {
		t.Errorf("pnl = %v, want 500", tr.PnLAmount)
	}
	if acc := app.Journal.Repo().FindAccount("default"); acc.CurrentBalance != 1500 {
		t.Errorf("balance = %v, want 1500", acc.CurrentBalance)
	}
}
