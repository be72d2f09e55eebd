package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"crypto-journal/internal/models"
	"crypto-journal/internal/store"
)

func newRepo() *store.Repository {
	return store.NewRepository(store.NewMemoryKV(), zerolog.Nop())
}

func TestExportRestoreRoundTrip(t *testing.T) {
	src := newRepo()
	exit := 110.0
	src.Trades = []models.Trade{{
		ID:        "t1",
		Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Symbol:    "BTC",
		Exit:      &exit,
		Status:    models.StatusClosed,
		PnLAmount: 500,
		AccountID: "default",
	}}
	src.Accounts[0].CurrentBalance = 1500
	src.Language = "zh"

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := Export(src, path); err != nil {
		t.Fatal(err)
	}

	snap, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if snap.ExportDate.IsZero() {
		t.Error("export date missing")
	}

	dst := newRepo()
	if err := Restore(dst, snap); err != nil {
		t.Fatal(err)
	}

	if len(dst.Trades) != 1 || dst.Trades[0].ID != "t1" {
		t.Errorf("trades = %+v", dst.Trades)
	}
	if dst.Accounts[0].CurrentBalance != 1500 {
		t.Errorf("balance = %v", dst.Accounts[0].CurrentBalance)
	}
	if dst.Language != "zh" {
		t.Errorf("language = %q", dst.Language)
	}
}

func TestRestorePersistsEveryKey(t *testing.T) {
	src := newRepo()
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := Export(src, path); err != nil {
		t.Fatal(err)
	}
	snap, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	kv := store.NewMemoryKV()
	dst := store.NewRepository(kv, zerolog.Nop())
	if err := Restore(dst, snap); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{store.KeyTrades, store.KeyAccounts, store.KeySymbols, store.KeyStrategies, store.KeyLanguage} {
		if _, ok, _ := kv.Get(key); !ok {
			t.Errorf("key %q not written", key)
		}
	}
}

func TestLoadRejectsInvalidBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")

	os.WriteFile(path, []byte("{not json"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for corrupt JSON")
	}

	os.WriteFile(path, []byte(`{"trades":[]}`), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error when accounts section missing")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
