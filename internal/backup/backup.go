// Package backup exports and restores the full journal state as a single
// JSON document.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"crypto-journal/internal/errors"
	"crypto-journal/internal/models"
	"crypto-journal/internal/store"
)

// Snapshot is the on-disk backup format. Field names match the journal's
// stored JSON so a backup can be inspected or hand-edited.
type Snapshot struct {
	Trades     []models.Trade    `json:"trades"`
	Accounts   []models.Account  `json:"accounts"`
	Symbols    []models.Category `json:"symbols"`
	Strategies []models.Category `json:"strategies"`
	Lang       string            `json:"lang"`
	ExportDate time.Time         `json:"exportDate"`
}

// Export writes the repository's full state to path.
func Export(repo *store.Repository, path string) error {
	snap := Snapshot{
		Trades:     repo.Trades,
		Accounts:   repo.Accounts,
		Symbols:    repo.Symbols,
		Strategies: repo.Strategies,
		Lang:       repo.Language,
		ExportDate: time.Now(),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding backup")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "writing backup file")
	}
	return nil
}

// Load reads and validates a backup file without applying it. Callers show
// the snapshot contents and ask for confirmation before Restore.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading backup file")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, "decoding backup")
	}
	if snap.Accounts == nil {
		return nil, fmt.Errorf("backup has no accounts section")
	}
	return &snap, nil
}

// Restore replaces the repository's entire state with the snapshot and
// persists every key. Existing data is overwritten wholesale.
func Restore(repo *store.Repository, snap *Snapshot) error {
	repo.Trades = snap.Trades
	repo.Accounts = snap.Accounts
	repo.Symbols = snap.Symbols
	repo.Strategies = snap.Strategies
	if snap.Lang != "" {
		repo.Language = snap.Lang
	}

	for i := range repo.Trades {
		repo.Trades[i].Normalize()
	}

	return repo.SaveAll()
}
