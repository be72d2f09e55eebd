package store

import (
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog"

	"crypto-journal/internal/models"
)

// Seed data used when a collection has never been written or its stored JSON
// is corrupt. A read failure never crashes the app; it falls back here.
var (
	seedSymbols    = []string{"BTC", "ETH", "SOL", "BNB", "DOGE", "XRP"}
	seedStrategies = []string{"Breakout", "Trend Follow", "Range Reversal", "News Scalp"}
)

func seedAccounts() []models.Account {
	return []models.Account{{
		ID:             "default",
		Name:           "Main",
		InitialBalance: 1000,
		CurrentBalance: 1000,
	}}
}

func seedCategories(names []string) []models.Category {
	cats := make([]models.Category, len(names))
	for i, n := range names {
		cats[i] = models.Category{ID: strconv.Itoa(i), Name: n}
	}
	return cats
}

// Repository holds the journal's full state in memory, mirrored to the KV
// store. Collections load wholesale at construction and are written back
// wholesale after every mutation.
type Repository struct {
	kv     KV
	logger zerolog.Logger

	Trades     []models.Trade
	Accounts   []models.Account
	Symbols    []models.Category
	Strategies []models.Category
	Language   string
}

// NewRepository loads all collections from kv, falling back to built-in seed
// data per collection on missing or corrupt JSON.
func NewRepository(kv KV, logger zerolog.Logger) *Repository {
	r := &Repository{kv: kv, logger: logger, Language: "en"}

	loadJSON(r, KeyTrades, &r.Trades, nil)
	loadJSON(r, KeyAccounts, &r.Accounts, seedAccounts)
	loadJSON(r, KeySymbols, &r.Symbols, func() []models.Category { return seedCategories(seedSymbols) })
	loadJSON(r, KeyStrategies, &r.Strategies, func() []models.Category { return seedCategories(seedStrategies) })

	if lang, ok, err := kv.Get(KeyLanguage); err == nil && ok && lang != "" {
		r.Language = lang
	}

	// Legacy trade shapes are normalized on read and never written forward.
	for i := range r.Trades {
		r.Trades[i].Normalize()
	}

	return r
}

func loadJSON[T any](r *Repository, key string, target *[]T, seed func() []T) {
	raw, ok, err := r.kv.Get(key)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Persistence read failed, using seed data")
	} else if ok {
		if err := json.Unmarshal([]byte(raw), target); err == nil {
			return
		}
		r.logger.Warn().Str("key", key).Msg("Corrupt JSON in store, using seed data")
	}
	if seed != nil {
		*target = seed()
	} else {
		*target = []T{}
	}
}

// SaveTrades writes the whole trade collection.
func (r *Repository) SaveTrades() error { return r.saveJSON(KeyTrades, r.Trades) }

// SaveAccounts writes the whole account collection.
func (r *Repository) SaveAccounts() error { return r.saveJSON(KeyAccounts, r.Accounts) }

// SaveSymbols writes the whole symbol collection.
func (r *Repository) SaveSymbols() error { return r.saveJSON(KeySymbols, r.Symbols) }

// SaveStrategies writes the whole strategy collection.
func (r *Repository) SaveStrategies() error { return r.saveJSON(KeyStrategies, r.Strategies) }

// SaveLanguage writes the language preference.
func (r *Repository) SaveLanguage() error { return r.kv.Set(KeyLanguage, r.Language) }

// SaveAll writes every collection; used by restore.
func (r *Repository) SaveAll() error {
	for _, save := range []func() error{
		r.SaveTrades, r.SaveAccounts, r.SaveSymbols, r.SaveStrategies, r.SaveLanguage,
	} {
		if err := save(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) saveJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.kv.Set(key, string(data))
}

// FindTrade returns the trade with the given id, or nil.
func (r *Repository) FindTrade(id string) *models.Trade {
	for i := range r.Trades {
		if r.Trades[i].ID == id {
			return &r.Trades[i]
		}
	}
	return nil
}

// FindAccount returns the account with the given id, or nil.
func (r *Repository) FindAccount(id string) *models.Account {
	for i := range r.Accounts {
		if r.Accounts[i].ID == id {
			return &r.Accounts[i]
		}
	}
	return nil
}
