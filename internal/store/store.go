// Package store provides data persistence for the journal. Persistence is a
// string-keyed JSON key-value contract: collections are loaded wholesale at
// startup and written back wholesale on every mutation, last writer wins.
// There are no partial updates and no transactions; a single-writer event
// loop owns the in-memory state.
package store

// Storage keys for the five logical collections.
const (
	KeyTrades     = "crypto_journal_trades_v4"
	KeyAccounts   = "crypto_journal_accounts_v4"
	KeySymbols    = "crypto_journal_symbols_v4"
	KeyStrategies = "crypto_journal_strategies_v4"
	KeyLanguage   = "crypto_journal_lang"
)

// KV is the persistence collaborator: get/set of JSON-serialized values by
// string key. Get returns ok=false when the key has never been written.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}
