// Package models provides domain models for the trading journal.
package models

// Direction represents the side of a position.
type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	StatusActive TradeStatus = "Active"
	StatusClosed TradeStatus = "Closed"
)

// PositionUnit determines which PNL formula variant applies to a trade.
type PositionUnit string

const (
	// UnitMargin denominates position size in quote-currency principal.
	UnitMargin PositionUnit = "Margin"
	// UnitTokens denominates position size in base-asset quantity.
	UnitTokens PositionUnit = "Tokens"
)

// TakeProfitStatus represents whether a take-profit target has been reached.
type TakeProfitStatus string

const (
	TakeProfitPending TakeProfitStatus = "pending"
	TakeProfitHit     TakeProfitStatus = "hit"
)

// TakeProfit is a single take-profit target attached to a trade.
type TakeProfit struct {
	ID     string           `json:"id"`
	Price  float64          `json:"price"`
	Status TakeProfitStatus `json:"status"`
}

// Account is a balance ledger. CurrentBalance is the running realized total:
// InitialBalance plus the pnlAmount of every Closed trade attributed to the
// account, maintained incrementally on each trade mutation.
type Account struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	InitialBalance float64 `json:"initialBalance"`
	CurrentBalance float64 `json:"currentBalance"`
}

// Category is a simple tag used for filtering and labeling symbols and
// strategies. Name uniqueness is not enforced.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}
