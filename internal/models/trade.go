package models

import (
	"fmt"
	"strings"
	"time"
)

// Trade represents one logged position. PnLPercent and PnLAmount are snapshot
// values computed when the trade closes (or its exit is edited); they are not
// live-derived and are meaningful only when Status is Closed.
type Trade struct {
	ID             string       `json:"id"`
	Timestamp      time.Time    `json:"timestamp"`
	CloseTimestamp *time.Time   `json:"closeTimestamp,omitempty"`
	Symbol         string       `json:"symbol"`
	Direction      Direction    `json:"direction"`
	Leverage       float64      `json:"leverage"`
	Entry          float64      `json:"entry"`
	Exit           *float64     `json:"exit,omitempty"`
	StopLoss       float64      `json:"sl"`
	TakeProfit     *float64     `json:"tp,omitempty"` // legacy single target, folded into TakeProfits on read
	TakeProfits    []TakeProfit `json:"tps"`
	PnLPercent     float64      `json:"pnlPercentage"`
	PnLAmount      float64      `json:"pnlAmount"`
	Review         string       `json:"review"`
	Snapshot       string       `json:"snapshot,omitempty"` // legacy single image, folded into Snapshots on read
	Snapshots      []string     `json:"snapshots"`
	Strategy       string       `json:"strategy"`
	AccountID      string       `json:"accountId"`
	PositionSize   float64      `json:"positionSize"`
	PositionUnit   PositionUnit `json:"positionUnit"`
	Status         TradeStatus  `json:"status"`
	AIFeedback     string       `json:"aiFeedback,omitempty"`
}

// NewTradeID generates a client-side unique trade identifier.
func NewTradeID() string {
	return fmt.Sprintf("TRD-%d", time.Now().UnixNano())
}

// IsClosed reports whether the trade is in the Closed state.
func (t *Trade) IsClosed() bool {
	return t.Status == StatusClosed
}

// Normalize folds legacy field shapes into the canonical schema and repairs
// derived fields. Historical exports carried a single tp/snapshot value and
// sometimes omitted status; normalized trades never write the legacy fields
// forward.
func (t *Trade) Normalize() {
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))

	if t.Direction != Short {
		t.Direction = Long
	}
	if t.PositionUnit != UnitTokens {
		t.PositionUnit = UnitMargin
	}

	if t.TakeProfit != nil {
		t.TakeProfits = append(t.TakeProfits, TakeProfit{
			ID:     fmt.Sprintf("TP-%d", time.Now().UnixNano()),
			Price:  *t.TakeProfit,
			Status: TakeProfitPending,
		})
		t.TakeProfit = nil
	}
	if t.TakeProfits == nil {
		t.TakeProfits = []TakeProfit{}
	}

	if t.Snapshot != "" {
		t.Snapshots = append(t.Snapshots, t.Snapshot)
		t.Snapshot = ""
	}
	if t.Snapshots == nil {
		t.Snapshots = []string{}
	}

	// Exit is present iff the trade is Closed.
	if t.Exit != nil {
		t.Status = StatusClosed
	} else {
		t.Status = StatusActive
		t.PnLPercent = 0
		t.PnLAmount = 0
		t.CloseTimestamp = nil
	}
}

// Duration returns the holding time between open and close, or zero for an
// Active trade.
func (t *Trade) Duration() time.Duration {
	if t.CloseTimestamp == nil {
		return 0
	}
	return t.CloseTimestamp.Sub(t.Timestamp)
}

// FormatDuration renders a holding duration the way the history view shows it:
// "2d 5h", "3h 12m" or "45m".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "---"
	}
	minutes := int(d.Minutes())
	hours := minutes / 60
	days := hours / 24
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
