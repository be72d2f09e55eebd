// Package stats derives performance views from the journal: summary numbers,
// the equity curve, and per-symbol breakdowns.
package stats

import (
	"sort"
	"time"

	"crypto-journal/internal/models"
)

// Range filters trades by their open timestamp. Zero bounds are open-ended.
type Range struct {
	From time.Time
	To   time.Time
}

// QuickRange returns a Range covering the last n days up to now. n <= 0 means
// all time.
func QuickRange(n int) Range {
	if n <= 0 {
		return Range{}
	}
	return Range{From: time.Now().AddDate(0, 0, -n)}
}

// Contains reports whether ts falls inside the range.
func (r Range) Contains(ts time.Time) bool {
	if !r.From.IsZero() && ts.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && ts.After(r.To) {
		return false
	}
	return true
}

// Summary holds aggregate performance numbers for a set of closed trades.
type Summary struct {
	TotalTrades int
	Wins        int
	Losses      int
	Breakeven   int
	WinRate     float64 // percent
	TotalPnL    float64
	BestPnL     float64
	WorstPnL    float64
	AvgPnL      float64
}

// Point is one step of the equity curve.
type Point struct {
	Timestamp time.Time
	Balance   float64
}

// closedInRange returns the account's closed trades whose timestamps fall in
// the range, sorted oldest first.
func closedInRange(trades []models.Trade, accountID string, r Range) []models.Trade {
	var out []models.Trade
	for i := range trades {
		t := trades[i]
		if t.AccountID != accountID || !t.IsClosed() {
			continue
		}
		if !r.Contains(t.Timestamp) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// Summarize computes aggregate numbers over the account's closed trades in
// the range.
func Summarize(trades []models.Trade, accountID string, r Range) Summary {
	closed := closedInRange(trades, accountID, r)

	var s Summary
	s.TotalTrades = len(closed)
	for i, t := range closed {
		s.TotalPnL += t.PnLAmount
		switch {
		case t.PnLAmount > 0:
			s.Wins++
		case t.PnLAmount < 0:
			s.Losses++
		default:
			s.Breakeven++
		}
		if i == 0 || t.PnLAmount > s.BestPnL {
			s.BestPnL = t.PnLAmount
		}
		if i == 0 || t.PnLAmount < s.WorstPnL {
			s.WorstPnL = t.PnLAmount
		}
	}
	if s.TotalTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalTrades) * 100
		s.AvgPnL = s.TotalPnL / float64(s.TotalTrades)
	}
	return s
}

// EquityCurve builds the balance-over-time series for an account. The curve
// starts from the initial balance plus the realized results of closed trades
// that predate the range, then steps once per closed trade in timestamp
// order. A single-point curve is duplicated so it still draws as a line.
func EquityCurve(acc models.Account, trades []models.Trade, r Range) []Point {
	baseline := acc.InitialBalance
	if !r.From.IsZero() {
		for i := range trades {
			t := &trades[i]
			if t.AccountID == acc.ID && t.IsClosed() && t.Timestamp.Before(r.From) {
				baseline += t.PnLAmount
			}
		}
	}

	closed := closedInRange(trades, acc.ID, r)

	start := r.From
	if start.IsZero() {
		if len(closed) > 0 {
			start = closed[0].Timestamp.Add(-time.Second)
		} else {
			start = time.Now()
		}
	}

	points := []Point{{Timestamp: start, Balance: baseline}}
	balance := baseline
	for _, t := range closed {
		balance += t.PnLAmount
		points = append(points, Point{Timestamp: t.Timestamp, Balance: balance})
	}

	if len(points) == 1 {
		points = append(points, points[0])
	}
	return points
}

// SymbolStat aggregates closed-trade results for one symbol.
type SymbolStat struct {
	Symbol   string
	Trades   int
	Wins     int
	TotalPnL float64
}

// BySymbol groups the account's closed trades in the range by symbol, sorted
// by total PNL descending.
func BySymbol(trades []models.Trade, accountID string, r Range) []SymbolStat {
	closed := closedInRange(trades, accountID, r)

	agg := make(map[string]*SymbolStat)
	for _, t := range closed {
		st, ok := agg[t.Symbol]
		if !ok {
			st = &SymbolStat{Symbol: t.Symbol}
			agg[t.Symbol] = st
		}
		st.Trades++
		if t.PnLAmount > 0 {
			st.Wins++
		}
		st.TotalPnL += t.PnLAmount
	}

	out := make([]SymbolStat, 0, len(agg))
	for _, st := range agg {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TotalPnL > out[j].TotalPnL
	})
	return out
}
