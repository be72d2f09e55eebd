// Package ledger maintains the account balance invariant: an account's
// CurrentBalance always equals InitialBalance plus the PnLAmount of every
// Closed trade attributed to it. The balance is never re-summed from scratch
// on the hot path; instead exactly one incremental delta is applied per trade
// mutation.
package ledger

import "crypto-journal/internal/models"

// BalanceDelta returns the signed amount to add to the owning account's
// CurrentBalance for a single trade mutation. before is nil on create, after
// is nil on delete. The branches are mutually exclusive: a mutation that both
// edits a trade and changes its status yields one delta, never two.
func BalanceDelta(before, after *models.Trade) float64 {
	switch {
	case before == nil && after == nil:
		return 0
	case before == nil:
		// Created. Only a trade born Closed affects realized balance.
		if after.IsClosed() {
			return after.PnLAmount
		}
		return 0
	case after == nil:
		// Deleted. An Active trade never contributed to the balance.
		if before.IsClosed() {
			return -before.PnLAmount
		}
		return 0
	case !before.IsClosed() && after.IsClosed():
		return after.PnLAmount
	case before.IsClosed() && after.IsClosed():
		return after.PnLAmount - before.PnLAmount
	case before.IsClosed() && !after.IsClosed():
		// Reopened. Back out the previously realized result.
		return -before.PnLAmount
	default:
		// Active -> Active edit.
		return 0
	}
}

// Apply adds the delta for one trade mutation to the account.
func Apply(acc *models.Account, before, after *models.Trade) {
	acc.CurrentBalance += BalanceDelta(before, after)
}

// Overwrite sets the account balance to an absolute value. Bulk import uses
// this instead of deltas: the spreadsheet's own running-balance column is
// trusted as ground truth.
func Overwrite(acc *models.Account, balance float64) {
	acc.CurrentBalance = balance
}

// Recompute derives the balance from first principles. It exists for
// consistency checks and tests only; normal operation is incremental.
func Recompute(acc *models.Account, trades []models.Trade) float64 {
	total := acc.InitialBalance
	for i := range trades {
		t := &trades[i]
		if t.AccountID == acc.ID && t.IsClosed() {
			total += t.PnLAmount
		}
	}
	return total
}
