// Package calc provides the pure trade arithmetic: PNL computation and
// risk-based position sizing. Every function is side-effect free and cheap
// enough to re-run on each input change.
package calc

import "crypto-journal/internal/models"

// PnL is the result of a profit-and-loss computation.
type PnL struct {
	Percent float64
	Amount  float64
}

// ComputePnL computes the percentage and absolute return of a position.
//
// For Margin-denominated sizes the percent is the leveraged price move and the
// amount is that percent applied to the principal. For Tokens-denominated
// sizes the amount is the raw price delta times the quantity and the percent
// is measured against the estimated margin (positionSize*entry/leverage).
//
// The second return value is false when the inputs cannot produce a defined
// result (non-positive entry, leverage, or size); callers hide the preview
// rather than treat this as an error.
func ComputePnL(entry, exit float64, direction models.Direction, leverage, positionSize float64, unit models.PositionUnit) (PnL, bool) {
	if entry <= 0 || leverage <= 0 || positionSize <= 0 {
		return PnL{}, false
	}

	diff := exit - entry
	if direction == models.Short {
		diff = entry - exit
	}

	if unit == models.UnitTokens {
		amt := diff * positionSize
		estimatedMargin := (positionSize * entry) / leverage
		return PnL{
			Percent: (amt / estimatedMargin) * 100,
			Amount:  amt,
		}, true
	}

	pct := (diff / entry) * leverage * 100
	return PnL{
		Percent: pct,
		Amount:  positionSize * (pct / 100),
	}, true
}
