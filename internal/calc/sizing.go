package calc

import "math"

// Sizing is a risk-based position size suggestion. SuggestedMargin is the
// principal such that a full stop-loss hit at the given leverage loses exactly
// RiskAmount.
type Sizing struct {
	RiskAmount        float64
	StopLossPct       float64 // leveraged loss percent at the stop, relative to margin
	SuggestedMargin   float64
	SuggestedPosValue float64
	SuggestedLeverage float64
}

// SuggestSize computes the margin and position value that risk exactly
// riskPercent of the account balance if price reaches the stop-loss.
//
// Returns false when the suggestion is undefined: entry or leverage not
// positive, or the stop-loss sitting on the entry price (zero stop distance
// would divide by zero).
func SuggestSize(entry, stopLoss, leverage, accountBalance, riskPercent float64) (Sizing, bool) {
	if entry <= 0 || leverage <= 0 {
		return Sizing{}, false
	}

	slDist := math.Abs(entry-stopLoss) / entry
	if slDist == 0 {
		return Sizing{}, false
	}

	riskAmount := accountBalance * (riskPercent / 100)
	margin := riskAmount / (slDist * leverage)
	posValue := margin * leverage

	s := Sizing{
		RiskAmount:        riskAmount,
		StopLossPct:       slDist * leverage * 100,
		SuggestedMargin:   margin,
		SuggestedPosValue: posValue,
	}
	if accountBalance > 0 {
		s.SuggestedLeverage = posValue / accountBalance
	}
	return s, true
}
