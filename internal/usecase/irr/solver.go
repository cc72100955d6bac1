package irr

import (
	"math"
)

const (
	// LowerBound and UpperBound bracket the search for the periodic rate
	LowerBound = -0.99
	UpperBound = 10.0

	// Tolerance is the half-width of the bracket at which bisection stops
	Tolerance     = 1e-10
	MaxIterations = 200
)

// NPV returns the net present value of cashFlows at rate
// cashFlows[i] is discounted over i periods; index 0 is undiscounted whatever its value
func NPV(rate float64, cashFlows []float64) float64 {
	npv := 0.0
	discount := 1.0
	for _, cf := range cashFlows {
		npv += cf / discount
		discount *= 1.0 + rate
	}
	return npv
}

// Solve finds the internal rate of return of cashFlows by bisection
// Returns the rate as a PERCENTAGE (rate * 100) and true on success
// Returns NaN and false when NPV does not change sign across [LowerBound, UpperBound]:
// all-negative, all-non-negative and all-zero sequences have no IRR
//
// Terminates after at most MaxIterations halvings
func Solve(cashFlows []float64) (float64, bool) {
	lo, hi := LowerBound, UpperBound
	npvLo := NPV(lo, cashFlows)
	npvHi := NPV(hi, cashFlows)

	if math.IsNaN(npvLo) || math.IsNaN(npvHi) {
		return math.NaN(), false
	}
	if npvLo == 0 || npvHi == 0 || (npvLo > 0) == (npvHi > 0) {
		return math.NaN(), false
	}

	for i := 0; i < MaxIterations; i++ {
		mid := lo + (hi-lo)/2
		npvMid := NPV(mid, cashFlows)

		if npvMid == 0 || (hi-lo)/2 < Tolerance {
			return mid * 100, true
		}

		if (npvMid > 0) == (npvLo > 0) {
			lo, npvLo = mid, npvMid
		} else {
			hi = mid
		}
	}

	return (lo + (hi-lo)/2) * 100, true
}
