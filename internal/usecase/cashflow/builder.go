package cashflow

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/fundflow-backend/internal/domain"
)

// centPlaces is the precision every allocated share is rounded to
const centPlaces = 2

// callPacing is the share (in percent) of the commitment called in each deployment year
// Front-loaded: most capital is drawn early in the investment period
var callPacing = []decimal.Decimal{
	decimal.NewFromInt(35),
	decimal.NewFromInt(30),
	decimal.NewFromInt(20),
	decimal.NewFromInt(15),
}

// Build synthesises the year-by-year cash flows of a fund commitment
// Logic:
//  1. Year 0 (initial close) is always zero
//  2. Years 1..min(4, HoldingPeriod) receive capital calls following callPacing,
//     renormalised when the holding period is shorter than the deployment window.
//     The full commitment is called.
//  3. Years 5..HoldingPeriod receive distributions on a linear back-loaded ramp
//     (weights 1, 2, ..., n) summing to Commitment * TargetMOIC
//  4. A holding period of 4 years or less has no distribution years: TotalDistributions is zero
//  5. The holding period is capped at domain.MaxHoldingPeriod
//
// Degenerate input (Commitment <= 0) yields an all-zero schedule
// Safety: each phase sums exactly to its total (the last year absorbs rounding)
func Build(params domain.ScenarioParameters) domain.CashFlowSequence {
	period := min(max(params.HoldingPeriod, 0), domain.MaxHoldingPeriod)

	flows := make([]domain.CashFlow, period+1)
	for year := range flows {
		flows[year] = domain.CashFlow{
			Year:   year,
			Phase:  domain.PhaseForYear(year),
			Amount: decimal.Zero,
		}
	}

	seq := domain.CashFlowSequence{
		Flows:              flows,
		TotalCalled:        decimal.Zero,
		TotalDistributions: decimal.Zero,
	}

	if !params.Commitment.IsPositive() || period == 0 {
		return seq
	}

	// Step 1: Capital calls (outflows)
	callYears := min(domain.DeploymentYears, period)
	calls := allocate(params.Commitment, callPacing[:callYears])
	for i, amount := range calls {
		flows[i+1].Amount = amount.Neg()
		seq.TotalCalled = seq.TotalCalled.Add(amount)
	}

	if period < domain.FirstDistributionYear {
		return seq
	}

	// Step 2: Distributions (inflows)
	moic := params.TargetMOIC
	if moic.IsNegative() {
		moic = decimal.Zero
	}
	target := params.Commitment.Mul(moic)

	distributionYears := period - domain.DeploymentYears
	ramp := make([]decimal.Decimal, distributionYears)
	for k := range ramp {
		ramp[k] = decimal.NewFromInt(int64(k + 1))
	}

	distributions := allocate(target, ramp)
	for i, amount := range distributions {
		flows[domain.FirstDistributionYear+i].Amount = amount
		seq.TotalDistributions = seq.TotalDistributions.Add(amount)
	}

	return seq
}

// allocate splits total across weights proportionally, rounded to cents
// The last share takes whatever is left so that the shares sum to total exactly (no penny lost)
func allocate(total decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(weights))
	if len(weights) == 0 {
		return shares
	}

	weightSum := decimal.Zero
	for _, w := range weights {
		weightSum = weightSum.Add(w)
	}

	allocated := decimal.Zero
	last := len(weights) - 1
	for i, w := range weights[:last] {
		share := total.Mul(w).Div(weightSum).Round(centPlaces)
		share = decimal.Min(share, total.Sub(allocated))
		shares[i] = share
		allocated = allocated.Add(share)
	}
	shares[last] = total.Sub(allocated)

	return shares
}
