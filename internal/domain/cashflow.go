package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Phase tags a cash-flow entry with the part of the fund life it belongs to
type Phase string

const (
	PhaseClose        Phase = "CLOSE"
	PhaseCall         Phase = "CALL"
	PhaseDistribution Phase = "DISTRIBUTION"
)

// PhaseForYear returns the phase a given year falls into
// Year 0 is the initial close, years 1..DeploymentYears are calls, the rest are distributions
func PhaseForYear(year int) Phase {
	switch {
	case year <= 0:
		return PhaseClose
	case year <= DeploymentYears:
		return PhaseCall
	default:
		return PhaseDistribution
	}
}

// CashFlow is a single annual entry of a commitment cash-flow schedule
// Amount is SIGNED: negative for capital calls, non-negative for distributions
type CashFlow struct {
	Year   int             `json:"year"`
	Phase  Phase           `json:"phase"`
	Amount decimal.Decimal `json:"amount"`
}

// CashFlowSequence is the ordered schedule indexed by year (index == Year)
type CashFlowSequence struct {
	Flows              []CashFlow      `json:"flows"`
	TotalCalled        decimal.Decimal `json:"total_called"`
	TotalDistributions decimal.Decimal `json:"total_distributions"`
}

// Amounts returns the signed amounts as floats, index = period
// This is the shape the IRR solver consumes
func (s CashFlowSequence) Amounts() []float64 {
	amounts := make([]float64, len(s.Flows))
	for i, flow := range s.Flows {
		amounts[i] = flow.Amount.InexactFloat64()
	}
	return amounts
}

// Calls returns the entries tagged as capital calls
func (s CashFlowSequence) Calls() []CashFlow {
	return s.byPhase(PhaseCall)
}

// Distributions returns the entries tagged as distributions
func (s CashFlowSequence) Distributions() []CashFlow {
	return s.byPhase(PhaseDistribution)
}

func (s CashFlowSequence) byPhase(phase Phase) []CashFlow {
	out := make([]CashFlow, 0)
	for _, flow := range s.Flows {
		if flow.Phase == phase {
			out = append(out, flow)
		}
	}
	return out
}

// Validate ensures the sequence adheres to domain rules
// CRITICAL: Totals must equal the sums of the phase entries exactly
func (s CashFlowSequence) Validate() error {
	if len(s.Flows) == 0 {
		return errors.New("cash flow sequence must have at least the close entry")
	}

	called := decimal.Zero
	distributed := decimal.Zero

	for i, flow := range s.Flows {
		if flow.Year != i {
			return fmt.Errorf("cash flow at index %d has year %d", i, flow.Year)
		}

		switch flow.Phase {
		case PhaseClose:
			if !flow.Amount.IsZero() {
				return errors.New("close entry must be zero")
			}
		case PhaseCall:
			if flow.Amount.IsPositive() {
				return fmt.Errorf("capital call in year %d must not be positive", flow.Year)
			}
			called = called.Add(flow.Amount.Abs())
		case PhaseDistribution:
			if flow.Amount.IsNegative() {
				return fmt.Errorf("distribution in year %d must not be negative", flow.Year)
			}
			distributed = distributed.Add(flow.Amount)
		default:
			return errors.New("cash flow phase must be CLOSE, CALL, or DISTRIBUTION")
		}

		if flow.Phase != PhaseForYear(flow.Year) {
			return fmt.Errorf("year %d is tagged %s", flow.Year, flow.Phase)
		}
	}

	if !called.Equal(s.TotalCalled) {
		return errors.New("total called must equal the sum of capital calls")
	}
	if !distributed.Equal(s.TotalDistributions) {
		return errors.New("total distributions must equal the sum of distributions")
	}

	return nil
}
