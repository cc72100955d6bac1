package domain

import (
	"github.com/shopspring/decimal"
)

const (
	// DeploymentYears is the length of the capital call window (years 1..4)
	DeploymentYears = 4

	// FirstDistributionYear is the first year that can receive a distribution
	FirstDistributionYear = DeploymentYears + 1

	// MaxHoldingPeriod is the longest horizon a schedule is ever built for
	MaxHoldingPeriod = 30
)

// ScenarioParameters represents the three inputs of a commitment scenario
// Commitment is in currency units, TargetMOIC is a multiple, HoldingPeriod is in years
type ScenarioParameters struct {
	Commitment    decimal.Decimal `json:"commitment"`
	TargetMOIC    decimal.Decimal `json:"target_moic"`
	HoldingPeriod int             `json:"holding_period"`
}

// ValidationResult is the outcome of sanitising the scenario inputs
// Warnings are advisory and ordered: MOIC warnings first, then holding period warnings
type ValidationResult struct {
	AdjustedTargetMOIC    float64  `json:"adjusted_target_moic"`
	AdjustedHoldingPeriod int      `json:"adjusted_holding_period"`
	Warnings              []string `json:"warnings"`
}

// HasWarnings reports whether the validator produced any advisory message
func (v ValidationResult) HasWarnings() bool {
	return len(v.Warnings) > 0
}
