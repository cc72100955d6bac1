package validator

import (
	"fmt"
	"math"

	"github.com/simaogato/fundflow-backend/internal/domain"
)

const (
	// MinTargetMOIC and MaxTargetMOIC are hard bounds; values outside are clamped
	MinTargetMOIC = 0.0
	MaxTargetMOIC = 10.0

	// LossMOIC and HighMOIC bound the plausible range; values outside only warn
	LossMOIC = 1.0
	HighMOIC = 4.0

	// DefaultTargetMOIC replaces a non-finite target
	DefaultTargetMOIC = 1.0

	MinHoldingPeriod = 1
	MaxHoldingPeriod = domain.MaxHoldingPeriod
)

// Validate sanitises the target MOIC and holding period of a scenario
// Logic:
//  1. Clamp MOIC to [MinTargetMOIC, MaxTargetMOIC] (non-finite falls back to DefaultTargetMOIC)
//  2. Warn on capital loss (< LossMOIC) or implausibly high (> HighMOIC) targets
//  3. Clamp holding period to [MinHoldingPeriod, MaxHoldingPeriod]
//  4. Warn when the holding period leaves no room after the deployment window
//
// Never fails: out-of-range input is adjusted and reported through Warnings
func Validate(targetMOIC float64, holdingPeriod int) domain.ValidationResult {
	warnings := make([]string, 0)

	moic := targetMOIC
	switch {
	case math.IsNaN(moic) || math.IsInf(moic, 0):
		moic = DefaultTargetMOIC
		warnings = append(warnings, fmt.Sprintf("target MOIC is not a finite number; using %.1fx", DefaultTargetMOIC))
	case moic < MinTargetMOIC:
		moic = MinTargetMOIC
		warnings = append(warnings, fmt.Sprintf("target MOIC %.2fx is below %.1fx; clamped to %.1fx", targetMOIC, MinTargetMOIC, MinTargetMOIC))
	case moic > MaxTargetMOIC:
		moic = MaxTargetMOIC
		warnings = append(warnings, fmt.Sprintf("target MOIC %.2fx exceeds %.1fx; clamped to %.1fx", targetMOIC, MaxTargetMOIC, MaxTargetMOIC))
	}

	if moic < LossMOIC {
		warnings = append(warnings, fmt.Sprintf("target MOIC %.2fx is below %.1fx: the scenario returns less than the capital called", moic, LossMOIC))
	} else if moic > HighMOIC {
		warnings = append(warnings, fmt.Sprintf("target MOIC %.2fx is above %.1fx and unusually high for a fund commitment", moic, HighMOIC))
	}

	period := holdingPeriod
	if period < MinHoldingPeriod {
		period = MinHoldingPeriod
		warnings = append(warnings, fmt.Sprintf("holding period of %d years is below %d; clamped to %d", holdingPeriod, MinHoldingPeriod, MinHoldingPeriod))
	} else if period > MaxHoldingPeriod {
		period = MaxHoldingPeriod
		warnings = append(warnings, fmt.Sprintf("holding period of %d years exceeds %d; clamped to %d", holdingPeriod, MaxHoldingPeriod, MaxHoldingPeriod))
	}

	if period < domain.FirstDistributionYear {
		warnings = append(warnings, fmt.Sprintf(
			"holding period of %d years does not extend past the %d-year deployment window; no distributions will be modeled",
			period, domain.DeploymentYears))
	}

	return domain.ValidationResult{
		AdjustedTargetMOIC:    moic,
		AdjustedHoldingPeriod: period,
		Warnings:              warnings,
	}
}
