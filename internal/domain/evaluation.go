package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Evaluation is the full result of running one scenario through the model
// Ratio fields are N/A (Valid == false) when their denominator is zero or the IRR has no root
type Evaluation struct {
	ID                uuid.UUID           `json:"id"`
	Parameters        ScenarioParameters  `json:"parameters"`
	Validation        ValidationResult    `json:"validation"`
	CashFlows         CashFlowSequence    `json:"cash_flows"`
	Profit            decimal.Decimal     `json:"profit"`
	ActualMOIC        decimal.NullDecimal `json:"actual_moic"`
	DeploymentPercent decimal.NullDecimal `json:"deployment_percent"`
	IRRPercent        decimal.NullDecimal `json:"irr_percent"`
}
