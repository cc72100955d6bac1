package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/fundflow-backend/internal/domain"
	"github.com/simaogato/fundflow-backend/internal/usecase/cashflow"
	"github.com/simaogato/fundflow-backend/internal/usecase/irr"
	"github.com/simaogato/fundflow-backend/internal/usecase/validator"
)

const (
	irrPlaces        = 6
	moicPlaces       = 6
	deploymentPlaces = 4
)

// EvaluateInput holds the raw scenario inputs as supplied by a caller
type EvaluateInput struct {
	Commitment    decimal.Decimal
	TargetMOIC    float64
	HoldingPeriod int
}

// ScenarioService runs scenarios through the validator, the builder and the IRR solver
type ScenarioService struct {
	Cache  domain.EvaluationCache
	logger *slog.Logger
}

// NewScenarioService creates a new ScenarioService instance
// cache may be nil, in which case every evaluation is computed
func NewScenarioService(cache domain.EvaluationCache, logger *slog.Logger) *ScenarioService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScenarioService{
		Cache: cache,
		logger: logger.With(
			"module", "scenario",
			"layer", "usecase",
		),
	}
}

// Validate sanitises the target MOIC and holding period
func (s *ScenarioService) Validate(targetMOIC float64, holdingPeriod int) domain.ValidationResult {
	return validator.Validate(targetMOIC, holdingPeriod)
}

// Build validates the input and then builds the cash-flow schedule from the adjusted values
func (s *ScenarioService) Build(input EvaluateInput) (domain.ValidationResult, domain.CashFlowSequence) {
	validation := validator.Validate(input.TargetMOIC, input.HoldingPeriod)
	return validation, cashflow.Build(adjustedParameters(input, validation))
}

// ComputeIRR solves the IRR of an arbitrary sequence
// Returns an invalid NullDecimal when the sequence has no IRR in the search bracket
func (s *ScenarioService) ComputeIRR(cashFlows []float64) decimal.NullDecimal {
	pct, ok := irr.Solve(cashFlows)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(pct).Round(irrPlaces))
}

// Evaluate runs a full scenario and derives its performance metrics
// Logic:
//  1. Validate (clamp and warn) the target MOIC and holding period
//  2. Serve from cache when an identical scenario was already evaluated
//  3. Build the schedule, solve its IRR, derive profit, actual MOIC and deployment %
//
// Ratios with a zero denominator are reported as N/A rather than failing
// Cache errors are logged and never fail the evaluation
func (s *ScenarioService) Evaluate(ctx context.Context, input EvaluateInput) (*domain.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	validation := validator.Validate(input.TargetMOIC, input.HoldingPeriod)
	params := adjustedParameters(input, validation)
	key := cacheKey(params)

	if cached := s.fromCache(ctx, key); cached != nil {
		// warnings depend on the raw input, which the key does not capture
		cached.ID = uuid.New()
		cached.Parameters = params
		cached.Validation = validation
		s.logger.InfoContext(ctx, "scenario evaluated",
			"operation", "evaluate_scenario",
			"outcome", "success",
			"cache", "hit",
			"evaluation_id", cached.ID.String(),
		)
		return cached, nil
	}

	seq := cashflow.Build(params)

	evaluation := &domain.Evaluation{
		ID:                uuid.New(),
		Parameters:        params,
		Validation:        validation,
		CashFlows:         seq,
		Profit:            seq.TotalDistributions.Sub(seq.TotalCalled),
		ActualMOIC:        actualMOIC(seq),
		DeploymentPercent: deploymentPercent(seq, params.Commitment),
		IRRPercent:        s.ComputeIRR(seq.Amounts()),
	}

	if s.Cache != nil {
		stored := *evaluation
		stored.Validation = domain.ValidationResult{}
		if err := s.Cache.Set(ctx, key, &stored); err != nil {
			s.logger.WarnContext(ctx, "failed to cache evaluation",
				"operation", "cache_set",
				"outcome", "failure",
				"key", key,
				"error", err.Error(),
			)
		}
	}

	s.logger.InfoContext(ctx, "scenario evaluated",
		"operation", "evaluate_scenario",
		"outcome", "success",
		"cache", "miss",
		"evaluation_id", evaluation.ID.String(),
		"holding_period", params.HoldingPeriod,
		"warnings", len(validation.Warnings),
		"irr_defined", evaluation.IRRPercent.Valid,
	)

	return evaluation, nil
}

func (s *ScenarioService) fromCache(ctx context.Context, key string) *domain.Evaluation {
	if s.Cache == nil {
		return nil
	}

	cached, err := s.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "failed to read cached evaluation",
				"operation", "cache_get",
				"outcome", "failure",
				"key", key,
				"error", err.Error(),
			)
		}
		return nil
	}

	return cached
}

func adjustedParameters(input EvaluateInput, validation domain.ValidationResult) domain.ScenarioParameters {
	return domain.ScenarioParameters{
		Commitment:    input.Commitment,
		TargetMOIC:    decimal.NewFromFloat(validation.AdjustedTargetMOIC),
		HoldingPeriod: validation.AdjustedHoldingPeriod,
	}
}

// cacheKey identifies a scenario by its adjusted parameters
func cacheKey(params domain.ScenarioParameters) string {
	return fmt.Sprintf("fundflow:evaluation:v1:%s:%s:%d",
		params.Commitment.String(), params.TargetMOIC.String(), params.HoldingPeriod)
}

func actualMOIC(seq domain.CashFlowSequence) decimal.NullDecimal {
	if seq.TotalCalled.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(seq.TotalDistributions.DivRound(seq.TotalCalled, moicPlaces))
}

func deploymentPercent(seq domain.CashFlowSequence, commitment decimal.Decimal) decimal.NullDecimal {
	if !commitment.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(seq.TotalCalled.Mul(decimal.NewFromInt(100)).DivRound(commitment, deploymentPlaces))
}
