package scenario

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/fundflow-backend/internal/domain"
	"github.com/simaogato/fundflow-backend/internal/usecase/validator"
)

// MockEvaluationCache is a mock implementation of EvaluationCache for testing
type MockEvaluationCache struct {
	mock.Mock
}

func (m *MockEvaluationCache) Get(ctx context.Context, key string) (*domain.Evaluation, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationCache) Set(ctx context.Context, key string, evaluation *domain.Evaluation) error {
	args := m.Called(ctx, key, evaluation)
	return args.Error(0)
}

// mapCache is an in-memory EvaluationCache that stores evaluations by value
type mapCache struct {
	mu   sync.Mutex
	data map[string]domain.Evaluation
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]domain.Evaluation)}
}

func (c *mapCache) Get(_ context.Context, key string) (*domain.Evaluation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	evaluation, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return &evaluation, nil
}

func (c *mapCache) Set(_ context.Context, key string, evaluation *domain.Evaluation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = *evaluation
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEvaluate_FlagshipScenario(t *testing.T) {
	ctx := context.Background()
	service := NewScenarioService(nil, testLogger())

	evaluation, err := service.Evaluate(ctx, EvaluateInput{
		Commitment:    decimal.NewFromInt(700_000_000),
		TargetMOIC:    2.5,
		HoldingPeriod: 8,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, evaluation.ID)
	assert.Empty(t, evaluation.Validation.Warnings)
	assert.True(t, evaluation.CashFlows.TotalDistributions.Equal(decimal.NewFromInt(1_750_000_000)))
	assert.True(t, evaluation.Profit.Equal(decimal.NewFromInt(1_050_000_000)))

	require.True(t, evaluation.ActualMOIC.Valid)
	assert.True(t, evaluation.ActualMOIC.Decimal.Equal(decimal.RequireFromString("2.5")))

	require.True(t, evaluation.DeploymentPercent.Valid)
	assert.True(t, evaluation.DeploymentPercent.Decimal.Equal(decimal.NewFromInt(100)))

	require.True(t, evaluation.IRRPercent.Valid)
	assert.True(t, evaluation.IRRPercent.Decimal.IsPositive())
}

func TestEvaluate_FlatReturn(t *testing.T) {
	service := NewScenarioService(nil, testLogger())

	evaluation, err := service.Evaluate(context.Background(), EvaluateInput{
		Commitment:    decimal.NewFromInt(500_000_000),
		TargetMOIC:    1.0,
		HoldingPeriod: 10,
	})

	require.NoError(t, err)
	assert.True(t, evaluation.Profit.IsZero())
	require.True(t, evaluation.IRRPercent.Valid)
	assert.InDelta(t, 0, evaluation.IRRPercent.Decimal.InexactFloat64(), 1e-4)
}

func TestEvaluate_CapitalLoss(t *testing.T) {
	service := NewScenarioService(nil, testLogger())

	evaluation, err := service.Evaluate(context.Background(), EvaluateInput{
		Commitment:    decimal.NewFromInt(500_000_000),
		TargetMOIC:    0.5,
		HoldingPeriod: 10,
	})

	require.NoError(t, err)
	require.Len(t, evaluation.Validation.Warnings, 1)
	assert.Contains(t, evaluation.Validation.Warnings[0], "below 1.0x")
	assert.True(t, evaluation.Profit.IsNegative())
	require.True(t, evaluation.IRRPercent.Valid)
	assert.True(t, evaluation.IRRPercent.Decimal.IsNegative())
}

func TestEvaluate_ZeroCommitmentReportsNA(t *testing.T) {
	service := NewScenarioService(nil, testLogger())

	evaluation, err := service.Evaluate(context.Background(), EvaluateInput{
		Commitment:    decimal.Zero,
		TargetMOIC:    2.0,
		HoldingPeriod: 8,
	})

	require.NoError(t, err)
	assert.True(t, evaluation.Profit.IsZero())
	assert.False(t, evaluation.ActualMOIC.Valid)
	assert.False(t, evaluation.DeploymentPercent.Valid)
	assert.False(t, evaluation.IRRPercent.Valid)
}

func TestEvaluate_ShortHoldingPeriod(t *testing.T) {
	service := NewScenarioService(nil, testLogger())

	evaluation, err := service.Evaluate(context.Background(), EvaluateInput{
		Commitment:    decimal.NewFromInt(100_000_000),
		TargetMOIC:    2.0,
		HoldingPeriod: 4,
	})

	require.NoError(t, err)
	assert.Len(t, evaluation.Validation.Warnings, 1)
	assert.True(t, evaluation.CashFlows.TotalDistributions.IsZero())
	require.True(t, evaluation.ActualMOIC.Valid)
	assert.True(t, evaluation.ActualMOIC.Decimal.IsZero())
	assert.False(t, evaluation.IRRPercent.Valid, "calls only: no IRR")
}

func TestEvaluate_UsesAdjustedParameters(t *testing.T) {
	service := NewScenarioService(nil, testLogger())

	evaluation, err := service.Evaluate(context.Background(), EvaluateInput{
		Commitment:    decimal.NewFromInt(1000),
		TargetMOIC:    50,
		HoldingPeriod: 60,
	})

	require.NoError(t, err)
	assert.Equal(t, 30, evaluation.Parameters.HoldingPeriod)
	assert.True(t, evaluation.Parameters.TargetMOIC.Equal(decimal.NewFromInt(10)))
	assert.Len(t, evaluation.CashFlows.Flows, 31)
	assert.True(t, evaluation.CashFlows.TotalDistributions.Equal(decimal.NewFromInt(10_000)))
}

func TestEvaluate_CacheMissStoresEvaluation(t *testing.T) {
	ctx := context.Background()
	mockCache := new(MockEvaluationCache)
	service := NewScenarioService(mockCache, testLogger())

	key := "fundflow:evaluation:v1:700000000:2.5:8"
	mockCache.On("Get", ctx, key).Return(nil, domain.ErrCacheMiss)
	mockCache.On("Set", ctx, key, mock.MatchedBy(func(e *domain.Evaluation) bool {
		return e.Parameters.HoldingPeriod == 8 &&
			e.CashFlows.TotalDistributions.Equal(decimal.NewFromInt(1_750_000_000))
	})).Return(nil)

	_, err := service.Evaluate(ctx, EvaluateInput{
		Commitment:    decimal.NewFromInt(700_000_000),
		TargetMOIC:    2.5,
		HoldingPeriod: 8,
	})

	assert.NoError(t, err)
	mockCache.AssertExpectations(t)
}

func TestEvaluate_CacheHitSkipsBuild(t *testing.T) {
	ctx := context.Background()
	mockCache := new(MockEvaluationCache)
	service := NewScenarioService(mockCache, testLogger())

	cachedID := uuid.New()
	cached := &domain.Evaluation{
		ID:     cachedID,
		Profit: decimal.NewFromInt(42),
	}
	mockCache.On("Get", ctx, "fundflow:evaluation:v1:100:2:10").Return(cached, nil)

	evaluation, err := service.Evaluate(ctx, EvaluateInput{
		Commitment:    decimal.NewFromInt(100),
		TargetMOIC:    2,
		HoldingPeriod: 10,
	})

	require.NoError(t, err)
	assert.True(t, evaluation.Profit.Equal(decimal.NewFromInt(42)))
	assert.NotEqual(t, cachedID, evaluation.ID, "every evaluation gets a fresh id")
	mockCache.AssertNotCalled(t, "Set")
}

func TestEvaluate_CacheHitUsesFreshValidation(t *testing.T) {
	ctx := context.Background()
	service := NewScenarioService(newMapCache(), testLogger())

	first, err := service.Evaluate(ctx, EvaluateInput{
		Commitment:    decimal.NewFromInt(700_000_000),
		TargetMOIC:    15,
		HoldingPeriod: 8,
	})
	require.NoError(t, err)
	require.Len(t, first.Validation.Warnings, 2)
	assert.Contains(t, first.Validation.Warnings[0], "clamped")

	// same adjusted parameters, so this is served from the cache
	second, err := service.Evaluate(ctx, EvaluateInput{
		Commitment:    decimal.NewFromInt(700_000_000),
		TargetMOIC:    10,
		HoldingPeriod: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, validator.Validate(10, 8), second.Validation)
	require.Len(t, second.Validation.Warnings, 1)
	assert.Contains(t, second.Validation.Warnings[0], "unusually high")
	assert.True(t, second.CashFlows.TotalDistributions.Equal(first.CashFlows.TotalDistributions))
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, first.Validation.Warnings, 2, "earlier result is not mutated")
}

func TestEvaluate_CacheFailuresAreNotFatal(t *testing.T) {
	ctx := context.Background()
	mockCache := new(MockEvaluationCache)
	service := NewScenarioService(mockCache, testLogger())

	mockCache.On("Get", ctx, mock.Anything).Return(nil, errors.New("connection refused"))
	mockCache.On("Set", ctx, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	evaluation, err := service.Evaluate(ctx, EvaluateInput{
		Commitment:    decimal.NewFromInt(100),
		TargetMOIC:    2,
		HoldingPeriod: 10,
	})

	require.NoError(t, err)
	assert.NotNil(t, evaluation)
	mockCache.AssertExpectations(t)
}

func TestEvaluate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	service := NewScenarioService(nil, testLogger())

	evaluation, err := service.Evaluate(ctx, EvaluateInput{Commitment: decimal.NewFromInt(1), TargetMOIC: 2, HoldingPeriod: 8})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, evaluation)
}

func TestBuild_RevalidatesInput(t *testing.T) {
	service := NewScenarioService(nil, testLogger())

	validation, seq := service.Build(EvaluateInput{
		Commitment:    decimal.NewFromInt(100),
		TargetMOIC:    -3,
		HoldingPeriod: 0,
	})

	assert.Equal(t, 0.0, validation.AdjustedTargetMOIC)
	assert.Equal(t, 1, validation.AdjustedHoldingPeriod)
	assert.Len(t, seq.Flows, 2)
	assert.True(t, seq.TotalCalled.Equal(decimal.NewFromInt(100)))
}

func TestComputeIRR(t *testing.T) {
	service := NewScenarioService(nil, testLogger())

	got := service.ComputeIRR([]float64{-100, 110})
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(decimal.NewFromInt(10)), "got %s", got.Decimal)

	none := service.ComputeIRR([]float64{0, 10, 20})
	assert.False(t, none.Valid)
}
