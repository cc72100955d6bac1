package grpc

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/fundflow-backend/internal/domain"
	"github.com/simaogato/fundflow-backend/internal/usecase/scenario"
)

// Server implements the CashFlowService gRPC server
type Server struct {
	ScenarioService *scenario.ScenarioService
}

// NewServer creates a new gRPC server instance
func NewServer(scenarioService *scenario.ScenarioService) *Server {
	return &Server{
		ScenarioService: scenarioService,
	}
}

// Validate handles the Validate RPC
// Request: {target_moic: number, holding_period: number}
func (s *Server) Validate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	moic, err := numberField(req, "target_moic")
	if err != nil {
		return nil, mapError(err)
	}
	period, err := intField(req, "holding_period")
	if err != nil {
		return nil, mapError(err)
	}

	result := s.ScenarioService.Validate(moic, period)

	return toStruct(validationToMap(result))
}

// Build handles the Build RPC
// Request: {commitment: string|number, target_moic: number, holding_period: number}
func (s *Server) Build(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input, err := evaluateInput(req)
	if err != nil {
		return nil, mapError(err)
	}

	validation, seq := s.ScenarioService.Build(input)

	out := sequenceToMap(seq)
	out["validation"] = validationToMap(validation)
	return toStruct(out)
}

// ComputeIRR handles the ComputeIRR RPC
// Request: {cash_flows: [number]}; irr_percent is null when no rate exists
func (s *Server) ComputeIRR(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	value, ok := req.GetFields()["cash_flows"]
	if !ok {
		return nil, mapError(fmt.Errorf("%w: cash_flows is required", domain.ErrInvalidInput))
	}
	list := value.GetListValue()
	if list == nil {
		return nil, mapError(fmt.Errorf("%w: cash_flows must be a list", domain.ErrInvalidInput))
	}

	flows := make([]float64, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
		if !isNumber {
			return nil, mapError(fmt.Errorf("%w: cash_flows[%d] must be a number", domain.ErrInvalidInput, i))
		}
		flows = append(flows, n.NumberValue)
	}

	return toStruct(map[string]any{
		"irr_percent": nullDecimal(s.ScenarioService.ComputeIRR(flows)),
	})
}

// Evaluate handles the Evaluate RPC
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input, err := evaluateInput(req)
	if err != nil {
		return nil, mapError(err)
	}

	evaluation, err := s.ScenarioService.Evaluate(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(evaluationToMap(evaluation))
}

func evaluateInput(req *structpb.Struct) (scenario.EvaluateInput, error) {
	commitment, err := decimalField(req, "commitment")
	if err != nil {
		return scenario.EvaluateInput{}, err
	}
	moic, err := numberField(req, "target_moic")
	if err != nil {
		return scenario.EvaluateInput{}, err
	}
	period, err := intField(req, "holding_period")
	if err != nil {
		return scenario.EvaluateInput{}, err
	}

	return scenario.EvaluateInput{
		Commitment:    commitment,
		TargetMOIC:    moic,
		HoldingPeriod: period,
	}, nil
}

// decimalField accepts either a decimal string (preferred for currency) or a number
func decimalField(req *structpb.Struct, name string) (decimal.Decimal, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}

	switch kind := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		d, err := decimal.NewFromString(kind.StringValue)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: invalid %s format: %v", domain.ErrInvalidInput, name, err)
		}
		return d, nil
	case *structpb.Value_NumberValue:
		if math.IsNaN(kind.NumberValue) || math.IsInf(kind.NumberValue, 0) {
			return decimal.Zero, fmt.Errorf("%w: %s must be finite", domain.ErrInvalidInput, name)
		}
		return decimal.NewFromFloat(kind.NumberValue), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s must be a string or a number", domain.ErrInvalidInput, name)
	}
}

func numberField(req *structpb.Struct, name string) (float64, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	n, isNumber := value.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, name)
	}
	return n.NumberValue, nil
}

func intField(req *structpb.Struct, name string) (int, error) {
	n, err := numberField(req, name)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be a whole number", domain.ErrInvalidInput, name)
	}
	return int(n), nil
}

func validationToMap(v domain.ValidationResult) map[string]any {
	warnings := make([]any, 0, len(v.Warnings))
	for _, w := range v.Warnings {
		warnings = append(warnings, w)
	}
	return map[string]any{
		"adjusted_target_moic":    v.AdjustedTargetMOIC,
		"adjusted_holding_period": v.AdjustedHoldingPeriod,
		"warnings":                warnings,
	}
}

func sequenceToMap(seq domain.CashFlowSequence) map[string]any {
	flows := make([]any, 0, len(seq.Flows))
	for _, flow := range seq.Flows {
		flows = append(flows, map[string]any{
			"year":   flow.Year,
			"phase":  string(flow.Phase),
			"amount": flow.Amount.String(),
		})
	}
	return map[string]any{
		"cash_flows":          flows,
		"total_called":        seq.TotalCalled.String(),
		"total_distributions": seq.TotalDistributions.String(),
	}
}

func evaluationToMap(e *domain.Evaluation) map[string]any {
	out := sequenceToMap(e.CashFlows)
	out["evaluation_id"] = e.ID.String()
	out["commitment"] = e.Parameters.Commitment.String()
	out["target_moic"] = e.Parameters.TargetMOIC.String()
	out["holding_period"] = e.Parameters.HoldingPeriod
	out["validation"] = validationToMap(e.Validation)
	out["profit"] = e.Profit.String()
	out["actual_moic"] = nullDecimal(e.ActualMOIC)
	out["deployment_percent"] = nullDecimal(e.DeploymentPercent)
	out["irr_percent"] = nullDecimal(e.IRRPercent)
	return out
}

// nullDecimal renders N/A as a null value
func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError maps usecase errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	default:
		return status.Errorf(codes.Internal, "%s", err.Error())
	}
}
