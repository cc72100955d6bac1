package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/simaogato/fundflow-backend/internal/domain"
	"github.com/simaogato/fundflow-backend/internal/usecase/scenario"
)

const maxBodyBytes = 1 << 20

type scenarioRequest struct {
	Commitment    *decimal.Decimal `json:"commitment"`
	TargetMOIC    *float64         `json:"target_moic"`
	HoldingPeriod *int             `json:"holding_period"`
}

type irrRequest struct {
	CashFlows []float64 `json:"cash_flows"`
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"message": "ok"})
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.TargetMOIC == nil || req.HoldingPeriod == nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "target_moic and holding_period are required")
		return
	}

	writeSuccess(w, http.StatusOK, h.service.Validate(*req.TargetMOIC, *req.HoldingPeriod))
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) {
	input, err := decodeScenario(r)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}

	validation, seq := h.service.Build(input)

	writeSuccess(w, http.StatusOK, map[string]any{
		"validation": validation,
		"cash_flows": seq,
	})
}

func (h *Handler) irr(w http.ResponseWriter, r *http.Request) {
	var req irrRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.CashFlows == nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "cash_flows is required")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"irr_percent": h.service.ComputeIRR(req.CashFlows),
	})
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	input, err := decodeScenario(r)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}

	evaluation, err := h.service.Evaluate(r.Context(), input)
	if err != nil {
		status, code, msg := mapDomainError(err)
		httpLogger().ErrorContext(r.Context(), "evaluation failed",
			"operation", "evaluate_scenario",
			"outcome", "failure",
			"request_id", requestIDFromContext(r.Context()),
			"error", err.Error(),
		)
		writeError(w, status, code, msg)
		return
	}

	writeSuccess(w, http.StatusOK, evaluation)
}

func decodeScenario(r *http.Request) (scenario.EvaluateInput, error) {
	var req scenarioRequest
	if err := decodeBody(r, &req); err != nil {
		return scenario.EvaluateInput{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if req.Commitment == nil || req.TargetMOIC == nil || req.HoldingPeriod == nil {
		return scenario.EvaluateInput{}, fmt.Errorf("%w: commitment, target_moic and holding_period are required", domain.ErrInvalidInput)
	}

	return scenario.EvaluateInput{
		Commitment:    *req.Commitment,
		TargetMOIC:    *req.TargetMOIC,
		HoldingPeriod: *req.HoldingPeriod,
	}, nil
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
