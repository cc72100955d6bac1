package domain

import (
	"context"
)

// EvaluationCache defines the interface for memoising scenario evaluations
// Evaluations are pure, so a cached value is always equal to a recomputed one
type EvaluationCache interface {
	// Get retrieves an evaluation by key
	// Returns ErrCacheMiss if nothing is stored under the key
	Get(ctx context.Context, key string) (*Evaluation, error)

	// Set stores an evaluation under key
	Set(ctx context.Context, key string, evaluation *Evaluation) error
}
