package domain

import "errors"

var (
	// ErrInvalidInput is returned by adapters when a request cannot be parsed
	ErrInvalidInput = errors.New("invalid input")

	// ErrCacheMiss is returned by an EvaluationCache when the key is absent
	ErrCacheMiss = errors.New("evaluation not cached")
)
