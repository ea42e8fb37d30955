package service

import (
	"context"
	"errors"
)

// Embedder is the model handle: it turns a batch of texts into vectors.
//
// Implementations are created once at startup and must be safe for concurrent
// use; the service never mutates them after construction.
type Embedder interface {
	// Embed encodes the whole batch in one call. The result has one vector per
	// input, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Close releases whatever the backend holds (sessions, clients).
	Close() error
}

// Error kinds surfaced to clients. Callers match with errors.Is.
var (
	// ErrInvalidInput marks a request the client must fix (400).
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal marks a failure inside the model or result conversion (500).
	ErrInternal = errors.New("internal failure")
)
