package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/metrics"
	"github.com/ahmednasr/ai-in-action/embed-api/internal/models"
)

// InfoMessage is the static greeting reported by GET /.
const InfoMessage = "Embedding API is running"

// readyProbe is the text pushed through the model by Ready.
const readyProbe = "ready"

// ErrNoTexts is returned by Embed for an empty batch.
var ErrNoTexts = fmt.Errorf("%w: no texts provided", ErrInvalidInput)

// EmbedError wraps a model or conversion failure. Its message is the cause's
// message unchanged; errors.Is(err, ErrInternal) reports true.
type EmbedError struct {
	Err error
}

func (e *EmbedError) Error() string { return e.Err.Error() }

func (e *EmbedError) Unwrap() []error { return []error{ErrInternal, e.Err} }

// ---- Service interface + implementation ------------------------------------

// EmbedService validates batches, delegates them to the loaded model and
// shapes the result.
type EmbedService interface {
	// ModelName is the identifier of the loaded model.
	ModelName() string
	// Info reports the static message and model name.
	Info() models.InfoResponse
	// Health is a liveness answer; it never touches the model.
	Health() models.HealthResponse
	// Ready runs a one-text probe through the model.
	Ready(ctx context.Context) (models.ReadyResponse, error)
	// Embed encodes texts in one model call, all or nothing.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type embedService struct {
	modelName string
	embedder  Embedder
}

// NewEmbedService wires the model handle and its name.
func NewEmbedService(modelName string, embedder Embedder) EmbedService {
	return &embedService{
		modelName: modelName,
		embedder:  embedder,
	}
}

func (s *embedService) ModelName() string {
	return s.modelName
}

func (s *embedService) Info() models.InfoResponse {
	return models.InfoResponse{Message: InfoMessage, Model: s.modelName}
}

func (s *embedService) Health() models.HealthResponse {
	return models.HealthResponse{Status: "healthy", Model: s.modelName}
}

func (s *embedService) Ready(ctx context.Context) (models.ReadyResponse, error) {
	vecs, err := s.encode(ctx, []string{readyProbe})
	if err != nil {
		return models.ReadyResponse{}, err
	}
	return models.ReadyResponse{
		Status:     "ready",
		Model:      s.modelName,
		Dimensions: len(vecs[0]),
	}, nil
}

// Embed validates the batch and hands it to the model in a single call.
func (s *embedService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrNoTexts
	}

	metrics.EmbedBatchSize.Observe(float64(len(texts)))
	start := time.Now()

	vecs, err := s.encode(ctx, texts)
	if err != nil {
		metrics.EmbedFailuresTotal.Inc()
		slog.Error("embedding generation failed",
			"model", s.modelName,
			"batch", len(texts),
			"error", err,
		)
		return nil, err
	}

	metrics.EmbedDuration.Observe(time.Since(start).Seconds())
	slog.Debug("embedded batch",
		"batch", len(texts),
		"dimensions", len(vecs[0]),
		"duration", time.Since(start).String(),
	)
	return vecs, nil
}

// encode calls the model and checks the shape of what it returned. A panic in
// the backend is turned into an EmbedError.
func (s *embedService) encode(ctx context.Context, texts []string) (vecs [][]float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			vecs = nil
			err = &EmbedError{Err: fmt.Errorf("model panicked: %v", r)}
		}
	}()

	out, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, &EmbedError{Err: err}
	}
	if err := checkShape(out, len(texts)); err != nil {
		return nil, &EmbedError{Err: err}
	}
	return out, nil
}

// checkShape enforces one vector per text, a single shared dimensionality and
// finite components.
func checkShape(vecs [][]float32, want int) error {
	if len(vecs) != want {
		return fmt.Errorf("model returned %d vectors for %d texts", len(vecs), want)
	}
	dim := len(vecs[0])
	if dim == 0 {
		return fmt.Errorf("model returned an empty vector")
	}
	for i, v := range vecs {
		if len(v) != dim {
			return fmt.Errorf("vector %d has %d dimensions, expected %d", i, len(v), dim)
		}
		for j, x := range v {
			if f := float64(x); math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("vector %d has non-finite value %v at position %d", i, x, j)
			}
		}
	}
	return nil
}
