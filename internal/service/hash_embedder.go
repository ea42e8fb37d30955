package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// HashEmbedder derives a pseudo-random unit vector from an FNV hash of each
// text. It needs no model files or network, is deterministic, and carries no
// semantic meaning; it exists for development and tests.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder returns a HashEmbedder producing vectors of length dims.
func NewHashEmbedder(dims int) (*HashEmbedder, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("hash embedder: dimensions must be positive, got %d", dims)
	}
	return &HashEmbedder{dims: dims}, nil
}

// Embed returns one vector per text. Equal texts map to equal vectors.
func (h *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *HashEmbedder) vector(text string) []float32 {
	f := fnv.New64a()
	f.Write([]byte(text))
	seed := f.Sum64()

	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	vec := make([]float32, h.dims)
	var norm float64
	for i := range vec {
		v := rng.NormFloat64()
		vec[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// Dimensions reports the configured vector length.
func (h *HashEmbedder) Dimensions() int {
	return h.dims
}

// Close is a no-op for the hash embedder.
func (h *HashEmbedder) Close() error {
	return nil
}
