package knowledge

import (
	"context"
	"math"

	chromem "github.com/philippgille/chromem-go"
)

const localEmbeddingDims = 384

// NewOpenAIEmbeddingFunc returns an embedding function backed by an
// OpenAI-compatible embeddings endpoint.
func NewOpenAIEmbeddingFunc(apiKey string) chromem.EmbeddingFunc {
	return chromem.NewEmbeddingFuncOpenAI(apiKey, chromem.EmbeddingModelOpenAI3Small)
}

// NewLocalEmbeddingFunc returns a deterministic, dependency-free embedding
// function built from character features. Far weaker than a real model, but
// it keeps retrieval functional when no embeddings endpoint is configured,
// and its determinism makes tests reproducible.
func NewLocalEmbeddingFunc() chromem.EmbeddingFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, localEmbeddingDims)
		for i, ch := range text {
			idx := (int(ch) + i) % localEmbeddingDims
			vec[idx] += 1.0
		}

		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for i := range vec {
				vec[i] = float32(float64(vec[i]) / norm)
			}
		}
		return vec, nil
	}
}
