package embedder

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/shotstash/shotstash/internal/profile"
)

// Embedder turns text into a fixed-dimension vector. A nil vector with a
// nil error means no embedding is available; callers treat that as "no
// results", not a failure.
type Embedder interface {
	// Embed generates a vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector dimension.
	Dimensions() int
}

// New creates the embedder variant selected by the profile:
// "disabled" always yields no vector, "fixed" yields a deterministic
// vector derived from the text (for tests and local development), and
// "openai" delegates to an OpenAI-compatible embeddings endpoint.
func New(p *profile.Profile) (Embedder, error) {
	switch p.EmbedderProvider {
	case "", "disabled":
		return &disabledEmbedder{}, nil
	case "fixed":
		return &fixedEmbedder{dimensions: profile.EmbeddingDimensions}, nil
	case "openai":
		if p.EmbedderAPIKey == "" {
			return nil, errors.New("openai embedder requires an API key")
		}
		clientConfig := openai.DefaultConfig(p.EmbedderAPIKey)
		if p.EmbedderBaseURL != "" {
			clientConfig.BaseURL = p.EmbedderBaseURL
		}
		return &openaiEmbedder{
			client:     openai.NewClientWithConfig(clientConfig),
			model:      p.EmbedderModel,
			dimensions: profile.EmbeddingDimensions,
		}, nil
	default:
		return nil, errors.Errorf("unsupported embedder provider: %s", p.EmbedderProvider)
	}
}

type disabledEmbedder struct{}

func (*disabledEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, nil
}

func (*disabledEmbedder) Dimensions() int {
	return profile.EmbeddingDimensions
}

// fixedEmbedder produces a unit vector seeded by an FNV hash of the text.
// Identical texts always embed identically, which keeps tests stable.
type fixedEmbedder struct {
	dimensions int
}

func (e *fixedEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vector := make([]float32, e.dimensions)
	var norm float64
	for i := range vector {
		// xorshift keeps the sequence deterministic per seed
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		v := float64(int64(state%2000)-1000) / 1000
		vector[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / norm)
		}
	}
	return vector, nil
}

func (e *fixedEmbedder) Dimensions() int {
	return e.dimensions
}

type openaiEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
}

func (e *openaiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: e.dimensions,
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "create embeddings failed")
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

func (e *openaiEmbedder) Dimensions() int {
	return e.dimensions
}
