// Package openai implements the embedding.Provider interface on top of the
// OpenAI embeddings API.
package openai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/tripdesk/intentcore/pkg/intent/embedding"
)

const DefaultModel = string(openai.SmallEmbedding3)

// Provider calls the OpenAI embeddings endpoint. The language argument of the
// embedding interface is accepted but not forwarded; the embedding models are
// multilingual.
type Provider struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

type Option func(*Provider)

// WithModel overrides the embedding model.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = openai.EmbeddingModel(model)
	}
}

// WithClient replaces the underlying client, e.g. for a custom base URL.
func WithClient(client *openai.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// New creates an OpenAI-backed embedding provider.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		client: openai.NewClient(apiKey),
		model:  openai.EmbeddingModel(DefaultModel),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ embedding.Provider = (*Provider)(nil)

func (p *Provider) Embed(ctx context.Context, text string, language string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text}, language)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (p *Provider) EmbedBatch(ctx context.Context, texts []string, _ string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no input provided for embedding generation")
	}

	req := openai.EmbeddingRequest{
		Input: texts,
		Model: p.model,
	}

	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		log.Error().
			Err(err).
			Str("model", string(p.model)).
			Int("input_count", len(texts)).
			Msg("Failed to generate embeddings")
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, data := range resp.Data {
		vectors[data.Index] = data.Embedding
	}
	return vectors, nil
}
