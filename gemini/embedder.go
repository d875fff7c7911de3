// Package gemini provides recipe embeddings using Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/rezept"
	"google.golang.org/genai"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "gemini-embedding-001"

// Task types for EmbedContentConfig.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// Ensure Embedder implements rezept.Embedder at compile time.
var _ rezept.Embedder = (*Embedder)(nil)

// Embedder implements rezept.Embedder using the Gemini embeddings API.
type Embedder struct {
	client     *genai.Client
	model      string
	task       string
	dimensions int32
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(e *Embedder) { e.model = model }
}

// WithTaskType sets the embedding task type, TaskDocument by default.
func WithTaskType(task string) Option {
	return func(e *Embedder) { e.task = task }
}

// WithDimensions truncates embeddings to n dimensions.
func WithDimensions(n int32) Option {
	return func(e *Embedder) { e.dimensions = n }
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client, opts ...Option) *Embedder {
	e := &Embedder{client: client, model: DefaultModel, task: TaskDocument}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed returns the embedding vector of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, rezept.Errorf(rezept.EINVALID, "text required")
	}
	if e.client == nil {
		return nil, rezept.Errorf(rezept.EINVALID, "gemini client not configured")
	}

	res, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), BuildConfig(e.task, e.dimensions))
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, rezept.Errorf(rezept.EINTERNAL, "gemini returned no embedding")
	}
	return res.Embeddings[0].Values, nil
}

// BuildConfig returns the EmbedContentConfig for an embedding call.
// A zero dimensions value keeps the model default.
func BuildConfig(task string, dimensions int32) *genai.EmbedContentConfig {
	cfg := &genai.EmbedContentConfig{TaskType: task}
	if dimensions > 0 {
		cfg.OutputDimensionality = &dimensions
	}
	return cfg
}
