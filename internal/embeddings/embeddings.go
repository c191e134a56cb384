// Package embeddings generates text embeddings and scores similarity
// between them. It backs the resume-to-job matching endpoints.
package embeddings

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// embeddingModel is Gemini's text embedding model.
const embeddingModel = "text-embedding-004"

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}

// GeminiEmbedder generates embeddings via the Gemini API.
type GeminiEmbedder struct {
	client *genai.Client
}

// NewGeminiEmbedder creates an embedder with the given API key.
func NewGeminiEmbedder(ctx context.Context, apiKey string) (*GeminiEmbedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("embeddings: API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("embeddings: failed to create client: %w", err)
	}
	return &GeminiEmbedder{client: client}, nil
}

// Embed returns the embedding vector for a single text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(embeddingModel)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embeddings: embed content: %w", err)
	}
	if res == nil || res.Embedding == nil {
		return nil, fmt.Errorf("embeddings: empty response")
	}
	return res.Embedding.Values, nil
}

// EmbedBatch embeds each text in order with a single batched request.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	em := e.client.EmbeddingModel(embeddingModel)
	batch := em.NewBatch()
	for _, t := range texts {
		batch = batch.AddContent(genai.Text(t))
	}
	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("embeddings: batch embed: %w", err)
	}
	out := make([][]float32, 0, len(res.Embeddings))
	for _, emb := range res.Embeddings {
		out = append(out, emb.Values)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d texts", len(out), len(texts))
	}
	return out, nil
}

// Close releases the underlying API client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}

// CosineSimilarity returns the cosine similarity of two vectors clamped
// to [0, 1]. Mismatched or zero-length vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0, math.Min(1, sim))
}

// Match is a scored candidate from TopMatches.
type Match struct {
	ID    string
	Score float64
}

// TopMatches scores the query against every candidate and returns the
// k best, highest first. Ties keep a stable ID order.
func TopMatches(query []float32, candidates map[string][]float32, k int) []Match {
	matches := make([]Match, 0, len(candidates))
	for id, vec := range candidates {
		matches = append(matches, Match{ID: id, Score: CosineSimilarity(query, vec)})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
