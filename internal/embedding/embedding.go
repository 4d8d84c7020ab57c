// Package embedding turns news items into semantic vectors for clustering.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/janwang001/ai-invest-news/internal/errors"
	"github.com/janwang001/ai-invest-news/internal/models"
)

// Embedder produces embedding vectors from news items, aligned 1:1 with the
// input order.
type Embedder interface {
	EmbedNews(ctx context.Context, items []models.NewsItem) ([][]float32, error)
}

// Client is the subset of the OpenAI API the embedder needs. Satisfied by
// *openai.Client.
type Client interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// TextEmbedder embeds structured news prompts through an embedding model,
// memoizing results by content hash for the lifetime of the instance.
//
// The cache is read and written only within a single sequential run; driving
// one instance from concurrent runs requires external synchronization.
type TextEmbedder struct {
	client    Client
	model     string
	dimension int
	cacheCap  int

	cache  map[string][]float32
	hits   int
	misses int
}

// Config holds embedder construction parameters.
type Config struct {
	Model     string
	Dimension int
	CacheCap  int // entries; 0 disables the cap
}

// New creates a TextEmbedder backed by the given client.
func New(client Client, cfg Config) *TextEmbedder {
	return &TextEmbedder{
		client:    client,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		cacheCap:  cfg.CacheCap,
		cache:     make(map[string][]float32),
	}
}

// NewOpenAI creates a TextEmbedder using the OpenAI API.
func NewOpenAI(apiKey string, cfg Config) *TextEmbedder {
	return New(openai.NewClient(apiKey), cfg)
}

// buildStructuredPrompt concatenates title, content, signal tags, and company
// tags. The structured form separates items better than raw text similarity.
func buildStructuredPrompt(item models.NewsItem) string {
	signals := "none"
	if len(item.Signals) > 0 {
		signals = strings.Join(item.Signals, ", ")
	}
	companies := "none"
	if len(item.Companies) > 0 {
		companies = strings.Join(item.Companies, ", ")
	}
	return fmt.Sprintf("Title: %s\nContent: %s\nSignals: %s\nCompanies: %s",
		item.Title, item.Content, signals, companies)
}

// cacheKey returns the content hash used as the memoization key.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// EmbedNews builds a structured prompt per item and embeds them. Cache hits
// are returned directly; misses go through the model in one batched call.
// Model failures propagate to the caller, which must degrade.
func (e *TextEmbedder) EmbedNews(ctx context.Context, items []models.NewsItem) ([][]float32, error) {
	if len(items) == 0 {
		return nil, nil
	}
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = buildStructuredPrompt(item)
	}
	return e.EmbedTexts(ctx, texts)
}

// EmbedTexts embeds raw texts with cache-miss partitioning, merging results
// back into input order.
func (e *TextEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	var missTexts []string
	var missIndices []int
	for i, text := range texts {
		keys[i] = cacheKey(text)
		if vec, ok := e.cache[keys[i]]; ok {
			vectors[i] = vec
			e.hits++
			continue
		}
		missTexts = append(missTexts, text)
		missIndices = append(missIndices, i)
		e.misses++
	}

	if len(missTexts) > 0 {
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:      missTexts,
			Model:      openai.EmbeddingModel(e.model),
			Dimensions: e.dimension,
		})
		if err != nil {
			return nil, apperrors.NewEmbeddingError(e.model, len(missTexts), err)
		}
		if len(resp.Data) != len(missTexts) {
			return nil, apperrors.NewEmbeddingError(e.model, len(missTexts),
				fmt.Errorf("%w: got %d vectors", apperrors.ErrEmptyEmbedding, len(resp.Data)))
		}

		if e.cacheCap > 0 && len(e.cache)+len(missTexts) > e.cacheCap {
			// No eviction policy; a full cache is simply reset.
			e.cache = make(map[string][]float32)
		}
		for j, idx := range missIndices {
			vec := resp.Data[j].Embedding
			if e.dimension > 0 && len(vec) != e.dimension {
				return nil, apperrors.NewEmbeddingError(e.model, len(missTexts),
					fmt.Errorf("%w: want %d, got %d", apperrors.ErrDimensionMismatch, e.dimension, len(vec)))
			}
			e.cache[keys[idx]] = vec
			vectors[idx] = vec
		}
	}

	return vectors, nil
}

// CacheStats reports cache usage for the lifetime of the embedder.
type CacheStats struct {
	Size   int
	Hits   int
	Misses int
}

// Stats returns current cache statistics.
func (e *TextEmbedder) Stats() CacheStats {
	return CacheStats{
		Size:   len(e.cache),
		Hits:   e.hits,
		Misses: e.misses,
	}
}

// ClearCache drops all memoized embeddings and resets counters.
func (e *TextEmbedder) ClearCache() {
	e.cache = make(map[string][]float32)
	e.hits = 0
	e.misses = 0
}
