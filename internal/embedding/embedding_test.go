package embedding

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/janwang001/ai-invest-news/internal/errors"
	"github.com/janwang001/ai-invest-news/internal/models"
)

// fakeClient returns deterministic vectors derived from the input text and
// records every batch it receives.
type fakeClient struct {
	calls   int
	batches [][]string
	err     error
	dim     int
}

func (f *fakeClient) CreateEmbeddings(_ context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	f.calls++
	req := conv.Convert()
	inputs, _ := req.Input.([]string)
	f.batches = append(f.batches, inputs)

	if f.err != nil {
		return openai.EmbeddingResponse{}, f.err
	}

	resp := openai.EmbeddingResponse{}
	for i, text := range inputs {
		vec := make([]float32, f.dim)
		for j := range vec {
			vec[j] = float32(len(text)%7) + float32(j)
		}
		resp.Data = append(resp.Data, openai.Embedding{Embedding: vec, Index: i})
	}
	return resp, nil
}

func newTestEmbedder(client *fakeClient, cacheCap int) *TextEmbedder {
	return New(client, Config{Model: "test-model", Dimension: client.dim, CacheCap: cacheCap})
}

func TestEmbedNewsAlignsWithInputOrder(t *testing.T) {
	client := &fakeClient{dim: 4}
	embedder := newTestEmbedder(client, 0)

	items := []models.NewsItem{
		{Title: "Alpha raises funding", Content: "a"},
		{Title: "Beta sued over data leak", Content: "bb"},
		{Title: "Gamma ships product", Content: "ccc"},
	}

	vectors, err := embedder.EmbedNews(context.Background(), items)
	if err != nil {
		t.Fatalf("EmbedNews failed: %v", err)
	}
	if len(vectors) != len(items) {
		t.Fatalf("expected %d vectors, got %d", len(items), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != 4 {
			t.Errorf("vector %d has dimension %d, want 4", i, len(vec))
		}
	}
}

func TestEmbedTextsCachesByContentHash(t *testing.T) {
	client := &fakeClient{dim: 3}
	embedder := newTestEmbedder(client, 0)
	ctx := context.Background()

	texts := []string{"one", "two", "three"}
	first, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected one model call, got %d", client.calls)
	}

	// Second call must be served entirely from cache.
	second, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if client.calls != 1 {
		t.Errorf("expected cached result without a second model call, got %d calls", client.calls)
	}
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("cached vector %d differs from original", i)
			}
		}
	}

	stats := embedder.Stats()
	if stats.Size != 3 || stats.Misses != 3 || stats.Hits != 3 {
		t.Errorf("unexpected cache stats: %+v", stats)
	}
}

func TestEmbedTextsBatchesOnlyMisses(t *testing.T) {
	client := &fakeClient{dim: 2}
	embedder := newTestEmbedder(client, 0)
	ctx := context.Background()

	if _, err := embedder.EmbedTexts(ctx, []string{"cached", "fresh"}); err != nil {
		t.Fatalf("warm-up failed: %v", err)
	}
	if _, err := embedder.EmbedTexts(ctx, []string{"cached", "brand-new"}); err != nil {
		t.Fatalf("mixed call failed: %v", err)
	}

	if client.calls != 2 {
		t.Fatalf("expected 2 model calls, got %d", client.calls)
	}
	lastBatch := client.batches[1]
	if len(lastBatch) != 1 || lastBatch[0] != "brand-new" {
		t.Errorf("expected only the miss in the second batch, got %v", lastBatch)
	}
}

func TestEmbedTextsPropagatesModelError(t *testing.T) {
	client := &fakeClient{dim: 2, err: errors.New("model unavailable")}
	embedder := newTestEmbedder(client, 0)

	_, err := embedder.EmbedTexts(context.Background(), []string{"boom"})
	if err == nil {
		t.Fatal("expected error from failing model")
	}
	var embErr *apperrors.EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("expected EmbeddingError, got %T", err)
	}
	if embErr.Model != "test-model" || embErr.Batch != 1 {
		t.Errorf("unexpected error detail: %+v", embErr)
	}
}

func TestCacheCapResetsCache(t *testing.T) {
	client := &fakeClient{dim: 2}
	embedder := newTestEmbedder(client, 2)
	ctx := context.Background()

	if _, err := embedder.EmbedTexts(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	if embedder.Stats().Size != 2 {
		t.Fatalf("expected 2 cached entries, got %d", embedder.Stats().Size)
	}

	// Exceeding the cap drops the old entries before caching the new batch.
	if _, err := embedder.EmbedTexts(ctx, []string{"c"}); err != nil {
		t.Fatalf("overflow call failed: %v", err)
	}
	if embedder.Stats().Size != 1 {
		t.Errorf("expected reset cache with 1 entry, got %d", embedder.Stats().Size)
	}
}

func TestClearCache(t *testing.T) {
	client := &fakeClient{dim: 2}
	embedder := newTestEmbedder(client, 0)

	if _, err := embedder.EmbedTexts(context.Background(), []string{"x"}); err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	embedder.ClearCache()
	stats := embedder.Stats()
	if stats.Size != 0 || stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("expected empty stats after reset, got %+v", stats)
	}
}

func TestBuildStructuredPrompt(t *testing.T) {
	item := models.NewsItem{
		Title:     "OpenAI secures funding",
		Content:   "Round led by major investors.",
		Signals:   []string{"funding", "investment"},
		Companies: []string{"OpenAI"},
	}
	prompt := buildStructuredPrompt(item)

	for _, want := range []string{
		"Title: OpenAI secures funding",
		"Content: Round led by major investors.",
		"Signals: funding, investment",
		"Companies: OpenAI",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}

	bare := buildStructuredPrompt(models.NewsItem{Title: "t"})
	if !strings.Contains(bare, "Signals: none") || !strings.Contains(bare, "Companies: none") {
		t.Errorf("empty tags should render as none:\n%s", bare)
	}
}

func TestEmptyInputSkipsModel(t *testing.T) {
	client := &fakeClient{dim: 2}
	embedder := newTestEmbedder(client, 0)

	vectors, err := embedder.EmbedNews(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vectors != nil {
		t.Errorf("expected nil vectors for empty input, got %v", vectors)
	}
	if client.calls != 0 {
		t.Errorf("expected no model calls, got %d", client.calls)
	}
}
