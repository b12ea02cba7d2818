package chromemdb

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Velmurugan2695/document-question-answer/internal/models"
)

// letterEmbedder maps text to its letter counts plus a constant component,
// so similar spellings land close together.
type letterEmbedder struct {
	queryDim int
	err      error
}

func (e letterEmbedder) vector(text string, dim int) []float32 {
	v := make([]float32, dim)
	v[dim-1] = 1
	for _, r := range strings.ToLower(text) {
		if i := int(r - 'a'); i >= 0 && i < dim-1 {
			v[i]++
		}
	}
	return v
}

func (e letterEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text, 27)
	}
	return out, nil
}

func (e letterEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	dim := 27
	if e.queryDim != 0 {
		dim = e.queryDim
	}
	return e.vector(text, dim), nil
}

func testChunks(contents ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(contents))
	for i, c := range contents {
		chunks[i] = models.Chunk{ChunkID: i + 1, Start: i * 10, Content: c}
	}
	return chunks
}

func TestSearchOrdersByDistance(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, letterEmbedder{}, testChunks("apple apple", "zebra zoo", "banana bread", "lease term months"))
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, 27, idx.Dimension())

	results, err := idx.Search(ctx, "zoo zebra", 4)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "zebra zoo", results[0].Chunk.Content)
	assert.Equal(t, 2, results[0].Chunk.ChunkID)
	assert.Equal(t, 10, results[0].Chunk.Start)
	assert.InDelta(t, 0, results[0].Distance, 1e-2)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestSearchBounds(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, letterEmbedder{}, testChunks("one", "two", "three"))
	require.NoError(t, err)

	tests := []struct {
		topK int
		want int
	}{
		{topK: 1, want: 1},
		{topK: 3, want: 3},
		{topK: 10, want: 3},
		{topK: 0, want: 0},
		{topK: -2, want: 0},
	}
	for _, tt := range tests {
		results, err := idx.Search(ctx, "two", tt.topK)
		require.NoError(t, err)
		assert.Lenf(t, results, tt.want, "top_k %d", tt.topK)
	}
}

func TestBuildWithoutChunks(t *testing.T) {
	idx, err := Build(context.Background(), letterEmbedder{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Dimension())

	results, err := idx.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestBuildEmbedderError(t *testing.T) {
	boom := errors.New("embedding service down")
	_, err := Build(context.Background(), letterEmbedder{err: boom}, testChunks("one"))
	require.ErrorIs(t, err, boom)
}

func TestSearchDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, letterEmbedder{queryDim: 5}, testChunks("one", "two"))
	require.NoError(t, err)

	_, err = idx.Search(ctx, "one", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

// vectorEmbedder returns fixed vectors by text.
type vectorEmbedder map[string][]float32

func (e vectorEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e[text]
	}
	return out, nil
}

func (e vectorEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e[text], nil
}

func TestSearchUsesRawEuclideanDistance(t *testing.T) {
	// "far" points the same way as the query but is short; "near" is
	// slightly off-axis but almost the same vector
	embedder := vectorEmbedder{
		"far":   {1, 0},
		"near":  {10, 0.5},
		"query": {10, 0},
	}
	ctx := context.Background()
	idx, err := Build(ctx, embedder, testChunks("far", "near"))
	require.NoError(t, err)

	results, err := idx.Search(ctx, "query", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].Chunk.Content)
	assert.InDelta(t, 0.5, results[0].Distance, 1e-6)

	results, err = idx.Search(ctx, "query", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "far", results[1].Chunk.Content)
	assert.InDelta(t, 9, results[1].Distance, 1e-6)
}

func TestSearchTiesKeepChunkOrder(t *testing.T) {
	embedder := vectorEmbedder{
		"a":     {1, 0},
		"b":     {-1, 0},
		"c":     {0, 3},
		"query": {0, 1},
	}
	ctx := context.Background()
	idx, err := Build(ctx, embedder, testChunks("c", "b", "a"))
	require.NoError(t, err)

	results, err := idx.Search(ctx, "query", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	// a and b are both sqrt(2) away; b was chunked first
	assert.Equal(t, "b", results[0].Chunk.Content)
	assert.Equal(t, "a", results[1].Chunk.Content)
	assert.Equal(t, results[0].Distance, results[1].Distance)
	assert.Equal(t, "c", results[2].Chunk.Content)
}

func TestEuclidean(t *testing.T) {
	assert.InDelta(t, 5, euclidean([]float32{0, 0}, []float32{3, 4}), 1e-6)
	assert.InDelta(t, 0, euclidean([]float32{2, -1}, []float32{2, -1}), 1e-6)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []float32{0.6, 0.8}, normalize([]float32{3, 4}))
	assert.Equal(t, []float32{0, 0}, normalize([]float32{0, 0}))
}
