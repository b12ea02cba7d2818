package chromemdb

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/Velmurugan2695/document-question-answer/internal/embedding"
	"github.com/Velmurugan2695/document-question-answer/internal/models"
)

const collectionName = "document"

// Index is an in-memory exact nearest-neighbour index over one document's
// chunks. It is built once per request and discarded with it.
//
// chromem normalises what it stores, so the raw vectors are kept alongside
// for Euclidean ranking.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
	chunks     map[string]models.Chunk
	vectors    map[string][]float32
	dimension  int
}

// EmbeddingFunc adapts a langchaingo embedder to chromem, so queries are
// encoded by the same model as the chunks.
func EmbeddingFunc(embedder embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
}

// Build embeds every chunk and loads it into a fresh in-memory collection.
func Build(ctx context.Context, embedder embeddings.Embedder, chunks []models.Chunk) (*Index, error) {
	db := chromem.NewDB()
	c, err := db.CreateCollection(collectionName, nil, EmbeddingFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	idx := &Index{
		db:         db,
		collection: c,
		embedder:   embedder,
		chunks:     make(map[string]models.Chunk, len(chunks)),
		vectors:    make(map[string][]float32, len(chunks)),
	}
	if len(chunks) == 0 {
		return idx, nil
	}

	vectors, err := embedding.EmbedChunks(ctx, embedder, chunks)
	if err != nil {
		return nil, err
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		id := strconv.Itoa(chunk.ChunkID)
		idx.chunks[id] = chunk
		idx.vectors[id] = slices.Clone(vectors[i])
		docs[i] = chromem.Document{
			ID:        id,
			Content:   chunk.Content,
			Metadata:  map[string]string{"start": strconv.Itoa(chunk.Start)},
			Embedding: vectors[i],
		}
	}

	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to add chunks: %w", err)
	}
	idx.dimension = len(vectors[0])

	log.Debug().Int("chunks", c.Count()).Int("dimension", idx.dimension).Msg("Built embedding index")
	return idx, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return idx.collection.Count()
}

// Dimension returns the embedding dimension, 0 for an empty index.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// Search returns the topK chunks closest to query under Euclidean distance
// between the raw embeddings, nearest first. Ties keep chunk order.
func (idx *Index) Search(ctx context.Context, query string, topK int) ([]models.SearchResult, error) {
	n := min(topK, idx.Len())
	if n <= 0 {
		return []models.SearchResult{}, nil
	}

	queryEmbedding, err := idx.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryEmbedding) != idx.dimension {
		return nil, fmt.Errorf("query embedding dimension %d, index dimension %d", len(queryEmbedding), idx.dimension)
	}

	// exact search: score every chunk, then rank by raw distance
	results, err := idx.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: normalize(queryEmbedding),
		NResults:       idx.Len(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	out := make([]models.SearchResult, 0, len(results))
	for _, res := range results {
		chunk, ok := idx.chunks[res.ID]
		if !ok {
			return nil, fmt.Errorf("unknown chunk id %q in results", res.ID)
		}
		out = append(out, models.SearchResult{
			Chunk:    chunk,
			Distance: euclidean(queryEmbedding, idx.vectors[res.ID]),
		})
	}
	slices.SortFunc(out, func(a, b models.SearchResult) int {
		return cmp.Or(
			cmp.Compare(a.Distance, b.Distance),
			cmp.Compare(a.Chunk.ChunkID, b.Chunk.ChunkID),
		)
	})
	return out[:min(n, len(out))], nil
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func euclidean(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}
