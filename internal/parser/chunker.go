package parser

import "github.com/Velmurugan2695/document-question-answer/internal/models"

// ChunkText splits text into windows of chunkSize runes, each starting
// chunkSize-overlap runes after the previous one. The last window may be
// shorter. Every rune of text lands in at least one chunk.
func ChunkText(text string, chunkSize, overlap int) ([]models.Chunk, error) {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return nil, &InvalidChunkConfigError{ChunkSize: chunkSize, Overlap: overlap}
	}

	runes := []rune(text)
	contentLen := len(runes)
	step := chunkSize - overlap

	var chunks []models.Chunk
	for start := 0; start < contentLen; start += step {
		end := min(start+chunkSize, contentLen)
		chunks = append(chunks, models.Chunk{
			ChunkID: len(chunks) + 1,
			Start:   start,
			Content: string(runes[start:end]),
		})
		// the next window would only repeat the overlap
		if end == contentLen {
			break
		}
	}
	return chunks, nil
}

// ChunkCount is the number of chunks ChunkText produces for a text of n runes.
func ChunkCount(n, chunkSize, overlap int) int {
	if n == 0 {
		return 0
	}
	if n <= chunkSize {
		return 1
	}
	step := chunkSize - overlap
	return (n - overlap + step - 1) / step
}
