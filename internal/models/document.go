package models

import "fmt"

// Format is the document format, picked from the uploaded file's extension.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatEML  Format = "eml"
)

// Document is an uploaded file and the plain text extracted from it.
// It lives for one request only.
type Document struct {
	Filename string
	Format   Format
	Data     []byte
	Text     string
}

// Chunk represents a window of the document text
type Chunk struct {
	ChunkID int // 1-based sequence number
	Start   int // offset in runes
	Content string
}

// SearchResult is a chunk returned by a nearest-neighbour lookup.
type SearchResult struct {
	Chunk    Chunk
	Distance float32
}

// Question is one atomic query with its 1-based ordinal.
type Question struct {
	Ordinal int
	Text    string
}

// Key returns the answer key, e.g. "Q3".
func (q Question) Key() string {
	return QuestionKey(q.Ordinal)
}

func QuestionKey(ordinal int) string {
	return fmt.Sprintf("Q%d", ordinal)
}

// AnswerMap maps question keys to answers. Values are strings unless the
// model returned structured content under the key.
type AnswerMap map[string]any
