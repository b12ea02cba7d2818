package rag

import (
	"fmt"
	"strings"

	"github.com/Velmurugan2695/document-question-answer/internal/models"
)

// BuildContext joins the retrieved chunks, nearest first.
func BuildContext(results []models.SearchResult) string {
	parts := make([]string, len(results))
	for i, res := range results {
		parts[i] = strings.TrimSpace(res.Chunk.Content)
	}
	return strings.Join(parts, models.ContextSeparator)
}

// BuildQuestionPrompt asks for a single-key JSON answer from the given context.
func BuildQuestionPrompt(q models.Question, results []models.SearchResult) string {
	return fmt.Sprintf(models.QuestionPromptTemplate, BuildContext(results), q.Key(), q.Text)
}

// BuildDocumentPrompt asks every question at once against the whole text.
func BuildDocumentPrompt(text string, questions []models.Question) string {
	lines := make([]string, len(questions))
	for i, q := range questions {
		lines[i] = fmt.Sprintf("%s: %s", q.Key(), q.Text)
	}
	return fmt.Sprintf(models.DocumentPromptTemplate, text, strings.Join(lines, "\n"))
}

// Truncate keeps the first maxChars runes of text. maxChars <= 0 disables it.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
