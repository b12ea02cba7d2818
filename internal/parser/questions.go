package parser

import (
	"regexp"
	"strings"

	"github.com/Velmurugan2695/document-question-answer/internal/models"
)

var (
	newlineRe  = regexp.MustCompile(`[\r\n]+`)
	questionRe = regexp.MustCompile(`\?\s+`)
)

// SplitQuestions breaks a question blob on newlines and on whitespace after a
// '?', so "What is X? What is Y?" yields two questions. Blank segments are
// dropped and ordinals follow input order.
func SplitQuestions(input string) []models.Question {
	// RE2 has no lookbehind; keep the '?' and turn the gap into a newline
	input = questionRe.ReplaceAllString(input, "?\n")
	return QuestionsFromList(newlineRe.Split(input, -1))
}

// QuestionsFromList numbers an already split list of questions.
func QuestionsFromList(list []string) []models.Question {
	questions := make([]models.Question, 0, len(list))
	for _, q := range list {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		questions = append(questions, models.Question{
			Ordinal: len(questions) + 1,
			Text:    q,
		})
	}
	return questions
}
