package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Velmurugan2695/document-question-answer/internal/models"
)

func texts(questions []models.Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.Text
	}
	return out
}

func TestSplitQuestions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "newline separated",
			input: "How long is the lease?\nWhat is the rent?",
			want:  []string{"How long is the lease?", "What is the rent?"},
		},
		{
			name:  "question marks on one line",
			input: "What is X? What is Y?",
			want:  []string{"What is X?", "What is Y?"},
		},
		{
			name:  "blank lines and padding",
			input: "\n\n  Who signed it?  \r\n\r\n\tWhen?\n",
			want:  []string{"Who signed it?", "When?"},
		},
		{
			name:  "no question mark",
			input: "List the parties",
			want:  []string{"List the parties"},
		},
		{
			name:  "question mark without trailing space",
			input: "Is it A?B",
			want:  []string{"Is it A?B"},
		},
		{
			name:  "empty",
			input: "   \n ",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitQuestions(tt.input)
			assert.Equal(t, tt.want, texts(got))
			for i, q := range got {
				assert.Equal(t, i+1, q.Ordinal)
				assert.Equal(t, models.QuestionKey(i+1), q.Key())
			}
		})
	}
}

func TestSplitQuestionsIsStable(t *testing.T) {
	input := "What is X? What is Y?\nAnd Z"
	first := SplitQuestions(input)

	joined := ""
	for _, q := range first {
		joined += q.Text + "\n"
	}
	assert.Equal(t, first, SplitQuestions(joined))
}

func TestQuestionsFromList(t *testing.T) {
	got := QuestionsFromList([]string{" first ", "", "second"})
	assert.Equal(t, []models.Question{
		{Ordinal: 1, Text: "first"},
		{Ordinal: 2, Text: "second"},
	}, got)
	assert.Equal(t, "Q2", got[1].Key())
}
