package rag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Velmurugan2695/document-question-answer/internal/llmservice"
	"github.com/Velmurugan2695/document-question-answer/internal/models"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    map[string]any
		wantErr bool
	}{
		{name: "plain object", reply: `{"Q1": "12 months"}`, want: map[string]any{"Q1": "12 months"}},
		{name: "fenced", reply: "```json\n{\"Q1\": \"x\"}\n```", want: map[string]any{"Q1": "x"}},
		{name: "bare fence", reply: "```\n{\"Q1\": \"x\"}\n```", want: map[string]any{"Q1": "x"}},
		{name: "think block", reply: "<think>\n{\"Q1\": \"draft\"}\n</think>\n{\"Q1\": \"final\"}", want: map[string]any{"Q1": "final"}},
		{name: "surrounding prose", reply: "Sure! Here it is: {\"Q1\": 3} Hope that helps.", want: map[string]any{"Q1": float64(3)}},
		{name: "not json", reply: "The document does not say.", wantErr: true},
		{name: "array", reply: `["Q1"]`, wantErr: true},
		{name: "null", reply: "null", wantErr: true},
		{name: "empty", reply: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.reply)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAnswer(t *testing.T) {
	v, err := parseAnswer("Q2", `{"Q2": ["a", 1]}`)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", float64(1)}, v)

	_, err = parseAnswer("Q2", `{"Q1": "x"}`)
	var perr *AnswerParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Q2", perr.Key)
	assert.Equal(t, `{"Q1": "x"}`, perr.Raw)
}

func TestInlineValue(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "status",
			err:  newTransportError("Q1", &llmservice.TransportError{Status: 429, Err: errors.New("rate limited")}),
			want: "Error: 429",
		},
		{
			name: "no status",
			err:  newTransportError("Q1", &llmservice.TransportError{Err: errors.New("connection refused")}),
			want: "Error: connection refused",
		},
		{
			name: "plain error",
			err:  newTransportError("Q1", errors.New("boom")),
			want: "Error: boom",
		},
		{
			name: "parse",
			err:  &AnswerParseError{Key: "Q1", Err: errors.New("unexpected end of JSON input")},
			want: "unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inlineValue(tt.err))
		})
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	results := []models.SearchResult{
		{Chunk: models.Chunk{Content: "  nearest chunk \n"}},
		{Chunk: models.Chunk{Content: "second chunk"}},
	}
	prompt := BuildQuestionPrompt(models.Question{Ordinal: 3, Text: "What is the rent?"}, results)

	assert.Contains(t, prompt, "nearest chunk\n---\nsecond chunk")
	assert.Contains(t, prompt, "Question Q3: What is the rent?")
	assert.Contains(t, prompt, `"Q3": "Answer to the question"`)
}

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 10))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
	assert.Equal(t, "héł", Truncate("héłło", 3))
	assert.Equal(t, "héłło", Truncate("héłło", 5))
}
