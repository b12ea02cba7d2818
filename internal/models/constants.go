package models

const (
	DefaultChunkSize    = 500 // characters
	DefaultChunkOverlap = 100 // characters
	DefaultTopK         = 5
	DefaultMaxChars     = 500_000
	DefaultTemperature  = 0.3

	ContextSeparator = "\n---\n"
	ThinkTag         = `(?s)<think>.*?</think>`
	CodeFence        = "(?s)```(?:json|JSON)?\\s*(.*?)\\s*```"
)

var (
	// SystemPrompt is sent ahead of every question prompt.
	SystemPrompt = `You are a legal assistant. You answer questions about a single document and always reply with one JSON object and nothing else.`

	// QuestionPromptTemplate takes the retrieved context, the answer key and the question.
	QuestionPromptTemplate = `Answer the question using only the context below, which was taken from the document.
If the context does not contain the answer, say that the document does not say.

Context:
"""
%s
"""

Question %[2]s: %[3]s

Only respond in this format:
{
  "%[2]s": "Answer to the question"
}
`

	// DocumentPromptTemplate takes the whole (truncated) document and the numbered questions.
	DocumentPromptTemplate = `Given a legal document and multiple questions, your task is to:
1. Answer each question accurately based on the document.
2. Respond in clean JSON format with keys as "Q1", "Q2", etc.

Document:
"""
%s
"""

Questions:
"""
%s
"""

Only respond in this format:
{
  "Q1": "Answer to question 1",
  "Q2": "Answer to question 2",
  ...
}
`
)
