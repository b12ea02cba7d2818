package rag

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Velmurugan2695/document-question-answer/internal/llmservice"
)

// RetrievalTransportError means one question got no reply from the model:
// the LLM call failed, returned a non-2xx status or timed out.
type RetrievalTransportError struct {
	Key    string
	Status int
	Err    error
}

func (e *RetrievalTransportError) Error() string {
	return fmt.Sprintf("llm call for %s failed: %s", e.Key, e.Reason())
}

func (e *RetrievalTransportError) Unwrap() error { return e.Err }

// Reason is the status code when one was received, otherwise the cause.
func (e *RetrievalTransportError) Reason() string {
	if e.Status != 0 {
		return strconv.Itoa(e.Status)
	}
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

// AnswerParseError means the model replied but the reply was not the JSON
// object that was asked for.
type AnswerParseError struct {
	Key string
	Raw string
	Err error
}

func (e *AnswerParseError) Error() string {
	return fmt.Sprintf("failed to parse answer for %s: %v", e.Key, e.Err)
}

func (e *AnswerParseError) Unwrap() error { return e.Err }

func newTransportError(key string, err error) *RetrievalTransportError {
	var terr *llmservice.TransportError
	if errors.As(err, &terr) {
		cause := terr.Err
		if cause == nil {
			cause = terr
		}
		return &RetrievalTransportError{Key: key, Status: terr.Status, Err: cause}
	}
	return &RetrievalTransportError{Key: key, Err: err}
}

// inlineValue is what gets stored under a question's key when answering it
// failed.
func inlineValue(err error) string {
	var perr *AnswerParseError
	if errors.As(err, &perr) {
		return perr.Err.Error()
	}
	var terr *RetrievalTransportError
	if errors.As(err, &terr) {
		return "Error: " + terr.Reason()
	}
	return "Error: " + err.Error()
}
