package rag

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Velmurugan2695/document-question-answer/internal/models"
)

var (
	thinkRe = regexp.MustCompile(models.ThinkTag)
	fenceRe = regexp.MustCompile(models.CodeFence)
)

// cleanReply strips reasoning blocks and code fences and cuts the reply down
// to its outermost JSON object.
func cleanReply(reply string) string {
	reply = thinkRe.ReplaceAllString(reply, "")
	if m := fenceRe.FindStringSubmatch(reply); m != nil {
		reply = m[1]
	}
	reply = strings.TrimSpace(reply)
	if i, j := strings.Index(reply, "{"), strings.LastIndex(reply, "}"); i >= 0 && j > i {
		reply = reply[i : j+1]
	}
	return reply
}

// ParseReply decodes a model reply into a JSON object.
func ParseReply(reply string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(cleanReply(reply)), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("reply is not a JSON object")
	}
	return obj, nil
}

// parseAnswer extracts the value stored under key from a reply.
func parseAnswer(key, reply string) (any, error) {
	obj, err := ParseReply(reply)
	if err != nil {
		return nil, &AnswerParseError{Key: key, Raw: reply, Err: err}
	}
	v, ok := obj[key]
	if !ok {
		return nil, &AnswerParseError{Key: key, Raw: reply, Err: fmt.Errorf("reply has no %q key", key)}
	}
	return v, nil
}
