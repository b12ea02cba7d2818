// Package render formats an answer map for people: Markdown, and HTML
// converted from it.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/Velmurugan2695/document-question-answer/internal/models"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// Keys returns the answer keys in question order (Q1, Q2, ..., Q10), with
// any other keys sorted after them.
func Keys(answers models.AnswerMap) []string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, iok := ordinal(keys[i])
		oj, jok := ordinal(keys[j])
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func ordinal(key string) (int, bool) {
	if !strings.HasPrefix(key, "Q") {
		return 0, false
	}
	n, err := strconv.Atoi(key[1:])
	return n, err == nil
}

// Markdown renders one section per answer. Lists become bullet lists and
// objects become "key: value" bullets.
func Markdown(answers models.AnswerMap) string {
	var b strings.Builder
	b.WriteString("## Response\n\n")
	for _, k := range Keys(answers) {
		fmt.Fprintf(&b, "### %s\n\n", k)
		switch v := answers[k].(type) {
		case []any:
			for _, item := range v {
				fmt.Fprintf(&b, "- %s\n", scalar(item))
			}
		case map[string]any:
			subkeys := make([]string, 0, len(v))
			for sk := range v {
				subkeys = append(subkeys, sk)
			}
			sort.Strings(subkeys)
			for _, sk := range subkeys {
				fmt.Fprintf(&b, "- **%s:** %s\n", sk, scalar(v[sk]))
			}
		default:
			b.WriteString(scalar(v))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML converts the Markdown rendering. Raw HTML coming from the model is
// dropped by goldmark's default renderer.
func HTML(answers models.AnswerMap) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(answers)), &buf); err != nil {
		return "", fmt.Errorf("failed to render answers: %w", err)
	}
	return buf.String(), nil
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return "`" + string(b) + "`"
	default:
		return fmt.Sprint(t)
	}
}
