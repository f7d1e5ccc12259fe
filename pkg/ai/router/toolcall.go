// Package router recovers structured tool calls from raw language-model
// output. Models wrap JSON in prose or markdown fences at will, so parsing
// cascades through several strategies and the first success wins.
package router

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a known tool. The zero value is not valid; unknown tool
// names map to KindUnrecognized explicitly.
type Kind string

const (
	KindWeather        Kind = "hava_durumu"
	KindKnowledge      Kind = "kurum_bilgisi"
	KindTicket         Kind = "destek_talebi"
	KindDocumentQuery  Kind = "dokuman_sorgula"
	KindDocumentSelect Kind = "dokuman_sec"
	KindUnrecognized   Kind = "unrecognized"
)

// ToolCall is the closed, validated form of one action descriptor. Only the
// fields of the matching Kind are populated.
type ToolCall struct {
	Kind Kind
	Name string // raw tool name as emitted by the model

	City        string // hava_durumu
	Question    string // kurum_bilgisi
	Department  string // destek_talebi
	Description string
	Urgency     string
	Category    string
	Query       string // dokuman_sorgula / dokuman_sec
	ReportID    int    // dokuman_sec
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Extract recovers tool calls from raw model output. Strategies, first
// success wins: the whole text as JSON, fenced code blocks, then the first
// balanced `{...}` or `[...]` span in order of appearance. The second return
// is false when no strategy yields at least one object carrying a "tool"
// field.
func Extract(raw string) ([]ToolCall, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}

	candidates := []string{trimmed}
	for _, m := range fencedBlock.FindAllStringSubmatch(trimmed, -1) {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	// Whichever delimiter appears first owns the span: an array of calls
	// must not be shadowed by its own first element.
	objIdx := strings.IndexByte(trimmed, '{')
	arrIdx := strings.IndexByte(trimmed, '[')
	if arrIdx >= 0 && (objIdx < 0 || arrIdx < objIdx) {
		if span, ok := balancedSpan(trimmed, '[', ']'); ok {
			candidates = append(candidates, span)
		}
		if span, ok := balancedSpan(trimmed, '{', '}'); ok {
			candidates = append(candidates, span)
		}
	} else {
		if span, ok := balancedSpan(trimmed, '{', '}'); ok {
			candidates = append(candidates, span)
		}
		if span, ok := balancedSpan(trimmed, '[', ']'); ok {
			candidates = append(candidates, span)
		}
	}

	for _, candidate := range candidates {
		if calls, ok := decodeCalls(candidate); ok {
			return calls, true
		}
	}
	return nil, false
}

// balancedSpan returns the first balanced open..close span, tracking JSON
// string literals so braces inside values never shift the depth. A stray
// close delimiter in trailing prose must not swallow the prose.
func balancedSpan(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// decodeCalls parses one candidate as a single action object or a list of
// action objects.
func decodeCalls(candidate string) ([]ToolCall, bool) {
	var single map[string]any
	if err := json.Unmarshal([]byte(candidate), &single); err == nil {
		call, ok := validate(single)
		if !ok {
			return nil, false
		}
		return []ToolCall{call}, true
	}

	var list []map[string]any
	if err := json.Unmarshal([]byte(candidate), &list); err == nil {
		var calls []ToolCall
		for _, item := range list {
			if call, ok := validate(item); ok {
				calls = append(calls, call)
			}
		}
		if len(calls) == 0 {
			return nil, false
		}
		return calls, true
	}

	return nil, false
}

// validate maps a parsed object onto a known shape. Objects without a "tool"
// field are not tool calls at all; a present but unknown tool name becomes
// KindUnrecognized so the caller can answer explicitly.
func validate(obj map[string]any) (ToolCall, bool) {
	name, ok := stringField(obj, "tool")
	if !ok || name == "" {
		return ToolCall{}, false
	}

	call := ToolCall{Name: name}
	switch Kind(name) {
	case KindWeather:
		call.Kind = KindWeather
		call.City, _ = stringField(obj, "sehir")
	case KindKnowledge:
		call.Kind = KindKnowledge
		call.Question, _ = stringField(obj, "soru")
	case KindTicket:
		call.Kind = KindTicket
		call.Department, _ = stringField(obj, "departman")
		call.Description, _ = stringField(obj, "aciklama")
		call.Urgency, _ = stringField(obj, "aciliyet")
		call.Category, _ = stringField(obj, "kategori")
	case KindDocumentQuery:
		call.Kind = KindDocumentQuery
		call.Query, _ = stringField(obj, "sorgu")
	case KindDocumentSelect:
		call.Kind = KindDocumentSelect
		call.Query, _ = stringField(obj, "sorgu")
		call.ReportID = intField(obj, "rapor_id")
	default:
		call.Kind = KindUnrecognized
	}
	return call, true
}

func stringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intField accepts both JSON numbers and numeric strings, since models emit
// either form for identifiers.
func intField(obj map[string]any, key string) int {
	switch v := obj[key].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
