package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// code fence at a line start, with an optional language tag, e.g. "```json" or "~~~"
var fenceRegex = regexp.MustCompile("(?m)^[ \t]*(```|~~~)[A-Za-z0-9_+-]*")

// ParseError reports model output that could not be parsed as a JSON object.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model output is not valid JSON: %s (raw: %q)", e.Reason, truncate(e.Raw, 200))
}

// Sanitize turns model output into a JSON candidate: code fences are removed,
// the text is trimmed to the span between the first '{' and the last '}',
// and trailing commas before '}' or ']' are dropped. String literals are never changed.
// Sanitize is idempotent.
func Sanitize(text string) string {
	s := fenceRegex.ReplaceAllString(text, "")
	if start := strings.IndexByte(s, '{'); start >= 0 {
		if end := strings.LastIndexByte(s, '}'); end > start {
			s = s[start : end+1]
		}
	}
	for {
		next := dropTrailingCommas(s)
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// dropTrailingCommas removes every ',' outside string literals that is followed
// by '}' or ']', together with the whitespace in between.
func dropTrailingCommas(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == ',':
			j := i + 1
			for j < len(s) && strings.IndexByte(" \t\r\n", s[j]) >= 0 {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				i = j - 1
				continue
			}
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// ParseDocument sanitizes text and decodes it as a JSON object.
// It never substitutes a fallback document: failures are returned as *ParseError.
func ParseDocument(text string) (map[string]any, error) {
	s := Sanitize(text)
	if s == "" {
		return nil, &ParseError{Raw: text, Reason: "empty output"}
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, &ParseError{Raw: text, Reason: err.Error()}
	}
	if doc == nil {
		return nil, &ParseError{Raw: text, Reason: "output is not a JSON object"}
	}
	return doc, nil
}
