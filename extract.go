package tubechat

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	codeFenceRe     = regexp.MustCompile("(?i)```(?:json)?")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSONObject recovers a single JSON object from a raw model response.
// The response may carry surrounding prose, Markdown code fences, trailing
// commas or be cut off at the end. Returns EPARSE if no object can be found
// or the object is still invalid after one repair pass.
func ExtractJSONObject(raw string) (map[string]any, error) {
	obj, err := decodeJSONObject[map[string]any](raw)
	if err != nil {
		return nil, err
	}
	return *obj, nil
}

// ExtractKnowledgeGraph recovers a KnowledgeGraph from a raw model response.
// Returns EPARSE if no object can be recovered or mermaidCode is missing.
// A failed extraction never returns a partially populated graph.
func ExtractKnowledgeGraph(raw string) (*KnowledgeGraph, error) {
	graph, err := decodeJSONObject[KnowledgeGraph](raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(graph.MermaidCode) == "" {
		return nil, Errorf(EPARSE, "missing required field: mermaidCode")
	}
	return graph, nil
}

// decodeJSONObject locates the object in raw and decodes it. A strict parse
// is attempted first; on failure exactly one repair pass is applied.
func decodeJSONObject[T any](raw string) (*T, error) {
	candidate, err := locateJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var strict T
	if err := json.Unmarshal([]byte(candidate), &strict); err == nil {
		return &strict, nil
	}

	var repaired T
	if err := json.Unmarshal([]byte(RepairJSON(candidate)), &repaired); err != nil {
		return nil, Errorf(EPARSE, "malformed JSON: %w", err)
	}
	return &repaired, nil
}

// locateJSONObject strips code fences and returns the text from the first
// "{" to the last "}". A response truncated before any closing brace yields
// everything after the first "{".
func locateJSONObject(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = codeFenceRe.ReplaceAllString(s, "")

	start := strings.Index(s, "{")
	if start < 0 {
		return "", Errorf(EPARSE, "no JSON object found")
	}

	end := strings.LastIndex(s, "}")
	if end < start {
		return strings.TrimSpace(s[start:]), nil
	}
	return s[start : end+1], nil
}

// RepairJSON applies the truncation heuristics used for model output:
// missing "]" and then missing "}" are appended, and commas directly before
// a closing "}" or "]" are removed. Brackets inside string literals are not
// counted. The result is not guaranteed to be valid JSON.
func RepairJSON(s string) string {
	openBraces, closeBraces, openBrackets, closeBrackets := countBrackets(s)

	var sb strings.Builder
	sb.WriteString(s)
	if n := openBrackets - closeBrackets; n > 0 {
		sb.WriteString(strings.Repeat("]", n))
	}
	if n := openBraces - closeBraces; n > 0 {
		sb.WriteString(strings.Repeat("}", n))
	}

	return trailingCommaRe.ReplaceAllString(sb.String(), "$1")
}

func countBrackets(s string) (openBraces, closeBraces, openBrackets, closeBrackets int) {
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
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
		case '{':
			openBraces++
		case '}':
			closeBraces++
		case '[':
			openBrackets++
		case ']':
			closeBrackets++
		}
	}
	return openBraces, closeBraces, openBrackets, closeBrackets
}
