package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	markdownJSONBlock = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	markdownAnyBlock  = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	trailingComma     = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKey       = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlChars      = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
	wholeFencedBlock  = regexp.MustCompile("(?s)^```(?:json)?\\s*(.+?)\\s*```$")
)

// ParseAIJSON extracts and parses JSON from model output that may contain:
// - Pure JSON
// - JSON wrapped in markdown code blocks (```json ... ```)
// - JSON with surrounding text
// - JSON with trailing commas, unquoted keys or single quotes
func ParseAIJSON(input string, target interface{}) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := extractJSONFromText(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if cleaned := cleanAndFixJSON(input); cleaned != "" {
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to parse JSON from input: %s", TruncateString(input, 100))
}

// LastObjectWithKey scans text for every brace-balanced object and returns the
// last one that decodes to a JSON object containing key (a null value counts).
// Models tend to restate the prompt's example object before the real answer,
// so later candidates win.
func LastObjectWithKey(input, key string) (map[string]any, bool) {
	candidates := ExtractJSONObjects(input)
	for i := len(candidates) - 1; i >= 0; i-- {
		obj, err := decodeObject(candidates[i])
		if err != nil {
			continue
		}
		if _, ok := obj[key]; ok {
			return obj, true
		}
	}
	return nil, false
}

// ParseObject parses the whole input as a single JSON object. A surrounding
// markdown fence is allowed, surrounding prose is not: text that merely
// contains an object is rejected.
func ParseObject(input string) (map[string]any, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "\ufeff"))
	if m := wholeFencedBlock.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	if obj, err := decodeObject(s); err == nil {
		return obj, nil
	}
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, fmt.Errorf("input is not a single JSON object: %s", TruncateString(s, 100))
	}
	obj, err := decodeObject(fixJSON(s))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON object: %w", err)
	}
	return obj, nil
}

// decodeObject decodes exactly one JSON object, keeping numbers as json.Number
func decodeObject(input string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("input is not a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}
	return obj, nil
}

// extractFromMarkdown extracts JSON from markdown code blocks
// Supports: ```json {...} ```, ```{...}```, or ```\n{...}\n```
func extractFromMarkdown(input string) string {
	if matches := markdownJSONBlock.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	if matches := markdownAnyBlock.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}

	return ""
}

// extractJSONFromText finds the first JSON object or array in surrounding text
func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalancedBraces(input[start:], '{', '}'); extracted != "" {
			return extracted
		}
	}

	if start := strings.Index(input, "["); start >= 0 {
		if extracted := extractBalancedBraces(input[start:], '[', ']'); extracted != "" {
			return extracted
		}
	}

	return ""
}

// extractBalancedBraces extracts content with balanced braces
func extractBalancedBraces(input string, open, close rune) string {
	if len(input) == 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		if ch == '\\' {
			escape = true
			continue
		}

		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// cleanAndFixJSON extracts the first object or array and fixes common formatting issues
func cleanAndFixJSON(input string) string {
	s := strings.TrimPrefix(strings.TrimSpace(input), "\ufeff")
	if extracted := extractJSONFromText(s); extracted != "" {
		s = extracted
	}
	return fixJSON(s)
}

// fixJSON repairs trailing commas, unquoted keys, single quotes and control characters
func fixJSON(s string) string {
	s = trailingComma.ReplaceAllString(s, "$1")

	// {word: "value"} -> {"word": "value"}
	s = unquotedKey.ReplaceAllString(s, `$1"$2"$3`)

	s = fixSingleQuotes(s)

	return controlChars.ReplaceAllString(s, "")
}

// fixSingleQuotes converts single-quoted strings to double-quoted ones.
// Apostrophes inside words are left alone.
func fixSingleQuotes(input string) string {
	var result strings.Builder
	inDouble, inSingle, escape := false, false, false
	var prev rune // last non-space rune outside strings

	for _, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case inSingle && ch == '\'':
			inSingle = false
			ch = '"'
		case inSingle && ch == '"':
			result.WriteRune('\\')
		case inSingle:
		case ch == '"':
			inDouble = !inDouble
		case ch == '\'' && !inDouble && (prev == 0 || strings.ContainsRune(":,[{", prev)):
			inSingle = true
			ch = '"'
		}
		result.WriteRune(ch)
		if !inDouble && !inSingle && ch != ' ' && ch != '\n' && ch != '\t' {
			prev = ch
		}
	}

	return result.String()
}

// ExtractJSONObjects finds all top-level brace-balanced objects in text, in order
func ExtractJSONObjects(input string) []string {
	var objects []string

	for i := 0; i < len(input); i++ {
		if input[i] != '{' {
			continue
		}
		if extracted := extractBalancedBraces(input[i:], '{', '}'); extracted != "" {
			objects = append(objects, extracted)
			i += len(extracted) - 1
		}
	}

	return objects
}

// ValidateJSON checks if a string is valid JSON
func ValidateJSON(input string) bool {
	var js interface{}
	return json.Unmarshal([]byte(input), &js) == nil
}

// TruncateString truncates a string to maxLen runes
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
