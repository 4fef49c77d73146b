// Package jsonarr extracts the first balanced JSON array from free-form
// text. Summarization providers wrap their structured output in prose and
// markdown fences often enough that this seam gets its own package and
// test suite.
package jsonarr

import (
	"encoding/json"
	"errors"
)

// ErrNoArray is returned when the text contains no balanced JSON array
var ErrNoArray = errors.New("no JSON array found in text")

// ExtractFirst returns the first balanced, syntactically valid JSON array
// in text. Bracket characters inside JSON strings are ignored, so values
// like "see [docs]" do not break the scan.
func ExtractFirst(text string) (json.RawMessage, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if start >= 0 && inString {
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
			if start >= 0 {
				inString = true
			}
		case '[':
			if start < 0 {
				start = i
			}
			depth++
		case ']':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				candidate := text[start : i+1]
				if json.Valid([]byte(candidate)) {
					return json.RawMessage(candidate), nil
				}
				// Malformed despite balancing: restart the scan after
				// this candidate.
				start = -1
			}
		}
	}

	return nil, ErrNoArray
}

// Unmarshal extracts the first array and decodes it into out.
func Unmarshal(text string, out interface{}) error {
	raw, err := ExtractFirst(text)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
