package llm

import (
	"errors"
	"strings"
)

// Errors returned by StrictJSON.
var (
	ErrNoJSON         = errors.New("response does not start with a JSON object or array")
	ErrUnterminated   = errors.New("JSON value is not terminated")
	ErrTrailingOutput = errors.New("unexpected text after JSON value")
)

// StripCodeFence removes one surrounding markdown code fence, with or
// without a language tag, and trims whitespace. Other text is left alone.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}

	body := text[3 : len(text)-3]
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		tag := strings.TrimSpace(body[:idx])
		if !strings.ContainsAny(tag, " {[\"") {
			body = body[idx+1:]
		}
	}
	return strings.TrimSpace(body)
}

// StrictJSON returns the single JSON object or array that text consists of,
// allowing only whitespace and a code fence around it.
func StrictJSON(text string) (string, error) {
	body := StripCodeFence(text)
	if body == "" {
		return "", ErrNoJSON
	}

	var closer byte
	switch body[0] {
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return "", ErrNoJSON
	}

	value := extractBalanced(body, body[0], closer)
	switch {
	case value == "":
		return "", ErrUnterminated
	case len(value) != len(body):
		return "", ErrTrailingOutput
	}
	return value, nil
}

// extractBalanced returns the prefix of s from its opening delimiter up to the
// matching close, ignoring delimiters inside JSON strings. It returns "" when
// s does not start with opener or the value never closes.
func extractBalanced(s string, opener, closer byte) string {
	if s == "" || s[0] != opener {
		return ""
	}

	depth := 0
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
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
