package grading

import (
	"strings"
	"unicode"
)

// NormalizeLine lower-cases s, trims it and collapses every internal run of
// whitespace into a single space.
func NormalizeLine(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), isSpace), " ")
}

// isSpace is the whitespace set browsers use for \s: Unicode spaces plus the
// byte order mark, but not NEL (U+0085).
func isSpace(r rune) bool {
	return r == '\ufeff' || (unicode.IsSpace(r) && r != '\u0085')
}

// NormalizeLineAny is NormalizeLine for values decoded from loosely typed JSON.
// Anything that is not a string normalizes to "".
func NormalizeLineAny(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return NormalizeLine(s)
}

// NormalizeLines normalizes every line and drops the ones that end up empty.
func NormalizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if n := NormalizeLine(l); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ParseSubmission splits raw multi-line text on newlines and normalizes it.
func ParseSubmission(text string) []string {
	return NormalizeLines(strings.Split(text, "\n"))
}
