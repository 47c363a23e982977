// Package buffer shapes raw input into the typed-text buffer.
package buffer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxOvertype is the smallest excess over the target word length that is rejected.
const MaxOvertype = 10

// Words splits s on whitespace. An empty or blank string yields a single empty word.
func Words(s string) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	return words
}

// Shape applies the input rules to a candidate buffer value for the given
// target. It returns the shaped value and false when the change must be
// dropped.
func Shape(candidate, target string) (string, bool) {
	text := strings.TrimLeftFunc(candidate, unicode.IsSpace)
	text = collapseSpaces(normalizeSpace(text))

	typedWords := Words(text)
	targetWords := Words(target)

	if len(typedWords) == len(targetWords) && strings.HasSuffix(text, " ") {
		text = text[:len(text)-1]
	}

	lastTyped := typedWords[len(typedWords)-1]
	expected := ""
	if idx := len(typedWords) - 1; idx < len(targetWords) {
		expected = targetWords[idx]
	}
	if utf8.RuneCountInString(lastTyped)-utf8.RuneCountInString(expected) >= MaxOvertype {
		return "", false
	}
	return text, true
}

// normalizeSpace turns tabs, newlines and other whitespace into plain spaces.
func normalizeSpace(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return r != ' ' && unicode.IsSpace(r) }) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

func collapseSpaces(s string) string {
	if !strings.Contains(s, "  ") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
