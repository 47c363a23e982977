// Package generator builds target sentences.
package generator

import (
	"math/rand"
	"strings"
	"time"
)

const (
	// MinFingerWordLen is the shortest generated finger-practice word.
	MinFingerWordLen = 3
	// MaxFingerWordLen is the longest generated finger-practice word.
	MaxFingerWordLen = 6
)

// Generator produces randomized target text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Words picks count words uniformly from words and joins them with single spaces.
func (g *Generator) Words(words []string, count int) string {
	usable := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" && !strings.ContainsAny(w, " \t") {
			usable = append(usable, w)
		}
	}
	if len(usable) == 0 || count <= 0 {
		return ""
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, usable[g.rnd.Intn(len(usable))])
	}
	return strings.Join(result, " ")
}

// Finger builds count words of 3 to 6 runes drawn only from keys.
func (g *Generator) Finger(keys []rune, count int) string {
	if len(keys) == 0 || count <= 0 {
		return ""
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		n := MinFingerWordLen + g.rnd.Intn(MaxFingerWordLen-MinFingerWordLen+1)
		word := make([]rune, n)
		for j := range word {
			word[j] = keys[g.rnd.Intn(len(keys))]
		}
		result = append(result, string(word))
	}
	return strings.Join(result, " ")
}
