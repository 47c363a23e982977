// Package keys classifies key identifiers and maps fingers to keys.
package keys

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Space is the identifier the renderer uses for the space bar.
const Space = "space"

// IsTextKey reports whether key produces visible text when pressed.
func IsTextKey(key string) bool {
	if key == Space || key == " " {
		return true
	}
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsGraphic(r) && !unicode.IsSpace(r)
}

// Finger identifies the finger practiced in learn mode.
type Finger string

const (
	Pinky  Finger = "pinky"
	Ring   Finger = "ring"
	Middle Finger = "middle"
	Index  Finger = "index"
)

// Fingers lists every finger in keyboard order.
var Fingers = []Finger{Pinky, Ring, Middle, Index}

var fingerKeys = map[Finger]string{
	Pinky:  "qazp;/",
	Ring:   "wsxol.",
	Middle: "edcik,",
	Index:  "rfvtgbyhnujm",
}

// ParseFinger converts a finger name into a Finger.
func ParseFinger(s string) (Finger, error) {
	f := Finger(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fingerKeys[f]; !ok {
		return "", fmt.Errorf("unknown finger %q (available: pinky, ring, middle, index)", s)
	}
	return f, nil
}

// FingerKeys returns the QWERTY keys typed by f on both hands.
func FingerKeys(f Finger) []rune {
	return []rune(fingerKeys[f])
}

// Restrict keeps only the keys of f that appear in allowed. An empty allowed
// set keeps every key.
func Restrict(f Finger, allowed string) []rune {
	all := FingerKeys(f)
	if strings.TrimSpace(allowed) == "" {
		return all
	}
	out := make([]rune, 0, len(all))
	for _, r := range all {
		if strings.ContainsRune(allowed, r) {
			out = append(out, r)
		}
	}
	return out
}
