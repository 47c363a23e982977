package wordlist

import "testing"

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	for _, word := range []string{"hello", "Hello"} {
		if !filter(word) {
			t.Fatalf("expected %q to pass english filter", word)
		}
	}
	for _, word := range []string{"", "résumé", "naïve", "don’t", "co-op"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterOtherLanguages(t *testing.T) {
	filter := FilterForLang("de")
	if !filter("straße") {
		t.Fatalf("expected straße to pass")
	}
	if filter("a\u0000b") || filter("") {
		t.Fatalf("expected control characters and empty words to be rejected")
	}
}
