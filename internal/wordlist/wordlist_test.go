package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("alpha\n\n  beta gamma \n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if len(words) != 3 || words[0] != "alpha" || words[2] != "gamma" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n \n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "en.txt")
	words, source, err := Resolve(missing, "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if source != DefaultSource {
		t.Fatalf("expected default source, got %q", source)
	}
	if len(words) < 100 {
		t.Fatalf("expected embedded list, got %d words", len(words))
	}
	if _, _, err := Resolve(missing, "fr"); err == nil {
		t.Fatalf("expected error for missing non-english list")
	}
}

func TestResolveFiltersWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("ok\nco-op\nfine\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	words, source, err := Resolve(path, "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if source != path {
		t.Fatalf("expected source %q, got %q", path, source)
	}
	if len(words) != 2 {
		t.Fatalf("expected filtered words, got %v", words)
	}
}
