// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed default_en.txt
var defaultEnglish string

// DefaultSource names the embedded list in messages and history.
const DefaultSource = "builtin:en"

// LoadWords reads whitespace-separated words from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	words, err := readWords(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return words, nil
}

// Default returns the embedded English word list.
func Default() []string {
	words, err := readWords(strings.NewReader(defaultEnglish))
	if err != nil {
		panic(fmt.Sprintf("embedded word list: %v", err))
	}
	return words
}

// Resolve loads the list at path, falling back to the embedded English list
// when the file does not exist and lang is English. It returns the words and
// the source they came from.
func Resolve(path, lang string) ([]string, string, error) {
	words, err := LoadWords(path)
	if err == nil {
		return filterWords(words, FilterForLang(lang)), path, nil
	}
	if errors.Is(err, os.ErrNotExist) && strings.EqualFold(lang, "en") {
		return Default(), DefaultSource, nil
	}
	return nil, "", err
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, strings.Fields(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

func filterWords(words []string, keep FilterFunc) []string {
	out := words[:0:0]
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return words
	}
	return out
}
