// Package textproc normalizes and tokenizes SMS text.
package textproc

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits messages into normalized terms with stopwords removed
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		w = strings.TrimSpace(cases.Fold().String(w))
		if w != "" {
			stops[w] = struct{}{}
		}
	}
	return &Tokenizer{stopwords: stops}
}

// NewDefaultTokenizer creates a tokenizer with the built-in English stopwords
func NewDefaultTokenizer() *Tokenizer {
	return NewTokenizer(DefaultStopwords())
}

// Tokenize returns the terms of text in order of appearance.
// Punctuation separates terms, single-rune terms and stopwords are dropped.
func (t *Tokenizer) Tokenize(text string) []string {
	// Caser values keep state, so one is built per call
	folded := cases.Fold().String(norm.NFKC.String(text))

	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if len([]rune(word)) <= 1 || t.IsStopword(word) {
			return
		}
		tokens = append(tokens, word)
	}

	for _, r := range folded {
		// apostrophes are dropped so that "don't" and "dont" coincide
		if r == '\'' || r == '’' {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// IsStopword reports whether a folded term is filtered out
func (t *Tokenizer) IsStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// Stopwords returns the stopword list in sorted order
func (t *Tokenizer) Stopwords() []string {
	words := make([]string, 0, len(t.stopwords))
	for w := range t.stopwords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
