package textutil

import (
	"fmt"

	"github.com/kljensen/snowball"
)

// Stemmer reduces words to their snowball stem for one language.
type Stemmer struct {
	language string
}

// NewStemmer returns a stemmer for a snowball language name such as
// "english", "french" or "russian".
func NewStemmer(lang string) (*Stemmer, error) {
	if _, err := snowball.Stem("test", lang, true); err != nil {
		return nil, fmt.Errorf("stemmer: %w", err)
	}
	return &Stemmer{language: lang}, nil
}

// Stem returns the stem of word. Words the stemmer rejects are returned
// unchanged.
func (s *Stemmer) Stem(word string) string {
	stem, err := snowball.Stem(word, s.language, true)
	if err != nil || stem == "" {
		return word
	}
	return stem
}

// Analyzer converts raw text to tokens: normalize, tokenize, drop stop
// words, then optionally stem.
type Analyzer struct {
	StopWords map[string]bool
	Stemmer   *Stemmer
}

// Tokens runs the analysis chain over text.
func (a *Analyzer) Tokens(text string) []string {
	tokens := RemoveStopWords(Tokenize(Normalize(text)), a.StopWords)
	if a.Stemmer == nil {
		return tokens
	}
	for i, tok := range tokens {
		tokens[i] = a.Stemmer.Stem(tok)
	}
	return tokens
}
