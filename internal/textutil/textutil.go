// Package textutil turns raw text into the token sequences language
// profiles are built from.
package textutil

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var tokenizeRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize extracts word tokens from text (Unicode-aware, matching Python's (?u)\b\w+\b).
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

var (
	newlineRe    = regexp.MustCompile(`[\n\r]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// NormalizeWhitespaces replaces newlines and multiple whitespace with a single space.
func NormalizeWhitespaces(text string) string {
	text = newlineRe.ReplaceAllString(text, " ")
	return multiSpaceRe.ReplaceAllString(text, " ")
}

// Normalize composes text to NFC and lowercases it without
// language-specific rules.
func Normalize(text string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(text))
}

// RemoveStopWords returns tokens without the words in stop, preserving order.
func RemoveStopWords(tokens []string, stop map[string]bool) []string {
	if len(stop) == 0 {
		return tokens
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !stop[tok] {
			out = append(out, tok)
		}
	}
	return out
}

// ReadWordList reads one word per line. Blank lines and lines starting with
// '#' are skipped; words are normalized.
func ReadWordList(r io.Reader) (map[string]bool, error) {
	words := make(map[string]bool)
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[Normalize(line)] = true
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
