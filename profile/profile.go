// Package profile builds word-frequency fingerprints of languages.
//
// A Profile maps each distinct token of a text to its relative frequency.
// A Collection holds one Profile per language label, and a Vocabulary is the
// sorted union of every word in a Collection. All three are read-only once
// built and safe to share between goroutines.
package profile

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidInput is returned when an operation's structural preconditions
// do not hold: empty collections, mismatched lengths, unknown metrics.
var ErrInvalidInput = errors.New("invalid input")

// Precision is the number of decimal places frequencies and distances are
// rounded to.
const Precision = 5

// Round rounds x to Precision decimal places.
func Round(x float64) float64 {
	const scale = 1e5
	return math.Round(x*scale) / scale
}

// Profile maps a token to its relative frequency in a text.
type Profile map[string]float64

// Build computes the frequency profile of tokens: count / total for every
// distinct token, rounded to Precision decimals. An empty sequence yields an
// empty profile.
func Build(tokens []string) (Profile, error) {
	counts := make(map[string]int)
	for _, tok := range tokens {
		counts[tok]++
	}
	total := float64(len(tokens))
	p := make(Profile, len(counts))
	for tok, n := range counts {
		p[tok] = Round(float64(n) / total)
	}
	return p, nil
}

// Words returns the profile's tokens sorted by descending frequency, ties in
// lexicographic order.
func (p Profile) Words() []string {
	words := make([]string, 0, len(p))
	for w := range p {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if p[words[i]] != p[words[j]] {
			return p[words[i]] > p[words[j]]
		}
		return words[i] < words[j]
	})
	return words
}

// Collection maps a language label to that language's profile.
type Collection map[string]Profile

// BuildCollection profiles a labeled corpus. corpus[i] is the token sequence
// of a text written in labels[i]. Texts sharing a label are merged into one
// profile; a later text never replaces an earlier one.
func BuildCollection(corpus [][]string, labels []string) (Collection, error) {
	if len(corpus) != len(labels) {
		return nil, fmt.Errorf("%w: %d texts but %d labels", ErrInvalidInput, len(corpus), len(labels))
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: empty corpus", ErrInvalidInput)
	}

	merged := make(map[string][]string)
	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("%w: empty label for text %d", ErrInvalidInput, i)
		}
		merged[label] = append(merged[label], corpus[i]...)
	}

	c := make(Collection, len(merged))
	for label, tokens := range merged {
		p, err := Build(tokens)
		if err != nil {
			return nil, err
		}
		c[label] = p
	}
	return c, nil
}

// Labels returns the collection's language labels in sorted order.
func (c Collection) Labels() []string {
	labels := make([]string, 0, len(c))
	for l := range c {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// validate checks the shape required by everything downstream of profiling.
func (c Collection) validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: empty profile collection", ErrInvalidInput)
	}
	for label, p := range c {
		if label == "" {
			return fmt.Errorf("%w: empty language label", ErrInvalidInput)
		}
		if p == nil {
			return fmt.Errorf("%w: nil profile for %q", ErrInvalidInput, label)
		}
	}
	return nil
}
