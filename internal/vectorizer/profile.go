package vectorizer

import (
	"fmt"

	"github.com/happyhackingspace/dil/profile"
)

// ProfileVectorizer projects texts onto the vocabulary of a profile
// collection. The value of a present word is the highest frequency any
// language assigns to it.
type ProfileVectorizer struct {
	vocab   *profile.Vocabulary
	maxFreq []float64 // indexed like vocab
}

// New builds the vocabulary of c and the per-word maximum frequencies.
func New(c profile.Collection) (*ProfileVectorizer, error) {
	vocab, err := profile.NewVocabulary(c)
	if err != nil {
		return nil, err
	}
	return newVectorizer(c, vocab), nil
}

// NewWithVocabulary reuses a vocabulary already built from c.
func NewWithVocabulary(c profile.Collection, vocab *profile.Vocabulary) (*ProfileVectorizer, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: empty profile collection", profile.ErrInvalidInput)
	}
	if vocab == nil || !vocab.Covers(c) {
		return nil, fmt.Errorf("%w: vocabulary was not built from this collection", profile.ErrInvalidInput)
	}
	return newVectorizer(c, vocab), nil
}

func newVectorizer(c profile.Collection, vocab *profile.Vocabulary) *ProfileVectorizer {
	maxFreq := make([]float64, vocab.Len())
	for i := range maxFreq {
		word := vocab.Word(i)
		for _, p := range c {
			if f, ok := p[word]; ok && f > maxFreq[i] {
				maxFreq[i] = f
			}
		}
	}
	return &ProfileVectorizer{vocab: vocab, maxFreq: maxFreq}
}

// Vocabulary returns the shared vocabulary.
func (pv *ProfileVectorizer) Vocabulary() *profile.Vocabulary {
	return pv.vocab
}

// VocabSize returns the vocabulary size.
func (pv *ProfileVectorizer) VocabSize() int {
	return pv.vocab.Len()
}

// present returns the vocabulary indices of the distinct words of text.
// Words outside the vocabulary are dropped.
func (pv *ProfileVectorizer) present(text []string) map[int]bool {
	idx := make(map[int]bool, len(text))
	for _, w := range text {
		if i, ok := pv.vocab.Index(w); ok {
			idx[i] = true
		}
	}
	return idx
}

// Dense returns one entry per vocabulary word: the word's maximum profile
// frequency if text contains it, 0 otherwise.
func (pv *ProfileVectorizer) Dense(text []string) []float64 {
	dense := make([]float64, pv.vocab.Len())
	for i := range pv.present(text) {
		dense[i] = pv.maxFreq[i]
	}
	return dense
}

// Sparse returns the entries of Dense that belong to words of text, in
// vocabulary order.
func (pv *ProfileVectorizer) Sparse(text []string) SparseVector {
	sv := NewSparseVector(pv.vocab.Len())
	for i := range pv.present(text) {
		sv.Set(i, pv.maxFreq[i])
	}
	return sv
}
