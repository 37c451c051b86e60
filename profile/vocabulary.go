package profile

import "sort"

// Vocabulary is the sorted, deduplicated set of words of a Collection. It
// fixes the dimension of every vector and the index assigned to each word.
type Vocabulary struct {
	words []string
	index map[string]int
}

// NewVocabulary collects every word of every profile in c and sorts them.
func NewVocabulary(c Collection) (*Vocabulary, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, p := range c {
		for w := range p {
			seen[w] = true
		}
	}
	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)

	index := make(map[string]int, len(words))
	for i, w := range words {
		index[w] = i
	}
	return &Vocabulary{words: words, index: index}, nil
}

// Len returns the number of words.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Words returns a copy of the words in vocabulary order.
func (v *Vocabulary) Words() []string {
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}

// Word returns the word at index i.
func (v *Vocabulary) Word(i int) string {
	return v.words[i]
}

// Index returns the position of word, if present.
func (v *Vocabulary) Index(word string) (int, bool) {
	i, ok := v.index[word]
	return i, ok
}

// Covers reports whether v holds exactly the words of c.
func (v *Vocabulary) Covers(c Collection) bool {
	n := 0
	seen := make(map[string]bool, len(v.words))
	for _, p := range c {
		for w := range p {
			if _, ok := v.index[w]; !ok {
				return false
			}
			if !seen[w] {
				seen[w] = true
				n++
			}
		}
	}
	return n == len(v.words)
}
