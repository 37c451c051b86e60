package profile

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"testing"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		tokens []string
		want   Profile
	}{
		{[]string{"the", "cat", "the", "dog"}, Profile{"the": 0.5, "cat": 0.25, "dog": 0.25}},
		{[]string{"a", "b", "c"}, Profile{"a": 0.33333, "b": 0.33333, "c": 0.33333}},
		{[]string{"one"}, Profile{"one": 1}},
		{nil, Profile{}},
	}
	for _, tt := range tests {
		got, err := Build(tt.tokens)
		if err != nil {
			t.Fatalf("Build(%v): %v", tt.tokens, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Build(%v) = %v, want %v", tt.tokens, got, tt.want)
		}
	}
}

func TestBuildSumsToOne(t *testing.T) {
	inputs := [][]string{
		{"a", "b", "c"},
		{"x", "y", "y", "z", "z", "z", "w"},
		{"le", "chat", "le", "chien", "et", "le", "oiseau"},
	}
	for _, tokens := range inputs {
		p, _ := Build(tokens)
		distinct := make(map[string]bool)
		for _, tok := range tokens {
			distinct[tok] = true
		}
		if len(p) != len(distinct) {
			t.Errorf("len(profile) = %d, want %d", len(p), len(distinct))
		}
		var sum float64
		for _, f := range p {
			sum += f
		}
		if math.Abs(sum-1) > 1e-4 {
			t.Errorf("profile of %v sums to %v", tokens, sum)
		}
	}
}

func TestBuildCollection(t *testing.T) {
	corpus := [][]string{
		{"the", "cat"},
		{"le", "chat"},
		{"the", "the"},
	}
	c, err := BuildCollection(corpus, []string{"en", "fr", "en"})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Labels(); !reflect.DeepEqual(got, []string{"en", "fr"}) {
		t.Errorf("Labels() = %v", got)
	}
	if c["en"]["the"] != 0.75 || c["en"]["cat"] != 0.25 {
		t.Errorf("merged en profile = %v", c["en"])
	}
}

func TestBuildCollectionInvalid(t *testing.T) {
	tests := []struct {
		name   string
		corpus [][]string
		labels []string
	}{
		{"mismatched", [][]string{{"a"}}, []string{"en", "fr"}},
		{"empty", nil, nil},
		{"empty label", [][]string{{"a"}}, []string{""}},
	}
	for _, tt := range tests {
		_, err := BuildCollection(tt.corpus, tt.labels)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tt.name, err)
		}
	}
}

func TestProfileWords(t *testing.T) {
	p := Profile{"b": 0.25, "a": 0.25, "c": 0.5}
	want := []string{"c", "a", "b"}
	if got := p.Words(); !reflect.DeepEqual(got, want) {
		t.Errorf("Words() = %v, want %v", got, want)
	}
}

func TestNewVocabulary(t *testing.T) {
	c := Collection{
		"en": {"the": 0.5, "cat": 0.5},
		"fr": {"le": 0.5, "chat": 0.5},
	}
	v, err := NewVocabulary(c)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"cat", "chat", "le", "the"}
	if got := v.Words(); !reflect.DeepEqual(got, want) {
		t.Errorf("Words() = %v, want %v", got, want)
	}
	if i, ok := v.Index("le"); !ok || i != 2 {
		t.Errorf("Index(le) = %d, %v", i, ok)
	}
	if _, ok := v.Index("dog"); ok {
		t.Error("dog should not be in vocabulary")
	}
	if v.Word(3) != "the" {
		t.Errorf("Word(3) = %q", v.Word(3))
	}
	if !v.Covers(c) {
		t.Error("vocabulary should cover its own collection")
	}
	if v.Covers(Collection{"en": {"the": 1}}) {
		t.Error("vocabulary should not cover a smaller collection")
	}
}

func TestNewVocabularySharedWords(t *testing.T) {
	c := Collection{
		"en": {"a": 0.5, "the": 0.5},
		"de": {"a": 0.2, "die": 0.8},
		"it": {"a": 0.1, "il": 0.9},
	}
	v, err := NewVocabulary(c)
	if err != nil {
		t.Fatal(err)
	}
	words := v.Words()
	distinct := make(map[string]bool)
	for _, p := range c {
		for w := range p {
			distinct[w] = true
		}
	}
	if len(words) != len(distinct) || len(words) != 4 {
		t.Errorf("len = %d, want %d distinct words", len(words), len(distinct))
	}
	if !sort.StringsAreSorted(words) {
		t.Errorf("words not sorted: %v", words)
	}
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			t.Errorf("duplicate word %q", words[i])
		}
	}
}

func TestNewVocabularyInvalid(t *testing.T) {
	for _, c := range []Collection{nil, {}, {"": {"a": 1}}, {"en": nil}} {
		if _, err := NewVocabulary(c); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("NewVocabulary(%v) err = %v, want ErrInvalidInput", c, err)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.0 / 3, 0.33333},
		{2.0 / 3, 0.66667},
		{0.5, 0.5},
		{5, 5},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
