package textutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"user_name", []string{"user_name"}},
		{"email@example.com", []string{"email", "example", "com"}},
		{"", nil},
		{"  spaces  ", []string{"spaces"}},
		{"café résumé", []string{"café", "résumé"}},
		{"hello-world", []string{"hello", "world"}},
		{"Привет, мир!", []string{"Привет", "мир"}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello world"},
		{"UPPER", "upper"},
		{"Café", "café"},
		{"ÜBER", "über"},
	}
	for _, tt := range tests {
		got := Normalize(tt.input)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeWhitespaces(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello\nworld", "hello world"},
		{"hello\r\nworld", "hello world"},
		{"a  b   c", "a b c"},
	}
	for _, tt := range tests {
		got := NormalizeWhitespaces(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeWhitespaces(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRemoveStopWords(t *testing.T) {
	stop := map[string]bool{"the": true, "a": true}
	got := RemoveStopWords([]string{"the", "cat", "saw", "a", "dog", "the"}, stop)
	want := []string{"cat", "saw", "dog"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RemoveStopWords = %v, want %v", got, want)
	}
	in := []string{"x"}
	if got := RemoveStopWords(in, nil); !reflect.DeepEqual(got, in) {
		t.Errorf("RemoveStopWords with no stop words = %v", got)
	}
}

func TestReadWordList(t *testing.T) {
	words, err := ReadWordList(strings.NewReader("# comment\nThe\n\n  and \nLE\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"the": true, "and": true, "le": true}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("ReadWordList = %v, want %v", words, want)
	}
}

func TestStemmer(t *testing.T) {
	s, err := NewStemmer("english")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Stem("running"); got != "run" {
		t.Errorf("Stem(running) = %q, want run", got)
	}
	if _, err := NewStemmer("klingon"); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestAnalyzer(t *testing.T) {
	a := &Analyzer{StopWords: map[string]bool{"the": true}}
	got := a.Tokens("The Cat, the HAT.")
	want := []string{"cat", "hat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}

	s, _ := NewStemmer("english")
	a.Stemmer = s
	got = a.Tokens("the cats jumping")
	want = []string{"cat", "jump"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stemmed Tokens = %v, want %v", got, want)
	}
}
