package dil

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/happyhackingspace/dil/classifier"
)

var trainingTexts = map[string][]string{
	"en": {
		"the cat is on the mat and the dog is in the house",
		"she said that the weather is good and the sun is out",
	},
	"fr": {
		"le chat est sur le tapis et le chien est dans la maison",
		"elle a dit que le temps est beau et que le soleil brille",
	},
	"de": {
		"die katze ist auf der matte und der hund ist im haus",
		"sie sagte dass das wetter gut ist und die sonne scheint",
	},
}

func trainingDocs() []Document {
	var docs []Document
	for _, label := range []string{"en", "fr", "de"} {
		for _, text := range trainingTexts[label] {
			docs = append(docs, Document{Label: label, Tokens: strings.Fields(text)})
		}
	}
	return docs
}

func TestTrainAndDetect(t *testing.T) {
	d, err := Train(trainingDocs(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Languages(); !reflect.DeepEqual(got, []string{"de", "en", "fr"}) {
		t.Errorf("Languages() = %v", got)
	}

	queries := map[string]string{
		"en": "the dog and the cat are in the house",
		"fr": "le chien et le chat sont dans la maison",
		"de": "der hund und die katze sind im haus",
	}
	configs := []DetectConfig{
		{Mode: ModeNearest},
		{Mode: ModeKNN, K: 1, Metric: classifier.Manhattan},
		{Mode: ModeKNN, K: 1, Metric: classifier.Euclid},
		{Mode: ModeKNNSparse, K: 1},
	}
	for want, text := range queries {
		for _, cfg := range configs {
			p, err := d.Detect(strings.Fields(text), cfg)
			if err != nil {
				t.Fatalf("Detect(%q, %+v): %v", text, cfg, err)
			}
			if p.Label != want {
				t.Errorf("Detect(%q, %+v) = %+v, want %s", text, cfg, p, want)
			}
		}
	}
}

func TestDetectSparseMatchesDenseEuclid(t *testing.T) {
	d, _ := Train(trainingDocs(), nil)
	tokens := strings.Fields("le soleil et le chat dans la maison unbekannt")
	for k := 1; k <= 6; k++ {
		dense, err := d.Detect(tokens, DetectConfig{Mode: ModeKNN, K: k, Metric: classifier.Euclid})
		if err != nil {
			t.Fatal(err)
		}
		sparse, err := d.Detect(tokens, DetectConfig{Mode: ModeKNNSparse, K: k})
		if err != nil {
			t.Fatal(err)
		}
		if dense != sparse {
			t.Errorf("k=%d: dense %+v != sparse %+v", k, dense, sparse)
		}
	}
}

func TestDetectInvalid(t *testing.T) {
	d, _ := Train(trainingDocs(), nil)
	tokens := []string{"le", "chat"}
	bad := []DetectConfig{
		{Mode: "fastest"},
		{Mode: ModeKNN, K: 0},
		{Mode: ModeKNN, K: 1, Metric: classifier.Metric(42)},
		{Mode: ModeKNNSparse, K: -1},
	}
	for _, cfg := range bad {
		if _, err := d.Detect(tokens, cfg); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Detect(%+v) err = %v, want ErrInvalidInput", cfg, err)
		}
	}
}

func TestTrainInvalid(t *testing.T) {
	if _, err := Train(nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Train(nil) err = %v", err)
	}
	if _, err := Train([]Document{{Tokens: []string{"a"}}}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Train(unlabeled) err = %v", err)
	}
}

func TestTopWords(t *testing.T) {
	d, _ := Train(trainingDocs(), nil)
	words, freqs, err := d.TopWords("en", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(words, []string{"the", "is"}) {
		t.Errorf("TopWords(en) = %v", words)
	}
	if len(freqs) != 2 || freqs[0] < freqs[1] {
		t.Errorf("frequencies = %v", freqs)
	}
	if _, _, err := d.TopWords("xx", 1); err == nil {
		t.Error("expected error for unknown language")
	}
	if len(d.Vocabulary()) == 0 {
		t.Error("empty vocabulary")
	}
}

func TestCoverage(t *testing.T) {
	d, _ := Train(trainingDocs(), nil)
	if got := d.Coverage([]string{"le", "chat", "le", "xyz"}); got != 2 {
		t.Errorf("Coverage = %d, want 2", got)
	}
	if got := d.Coverage([]string{"xyz", "qqq"}); got != 0 {
		t.Errorf("Coverage of unknown words = %d, want 0", got)
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"nearest", "knn", "knn-sparse"} {
		if m, err := ParseMode(s); err != nil || string(m) != s {
			t.Errorf("ParseMode(%q) = %q, %v", s, m, err)
		}
	}
	if _, err := ParseMode("cosine"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseMode(cosine) err = %v", err)
	}
}

func TestGroupKFold(t *testing.T) {
	groups := []int{0, 0, 1, 2, 1, 3}
	folds := groupKFold(groups, 2)
	if len(folds) != 2 {
		t.Fatalf("expected 2 folds, got %d", len(folds))
	}
	want := [][]int{{0, 1, 3}, {2, 4, 5}}
	if !reflect.DeepEqual(folds, want) {
		t.Errorf("folds = %v, want %v", folds, want)
	}
	if got := groupKFold([]int{0, 0}, 10); len(got) != 1 {
		t.Errorf("folds capped to group count, got %d", len(got))
	}
}

func TestDocumentGroups(t *testing.T) {
	docs := []Document{{Group: "wiki"}, {}, {Group: "news"}, {Group: "wiki"}, {}}
	want := []int{0, 1, 2, 0, 3}
	if got := documentGroups(docs); !reflect.DeepEqual(got, want) {
		t.Errorf("documentGroups = %v, want %v", got, want)
	}
}

func TestEvaluateDocuments(t *testing.T) {
	result, err := EvaluateDocuments(trainingDocs(), &EvalConfig{
		Folds:  2,
		Detect: DetectConfig{Mode: ModeKNN, K: 1, Metric: classifier.Euclid},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 6 {
		t.Errorf("Total = %d, want 6", result.Total)
	}
	sum := 0
	for _, row := range result.Confusion {
		for _, n := range row {
			sum += n
		}
	}
	if sum != result.Total {
		t.Errorf("confusion matrix holds %d predictions, want %d", sum, result.Total)
	}
	if result.Accuracy != float64(result.Correct)/float64(result.Total) {
		t.Errorf("Accuracy = %v", result.Accuracy)
	}

	if _, err := EvaluateDocuments(nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("EvaluateDocuments(nil) err = %v", err)
	}
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"corpus.toml": `stop_words = "stop.txt"

[[documents]]
label = "en"
path = "en.txt"

[[documents]]
label = "fr"
path = "fr.html"
url = "https://fr.wikipedia.org/wiki/Chat"
`,
		"stop.txt": "and\net\n",
		"en.txt":   strings.Join(trainingTexts["en"], "\n"),
		"fr.html":  "<html><body><p>" + strings.Join(trainingTexts["fr"], "</p><p>") + "</p></body></html>",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestTrainFromFolder(t *testing.T) {
	dir := writeCorpus(t)
	d, c, err := TrainFromFolder(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(c.Documents))
	}
	for _, w := range d.Vocabulary() {
		if w == "and" || w == "et" {
			t.Errorf("stop word %q in vocabulary", w)
		}
	}
	p, err := d.Detect(c.Tokens("Le CHIEN est dans la maison."), DefaultDetectConfig())
	if err != nil {
		t.Fatal(err)
	}
	if p.Label != "fr" {
		t.Errorf("Detect = %+v, want fr", p)
	}
}

func TestLoadCorpusMissing(t *testing.T) {
	if _, err := LoadCorpus(t.TempDir()); err == nil {
		t.Error("expected error for folder without manifest")
	}
}
