package dil

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/happyhackingspace/dil/internal/storage"
	"github.com/happyhackingspace/dil/internal/textutil"
	"github.com/happyhackingspace/dil/internal/vectorizer"
	"github.com/happyhackingspace/dil/profile"
)

// TrainConfig holds configuration for training.
type TrainConfig struct {
	Verbose bool
}

// EvalConfig holds configuration for evaluation.
type EvalConfig struct {
	Folds   int
	Detect  DetectConfig
	Verbose bool
}

// EvalResult holds cross-validation evaluation results.
type EvalResult struct {
	Accuracy  float64
	Correct   int
	Total     int
	Classes   []string
	Confusion map[string]map[string]int // true label -> predicted label -> count
}

// Train builds language profiles from docs and vectorizes every document
// against the shared vocabulary.
func Train(docs []Document, config *TrainConfig) (*Detector, error) {
	verbose := config != nil && config.Verbose

	corpus := make([][]string, len(docs))
	labels := make([]string, len(docs))
	for i, doc := range docs {
		corpus[i] = doc.Tokens
		labels[i] = doc.Label
	}
	profiles, err := profile.BuildCollection(corpus, labels)
	if err != nil {
		return nil, fmt.Errorf("dil: %w", err)
	}
	vocab, err := profile.NewVocabulary(profiles)
	if err != nil {
		return nil, fmt.Errorf("dil: %w", err)
	}
	vec, err := vectorizer.NewWithVocabulary(profiles, vocab)
	if err != nil {
		return nil, fmt.Errorf("dil: %w", err)
	}

	d := &Detector{
		profiles: profiles,
		vec:      vec,
		labels:   labels,
		dense:    make([][]float64, len(docs)),
		sparse:   make([]vectorizer.SparseVector, len(docs)),
	}
	for i, doc := range docs {
		d.dense[i] = vec.Dense(doc.Tokens)
		d.sparse[i] = vec.Sparse(doc.Tokens)
	}
	if verbose {
		slog.Debug("Trained detector", "documents", len(docs), "languages", len(profiles), "vocabulary", vec.VocabSize())
	}
	return d, nil
}

// Corpus is a tokenized training corpus loaded from a corpus folder.
type Corpus struct {
	Documents []Document
	analyzer  *textutil.Analyzer
}

// LoadCorpus reads the corpus.toml manifest in dir and tokenizes every
// document it lists.
func LoadCorpus(dir string) (*Corpus, error) {
	store := storage.NewStorage(dir)
	config, err := store.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("dil: %w", err)
	}
	analyzer, err := store.Analyzer(config)
	if err != nil {
		return nil, fmt.Errorf("dil: %w", err)
	}
	raw, err := store.IterDocuments(config, storage.DefaultIterOptions())
	if err != nil {
		return nil, fmt.Errorf("dil: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("dil: no documents found in %s", dir)
	}

	c := &Corpus{analyzer: analyzer, Documents: make([]Document, len(raw))}
	for i, r := range raw {
		c.Documents[i] = Document{
			Label:  r.Label,
			Tokens: analyzer.Tokens(r.Text),
			Group:  r.Group(),
		}
	}
	slog.Debug("Corpus loaded", "dir", dir, "documents", len(c.Documents))
	return c, nil
}

// Tokens analyzes text the same way the corpus documents were analyzed.
func (c *Corpus) Tokens(text string) []string {
	return c.analyzer.Tokens(text)
}

// TrainFromFolder loads the corpus in dir and trains a detector on it.
func TrainFromFolder(dir string, config *TrainConfig) (*Detector, *Corpus, error) {
	c, err := LoadCorpus(dir)
	if err != nil {
		return nil, nil, err
	}
	d, err := Train(c.Documents, config)
	if err != nil {
		return nil, nil, err
	}
	return d, c, nil
}

// Evaluate runs grouped k-fold cross-validation over the corpus in dir.
// Documents from the same group (source domain or file) never appear on
// both sides of a split.
func Evaluate(dataDir string, config *EvalConfig) (*EvalResult, error) {
	c, err := LoadCorpus(dataDir)
	if err != nil {
		return nil, err
	}
	return EvaluateDocuments(c.Documents, config)
}

// EvaluateDocuments runs grouped k-fold cross-validation over docs.
func EvaluateDocuments(docs []Document, config *EvalConfig) (*EvalResult, error) {
	nFolds := 10
	detect := DefaultDetectConfig()
	verbose := false
	if config != nil {
		if config.Folds > 0 {
			nFolds = config.Folds
		}
		if config.Detect.Mode != "" {
			detect = config.Detect
		}
		verbose = config.Verbose
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("dil: %w: no documents to evaluate", ErrInvalidInput)
	}

	result := &EvalResult{Confusion: make(map[string]map[string]int)}
	classSet := make(map[string]bool)

	folds := groupKFold(documentGroups(docs), nFolds)
	for fold, testIdx := range folds {
		testSet := makeTestSet(len(docs), testIdx)
		var train []Document
		for i, doc := range docs {
			if !testSet[i] {
				train = append(train, doc)
			}
		}
		if len(train) == 0 {
			slog.Warn("Skipping fold without training documents", "fold", fold)
			continue
		}

		d, err := Train(train, &TrainConfig{Verbose: verbose})
		if err != nil {
			return nil, err
		}
		for _, idx := range testIdx {
			want := docs[idx].Label
			pred, err := d.Detect(docs[idx].Tokens, detect)
			if err != nil {
				return nil, fmt.Errorf("dil: fold %d: %w", fold, err)
			}
			if result.Confusion[want] == nil {
				result.Confusion[want] = make(map[string]int)
			}
			result.Confusion[want][pred.Label]++
			classSet[want] = true
			classSet[pred.Label] = true
			if pred.Label == want {
				result.Correct++
			}
			result.Total++
		}
		if verbose {
			slog.Debug("Fold evaluated", "fold", fold, "test", len(testIdx), "train", len(train))
		}
	}

	for cls := range classSet {
		result.Classes = append(result.Classes, cls)
	}
	sort.Strings(result.Classes)
	if result.Total > 0 {
		result.Accuracy = float64(result.Correct) / float64(result.Total)
	}
	return result, nil
}

func groupKFold(groups []int, nFolds int) [][]int {
	uniqueGroups := make(map[int]bool)
	for _, g := range groups {
		uniqueGroups[g] = true
	}
	sortedGroups := make([]int, 0, len(uniqueGroups))
	for g := range uniqueGroups {
		sortedGroups = append(sortedGroups, g)
	}
	sort.Ints(sortedGroups)

	if nFolds > len(sortedGroups) {
		nFolds = len(sortedGroups)
	}

	groupToFold := make(map[int]int)
	for i, g := range sortedGroups {
		groupToFold[g] = i % nFolds
	}

	folds := make([][]int, nFolds)
	for i, g := range groups {
		fold := groupToFold[g]
		folds[fold] = append(folds[fold], i)
	}
	return folds
}

// documentGroups numbers groups in order of first appearance. Documents
// without a group form a group of their own.
func documentGroups(docs []Document) []int {
	groups := make([]int, len(docs))
	groupMap := make(map[string]int)
	next := 0
	for i, doc := range docs {
		if doc.Group == "" {
			groups[i] = next
			next++
			continue
		}
		if _, ok := groupMap[doc.Group]; !ok {
			groupMap[doc.Group] = next
			next++
		}
		groups[i] = groupMap[doc.Group]
	}
	return groups
}

func makeTestSet(n int, testIdx []int) []bool {
	set := make([]bool, n)
	for _, i := range testIdx {
		set[i] = true
	}
	return set
}
