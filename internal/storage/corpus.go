// Package storage reads labeled training corpora from disk.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Config is the structure of corpus.toml.
type Config struct {
	StopWords string          `toml:"stop_words,omitempty"`
	Stem      string          `toml:"stem,omitempty"` // snowball language such as "english", empty disables stemming
	Documents []DocumentEntry `toml:"documents"`
}

// DocumentEntry is one [[documents]] table of the manifest.
type DocumentEntry struct {
	Label string `toml:"label"`
	Path  string `toml:"path"`
	URL   string `toml:"url,omitempty"` // optional source, used to group folds
}

// Document is a corpus document with its text loaded.
type Document struct {
	Label string
	Path  string
	URL   string
	Text  string
}

// Group returns the cross-validation group of the document: the source
// domain when a URL is known, otherwise its path.
func (d Document) Group() string {
	if d.URL != "" {
		return GetDomain(d.URL)
	}
	return d.Path
}

func (c *Config) normalize() {
	c.StopWords = strings.TrimSpace(c.StopWords)
	c.Stem = strings.ToLower(strings.TrimSpace(c.Stem))
	for i := range c.Documents {
		d := &c.Documents[i]
		d.Label = strings.TrimSpace(d.Label)
		d.Path = filepath.Clean(strings.TrimSpace(d.Path))
		d.URL = strings.TrimSpace(d.URL)
	}
}

// ErrInvalidLabel is returned for a label that cannot name a folder inside
// the corpus.
var ErrInvalidLabel = errors.New("invalid label")

// CheckLabel reports whether label can be used as a single folder name.
func CheckLabel(label string) error {
	switch {
	case label == "":
		return fmt.Errorf("%w: label is required", ErrInvalidLabel)
	case label == "." || label == "..":
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	case strings.ContainsAny(label, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidLabel, label)
	case strings.TrimSpace(label) != label:
		return fmt.Errorf("%w: %q has surrounding spaces", ErrInvalidLabel, label)
	}
	return nil
}

// Validate checks that the manifest lists documents and that each has a
// label and a relative path.
func (c *Config) Validate() error {
	if len(c.Documents) == 0 {
		return errors.New("no documents listed")
	}
	return c.validateEntries()
}

func (c *Config) validateEntries() error {
	for i, d := range c.Documents {
		if d.Label == "" {
			return fmt.Errorf("documents[%d]: label is required", i)
		}
		if d.Path == "" || d.Path == "." {
			return fmt.Errorf("documents[%d]: path is required", i)
		}
		if filepath.IsAbs(d.Path) || strings.HasPrefix(d.Path, "..") {
			return fmt.Errorf("documents[%d]: path %q must be inside the corpus folder", i, d.Path)
		}
	}
	return nil
}
