package storage

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/net/publicsuffix"

	"github.com/happyhackingspace/dil/internal/htmlutil"
	"github.com/happyhackingspace/dil/internal/textutil"
)

// ManifestName is the corpus manifest file inside a corpus folder.
const ManifestName = "corpus.toml"

// Storage wraps the corpus folder.
type Storage struct {
	Folder string
}

// NewStorage creates a Storage for the given corpus folder.
func NewStorage(folder string) *Storage {
	return &Storage{Folder: folder}
}

// GetConfig reads and validates the corpus manifest.
func (s *Storage) GetConfig() (*Config, error) {
	config, err := s.readConfig()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.manifestPath(), err)
	}
	return config, nil
}

func (s *Storage) manifestPath() string {
	return filepath.Join(s.Folder, ManifestName)
}

func (s *Storage) readConfig() (*Config, error) {
	path := s.manifestPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("corpus manifest %s not found", path)
		}
		return nil, err
	}
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	config.normalize()
	return &config, nil
}

// StopWords loads the stop word list named in the manifest. A manifest
// without one yields an empty set.
func (s *Storage) StopWords(config *Config) (map[string]bool, error) {
	if config.StopWords == "" {
		return map[string]bool{}, nil
	}
	f, err := os.Open(filepath.Join(s.Folder, config.StopWords))
	if err != nil {
		return nil, fmt.Errorf("open stop words: %w", err)
	}
	defer func() { _ = f.Close() }()
	words, err := textutil.ReadWordList(f)
	if err != nil {
		return nil, fmt.Errorf("read stop words: %w", err)
	}
	return words, nil
}

// Analyzer builds the text analyzer described by the manifest.
func (s *Storage) Analyzer(config *Config) (*textutil.Analyzer, error) {
	stop, err := s.StopWords(config)
	if err != nil {
		return nil, err
	}
	a := &textutil.Analyzer{StopWords: stop}
	if config.Stem != "" {
		stemmer, err := textutil.NewStemmer(config.Stem)
		if err != nil {
			return nil, err
		}
		a.Stemmer = stemmer
	}
	return a, nil
}

// IterDocuments reads every document listed in the manifest, in label then
// path order. Unreadable files are logged and skipped.
func (s *Storage) IterDocuments(config *Config, opts IterOptions) ([]Document, error) {
	entries := make([]DocumentEntry, len(config.Documents))
	copy(entries, config.Documents)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Label != entries[j].Label {
			return entries[i].Label < entries[j].Label
		}
		return entries[i].Path < entries[j].Path
	})

	seen := make(map[string]bool)
	var docs []Document
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(s.Folder, e.Path))
		if err != nil {
			slog.Warn("Cannot read corpus document", "path", e.Path, "error", err)
			continue
		}

		if opts.DropDuplicates {
			hash := fmt.Sprintf("%x", md5.Sum(data))
			if seen[hash] {
				slog.Debug("Skipping duplicate document", "path", e.Path)
				continue
			}
			seen[hash] = true
		}

		text := string(data)
		if strings.EqualFold(filepath.Ext(e.Path), ".html") || strings.EqualFold(filepath.Ext(e.Path), ".htm") {
			doc, err := htmlutil.LoadHTML(bytes.NewReader(data))
			if err != nil {
				slog.Warn("Cannot parse corpus document", "path", e.Path, "error", err)
				continue
			}
			text = htmlutil.VisibleText(doc.Selection)
		}

		docs = append(docs, Document{
			Label: e.Label,
			Path:  e.Path,
			URL:   e.URL,
			Text:  text,
		})
	}
	return docs, nil
}

// IterOptions controls document iteration behavior.
type IterOptions struct {
	DropDuplicates bool
}

// DefaultIterOptions returns the default options for iterating documents.
func DefaultIterOptions() IterOptions {
	return IterOptions{DropDuplicates: true}
}

// GetDomain extracts the domain name from a URL (for grouped cross-validation).
func GetDomain(rawURL string) string {
	host := rawURL
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	if idx := strings.Index(host, "/"); idx >= 0 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx >= 0 {
		host = host[:idx]
	}

	// Use publicsuffix to find the eTLD+1, then extract just the domain
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	// domain is like "example.co.uk", we want just "example"
	if idx := strings.Index(domain, "."); idx >= 0 {
		return domain[:idx]
	}
	return domain
}

// LoadOrInitConfig reads the manifest for adding documents, or returns an
// empty one when the folder has none yet. A manifest listing no documents
// is accepted.
func (s *Storage) LoadOrInitConfig() (*Config, error) {
	if _, err := os.Stat(s.manifestPath()); errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	config, err := s.readConfig()
	if err != nil {
		return nil, err
	}
	if err := config.validateEntries(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.manifestPath(), err)
	}
	return config, nil
}

// SaveConfig writes the manifest.
func (s *Storage) SaveConfig(config *Config) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(s.Folder, 0755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}
	return os.WriteFile(s.manifestPath(), data, 0644)
}

// AddDocument stores content under <label>/<hash><ext> and lists it in
// config. It reports false when identical content is already listed for the
// label.
func (s *Storage) AddDocument(config *Config, label, url, ext string, content []byte) (DocumentEntry, bool, error) {
	if err := CheckLabel(label); err != nil {
		return DocumentEntry{}, false, err
	}
	hash := fmt.Sprintf("%x", md5.Sum(content))
	entry := DocumentEntry{
		Label: label,
		Path:  filepath.Join(label, hash[:12]+ext),
		URL:   url,
	}
	for _, e := range config.Documents {
		if e.Path == entry.Path {
			return e, false, nil
		}
	}

	path := filepath.Join(s.Folder, entry.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return DocumentEntry{}, false, fmt.Errorf("create label dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return DocumentEntry{}, false, fmt.Errorf("write document: %w", err)
	}
	config.Documents = append(config.Documents, entry)
	return entry, true, nil
}
