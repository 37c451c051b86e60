package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/dil/internal/htmlutil"
	"github.com/happyhackingspace/dil/internal/storage"
)

// seed is one line of a JSONL seed file.
type seed struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

func (c *CLI) newCollectCommand() *cobra.Command {
	var (
		label    string
		seedFile string
		delay    int
		maxPages int
		render   bool
	)

	cmd := &cobra.Command{
		Use:   "collect [url...]",
		Short: "Fetch pages and add them to a corpus folder",
		Example: `  dil collect --corpus data --label fr https://fr.wikipedia.org/wiki/Chat
  dil collect --corpus data --seed seeds.jsonl --delay 500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var seeds []seed
			if seedFile != "" {
				loaded, err := loadSeeds(seedFile)
				if err != nil {
					return fmt.Errorf("load seeds: %w", err)
				}
				seeds = loaded
			}
			if len(args) > 0 && label == "" {
				return fmt.Errorf("--label is required when URLs are given as arguments")
			}
			for _, u := range args {
				seeds = append(seeds, seed{URL: u, Label: label})
			}
			for _, s := range seeds {
				if err := storage.CheckLabel(s.Label); err != nil {
					return fmt.Errorf("%s: %w", s.URL, err)
				}
			}
			if len(seeds) == 0 {
				return cmd.Help()
			}
			slog.Info("Loaded seeds", "count", len(seeds))

			store := storage.NewStorage(c.corpus)
			config, err := store.LoadOrInitConfig()
			if err != nil {
				return err
			}

			collected := 0
			for i, s := range seeds {
				if maxPages > 0 && collected >= maxPages {
					break
				}
				if i > 0 && delay > 0 {
					time.Sleep(time.Duration(delay) * time.Millisecond)
				}

				content, err := htmlutil.Fetch(cmd.Context(), s.URL, render)
				if err != nil {
					slog.Warn("Failed to fetch", "url", s.URL, "error", err)
					continue
				}
				ext := ".txt"
				if htmlutil.LooksLikeHTML(content) {
					ext = ".html"
				}
				entry, added, err := store.AddDocument(config, s.Label, s.URL, ext, []byte(content))
				if err != nil {
					return err
				}
				if !added {
					slog.Debug("Already collected", "url", s.URL, "path", entry.Path)
					continue
				}
				collected++
				slog.Info("Collected", "url", s.URL, "label", s.Label, "path", entry.Path, "total", collected)
			}

			if collected == 0 {
				slog.Warn("Nothing collected, manifest left unchanged", "seeds", len(seeds))
				return nil
			}
			if err := store.SaveConfig(config); err != nil {
				return fmt.Errorf("save manifest: %w", err)
			}
			slog.Info("Collection complete", "total", collected, "documents", len(config.Documents))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Language label for URLs given as arguments")
	cmd.Flags().StringVar(&seedFile, "seed", "", "Path to seed file (JSONL with url and label)")
	cmd.Flags().IntVar(&delay, "delay", 1000, "Delay between requests in ms")
	cmd.Flags().IntVar(&maxPages, "max", 0, "Max pages to collect (0=unlimited)")
	cmd.Flags().BoolVar(&render, "render", false, "Render pages in a headless browser")
	return cmd
}

func loadSeeds(path string) ([]seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var seeds []seed
	scan := bufio.NewScanner(f)
	line := 0
	for scan.Scan() {
		line++
		text := strings.TrimSpace(scan.Text())
		if text == "" {
			continue
		}
		var s seed
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if s.URL == "" || s.Label == "" {
			return nil, fmt.Errorf("line %d: url and label are required", line)
		}
		seeds = append(seeds, s)
	}
	return seeds, scan.Err()
}
