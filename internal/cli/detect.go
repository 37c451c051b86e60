package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/happyhackingspace/dil"
	"github.com/happyhackingspace/dil/classifier"
	"github.com/happyhackingspace/dil/internal/htmlutil"
)

// detectOptions are the flags shared by commands that run predictions.
type detectOptions struct {
	mode   string
	k      int
	metric classifier.Metric
}

func (o *detectOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.mode, "mode", string(dil.ModeKNN), "Prediction mode: nearest, knn or knn-sparse")
	cmd.Flags().IntVar(&o.k, "k", 1, "Number of neighbours that vote")
	cmd.Flags().Var(&o.metric, "metric", "Distance for knn mode: manhattan or euclid")
}

func (o *detectOptions) config() (dil.DetectConfig, error) {
	mode, err := dil.ParseMode(o.mode)
	if err != nil {
		return dil.DetectConfig{}, err
	}
	cfg := dil.DetectConfig{Mode: mode, K: o.k, Metric: o.metric}
	if mode != dil.ModeNearest {
		if err := (classifier.Config{K: cfg.K, Metric: cfg.Metric}).Validate(); err != nil {
			return dil.DetectConfig{}, err
		}
	}
	return cfg, nil
}

// detectResult is one line of detect output.
type detectResult struct {
	Target   string  `json:"target"`
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
	Tokens   int     `json:"tokens"`
	Known    int     `json:"known"`
}

func (c *CLI) newDetectCommand() *cobra.Command {
	opts := &detectOptions{metric: classifier.Manhattan}
	var render bool
	var jobs int

	cmd := &cobra.Command{
		Use:   "detect [url-or-file...]",
		Short: "Detect the language of URLs, text or HTML files, or stdin",
		Example: `  # Detect the language of a local file
  dil detect article.txt --corpus data

  # Several inputs are classified in parallel
  dil detect a.txt b.html https://fr.wikipedia.org/wiki/Chat

  # Pipe text from stdin
  echo "le chat dort sur le lit" | dil detect

  # Vote among the 5 closest documents with the Euclidean metric
  dil detect article.txt --k 5 --metric euclid

  # Sparse vectors
  dil detect article.txt --mode knn-sparse --k 3

  # Render JavaScript before extracting text
  dil detect https://example.org --render`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			inputs := make(map[string]string)
			targets := args
			if len(args) == 0 {
				if cmd.InOrStdin() == os.Stdin && isStdinTerminal() {
					return cmd.Help()
				}
				content, target, err := readFromStdin(cmd.Context(), cmd.InOrStdin(), render)
				if err != nil {
					return err
				}
				inputs[target] = content
				targets = []string{target}
			}

			start := time.Now()
			detector, corpus, err := dil.TrainFromFolder(c.corpus, &dil.TrainConfig{Verbose: c.verbose})
			if err != nil {
				return err
			}
			slog.Debug("Detector trained", "languages", len(detector.Languages()), "duration", time.Since(start))

			if jobs < 1 {
				jobs = runtime.NumCPU()
			}
			results := make([]detectResult, len(targets))
			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(min(jobs, len(targets)))
			for i, target := range targets {
				i, target := i, target
				g.Go(func() error {
					content, ok := inputs[target]
					if !ok {
						slog.Debug("Fetching", "target", target)
						var err error
						content, err = htmlutil.Fetch(gctx, target, render)
						if err != nil {
							return fmt.Errorf("%s: %w", target, err)
						}
					}
					text, err := htmlutil.ExtractText(content)
					if err != nil {
						return fmt.Errorf("%s: %w", target, err)
					}
					tokens := corpus.Tokens(text)
					pred, err := detector.Detect(tokens, cfg)
					if err != nil {
						return fmt.Errorf("%s: %w", target, err)
					}
					known := detector.Coverage(tokens)
					if known == 0 {
						slog.Warn("No known words in input", "target", target, "tokens", len(tokens))
					}
					results[i] = detectResult{
						Target:   target,
						Label:    pred.Label,
						Distance: pred.Distance,
						Tokens:   len(tokens),
						Known:    known,
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			slog.Debug("Detection completed", "inputs", len(targets), "duration", time.Since(start))

			output, _ := json.MarshalIndent(results, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().BoolVar(&render, "render", false, "Render URLs in a headless browser before extracting text")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Inputs classified in parallel (default: number of CPUs)")
	return cmd
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func readFromStdin(ctx context.Context, r io.Reader, render bool) (string, string, error) {
	slog.Debug("Reading from stdin")
	body, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	content := strings.TrimSpace(string(body))
	if content == "" {
		return "", "", fmt.Errorf("stdin is empty")
	}

	if htmlutil.IsURL(content) {
		slog.Debug("Stdin contains URL", "url", content)
		page, err := htmlutil.Fetch(ctx, content, render)
		if err != nil {
			return "", "", err
		}
		return page, content, nil
	}

	return content, "stdin", nil
}
