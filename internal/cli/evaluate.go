package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/happyhackingspace/dil"
	"github.com/happyhackingspace/dil/classifier"
)

func (c *CLI) newEvaluateCommand() *cobra.Command {
	opts := &detectOptions{metric: classifier.Manhattan}
	var cvFolds int

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate detection accuracy via grouped cross-validation",
		Example: `  dil evaluate --corpus data --cv 10
  dil evaluate --corpus data --k 3 --metric euclid
  dil evaluate --corpus data --mode knn-sparse --k 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			slog.Info("Evaluating", "folds", cvFolds, "corpus", c.corpus, "mode", cfg.Mode, "k", cfg.K, "metric", cfg.Metric)
			start := time.Now()
			result, err := dil.Evaluate(c.corpus, &dil.EvalConfig{
				Folds:   cvFolds,
				Detect:  cfg,
				Verbose: c.verbose,
			})
			if err != nil {
				return err
			}
			slog.Debug("Evaluation completed", "duration", time.Since(start))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Language accuracy: %.1f%% (%d/%d)\n",
				result.Accuracy*100, result.Correct, result.Total)
			printConfusionMatrix(out, result.Confusion, result.Classes)
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().IntVar(&cvFolds, "cv", 10, "Number of cross-validation folds")
	return cmd
}

func printConfusionMatrix(w io.Writer, confusion map[string]map[string]int, classes []string) {
	if len(confusion) == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{"true \\ predicted"}
	for _, cls := range classes {
		header = append(header, cls)
	}
	header = append(header, "total", "acc%")
	tw.AppendHeader(header)

	for _, trueClass := range classes {
		row := table.Row{trueClass}
		total, correct := 0, 0
		for _, predClass := range classes {
			count := confusion[trueClass][predClass]
			total += count
			if trueClass == predClass {
				correct = count
			}
			if count == 0 {
				row = append(row, ".")
			} else {
				row = append(row, strconv.Itoa(count))
			}
		}
		acc := 0.0
		if total > 0 {
			acc = float64(correct) / float64(total) * 100
		}
		row = append(row, total, fmt.Sprintf("%.1f", acc))
		tw.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, 0, len(classes)+2)
	for i := 2; i <= len(classes)+3; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)

	fmt.Fprintf(w, "\nConfusion matrix (rows=true, cols=predicted):\n%s\n", tw.Render())
}
