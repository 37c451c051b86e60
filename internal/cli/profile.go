package cli

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/happyhackingspace/dil"
)

func (c *CLI) newProfileCommand() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "profile [language...]",
		Short: "Show the most frequent words of each language profile",
		Example: `  dil profile --corpus data
  dil profile fr de --top 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			detector, _, err := dil.TrainFromFolder(c.corpus, &dil.TrainConfig{Verbose: c.verbose})
			if err != nil {
				return err
			}

			languages := args
			if len(languages) == 0 {
				languages = detector.Languages()
			}
			sort.Strings(languages)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Vocabulary: %d words, %d languages\n", len(detector.Vocabulary()), len(detector.Languages()))
			for _, lang := range languages {
				words, freqs, err := detector.TopWords(lang, top)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s (%d words)\n%s\n", lang, len(detector.Profiles()[lang]), renderProfile(words, freqs))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "Number of words per language (0 for all)")
	return cmd
}

func renderProfile(words []string, freqs []float64) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "word", "frequency"})
	for i, w := range words {
		tw.AppendRow(table.Row{i + 1, w, fmt.Sprintf("%.5f", freqs[i])})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return tw.Render()
}
