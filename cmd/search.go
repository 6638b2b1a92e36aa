package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/taichizzz/anime-recommender/internal/results"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search anime by title",
		Example: `  anime-recommender search naruto
  anime-recommender search attack on titan --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.searcher().Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return results.Write(cmd.OutOrStdout(), format, items)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", results.FormatText, "Output format: "+strings.Join(results.Formats, ", "))

	return cmd
}
