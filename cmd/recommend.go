package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taichizzz/anime-recommender/internal/recommend"
	"github.com/taichizzz/anime-recommender/internal/results"
)

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "recommend <id...>",
		Short:   "Get recommendations for liked anime ids",
		Example: `  anime-recommender recommend 20 1735 --format yaml`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid anime id %q: %w", arg, err)
				}
				ids = append(ids, id)
			}

			recs, err := recommend.NewStub().Recommend(cmd.Context(), ids)
			if err != nil {
				return err
			}
			return results.Write(cmd.OutOrStdout(), format, recs)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", results.FormatText, "Output format: "+strings.Join(results.Formats, ", "))

	return cmd
}
