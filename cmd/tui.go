package cmd

import (
	"github.com/spf13/cobra"

	"github.com/taichizzz/anime-recommender/internal/recommend"
	"github.com/taichizzz/anime-recommender/internal/session"
	"github.com/taichizzz/anime-recommender/internal/tui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Search and pick favorites in an interactive terminal UI",
		Long: `Opens a terminal UI over a single session.

Type a title and press Enter to search. Tab moves to the result list, where
Space toggles a selection, c clears it and r requests recommendations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			searcher := opts.searcher()
			recommender := recommend.NewStub()
			controller := session.New(searcher, recommender)
			return tui.Run(tui.New(cmd.Context(), controller, searcher, recommender))
		},
	}
}
