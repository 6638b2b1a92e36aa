package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taichizzz/anime-recommender/internal/catalog"
	"github.com/taichizzz/anime-recommender/internal/config"
)

// rootOptions is shared by every subcommand. config is set in PersistentPreRunE.
type rootOptions struct {
	cfgFile string
	config  *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "anime-recommender",
		Short: "Search anime, pick up to three favorites and get recommendations",
		Long: `Anime Recommender looks up anime through the Jikan API, lets you select
up to three titles you like and returns recommendations for them.

It can run as a web server, an interactive terminal UI, or one-shot commands.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(config.New(opts.cfgFile))
			if err != nil {
				return err
			}
			opts.config = cfg
			slog.SetDefault(cfg.NewLogger(os.Stderr))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default ./anime-recommender.yaml or ~/.config/anime-recommender/anime-recommender.yaml)")

	// Add subcommands
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newRecommendCmd(opts))
	cmd.AddCommand(newTUICmd(opts))

	return cmd
}

// searcher builds the rate-limited Jikan client behind a circuit breaker.
func (o *rootOptions) searcher() *catalog.Breaker {
	client := catalog.NewClient(o.config.CatalogOptions())
	return catalog.NewBreaker(client, catalog.BreakerOptions{})
}
