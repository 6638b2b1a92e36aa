package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/taichizzz/anime-recommender/internal/handlers"
	"github.com/taichizzz/anime-recommender/internal/recommend"
	"github.com/taichizzz/anime-recommender/internal/session"
	"github.com/taichizzz/anime-recommender/internal/storage"
)

const pruneInterval = time.Minute

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Starts the Anime Recommender web interface and JSON API on the specified port.

The page at / lets you search, select up to three anime and request
recommendations. The same operations are available under /api.`,
		Example: `  # Start server on default port 8888
  anime-recommender serve

  # Start server on custom port
  anime-recommender serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			searcher := opts.searcher()
			recommender := recommend.NewStub()
			store := storage.New(func() *session.Controller {
				return session.New(searcher, recommender)
			})

			handler := handlers.New(store, searcher, recommender)
			router := handlers.NewRouter(handler, handlers.RouterConfig{
				CORSOrigins: cfg.Server.CORSOrigins,
				RateLimit:   cfg.Server.RateLimit,
				RateWindow:  cfg.Server.RateWindow,
			})

			addr := ":" + cfg.Server.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			go pruneSessions(cmd.Context(), store, cfg.Session.IdleTimeout)

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Anime Recommender available", "addr", addr, "url", "http://localhost"+addr, "jikan", cfg.Jikan.BaseURL)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on (overrides server.port)")

	return cmd
}

// pruneSessions drops idle sessions until ctx is done.
func pruneSessions(ctx context.Context, store *storage.SessionStore, maxIdle time.Duration) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Prune(maxIdle); removed > 0 {
				slog.Info("Pruned idle sessions", "removed", removed, "remaining", store.Len())
			}
		}
	}
}
