package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the middleware settings for NewRouter.
type RouterConfig struct {
	CORSOrigins []string
	RateLimit   int // requests per RateWindow per IP, 0 disables
	RateWindow  time.Duration
}

// NewRouter mounts every endpoint on a chi router.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	// Browser UI
	r.Get("/", h.HandleIndex)
	r.Get("/static/*", h.HandleStatic)
	r.Route("/ui", func(r chi.Router) {
		r.Post("/search", h.HandleUISearch)
		r.Post("/select", h.HandleUISelect)
		r.Post("/deselect", h.HandleUIDeselect)
		r.Post("/clear", h.HandleUIClear)
		r.Post("/recommend", h.HandleUIRecommend)
	})

	// JSON API
	r.Group(func(r chi.Router) {
		r.Use(rateLimit(cfg))

		r.Get("/search", h.HandleSearch)
		r.Post("/recommend", h.HandleRecommend)

		r.Route("/api", func(r chi.Router) {
			r.Get("/search", h.HandleSearch)
			r.Post("/recommend", h.HandleRecommend)

			r.Post("/sessions", h.HandleCreateSession)
			r.Route("/sessions/{sessionID}", func(r chi.Router) {
				r.Get("/", h.HandleGetSession)
				r.Delete("/", h.HandleDeleteSession)
				r.Put("/query", h.HandleSetQuery)
				r.Post("/search", h.HandleSessionSearch)
				r.Post("/selection", h.HandleSelect)
				r.Delete("/selection", h.HandleClearSelection)
				r.Delete("/selection/{itemID}", h.HandleDeselect)
				r.Post("/recommend", h.HandleSessionRecommend)
			})
		})
	})

	return r
}

func rateLimit(cfg RouterConfig) func(http.Handler) http.Handler {
	if cfg.RateLimit <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	window := cfg.RateWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.LimitByIP(cfg.RateLimit, window)
}

// RequestLogger logs one line per request once the response is written.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.Log(r.Context(), level, "HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
