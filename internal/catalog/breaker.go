package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/taichizzz/anime-recommender/internal/metrics"
	"github.com/taichizzz/anime-recommender/internal/models"
)

// BreakerOptions configures a Breaker. Zero values fall back to defaults.
type BreakerOptions struct {
	Name     string
	Failures uint32        // consecutive failures before opening (default 5)
	Cooldown time.Duration // time spent open before probing (default 30s)
}

// Breaker wraps a Searcher with a circuit breaker so a failing provider is
// not hammered. It never retries: each search is attempted at most once, and
// while the circuit is open it is rejected without an HTTP call.
type Breaker struct {
	next Searcher
	cb   *gobreaker.CircuitBreaker[[]models.CatalogItem]
	name string
}

// NewBreaker wraps next with a consecutive-failure circuit breaker.
func NewBreaker(next Searcher, opts BreakerOptions) *Breaker {
	name := opts.Name
	if name == "" {
		name = "jikan"
	}
	failures := opts.Failures
	if failures == 0 {
		failures = 5
	}
	cooldown := opts.Cooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]models.CatalogItem](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || models.IsValidation(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Info("Circuit breaker state transition", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Breaker{next: next, cb: cb, name: name}
}

// Search forwards to the wrapped Searcher unless the circuit is open.
func (b *Breaker) Search(ctx context.Context, query string) ([]models.CatalogItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("query must not be empty")
	}

	items, err := b.cb.Execute(func() ([]models.CatalogItem, error) {
		return b.next.Search(ctx, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			slog.Warn("Circuit breaker rejected search", "name", b.name, "err", err)
			return nil, &models.ProviderError{Detail: "circuit breaker open: " + err.Error(), Err: err}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return items, nil
}

// State returns the current breaker state as a string.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
