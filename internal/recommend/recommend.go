// Package recommend defines the recommendation engine boundary and the
// placeholder engine used until a real one exists.
package recommend

import (
	"context"

	"github.com/taichizzz/anime-recommender/internal/metrics"
	"github.com/taichizzz/anime-recommender/internal/models"
)

// Engine produces recommendations from the ids of liked catalog items.
//
// A real engine must accept a non-empty id list and return a ranked,
// non-empty list whose items each carry a populated Reason.
type Engine interface {
	Recommend(ctx context.Context, likedIDs []int) ([]models.RecommendationItem, error)
}

// ErrEmptyLikedIDs is the message returned for an empty id list.
const ErrEmptyLikedIDs = "likedAnimeIds must be a non-empty array"

// Stub is an Engine with a fixed, input-independent output.
type Stub struct{}

// NewStub returns the placeholder engine
func NewStub() *Stub {
	return &Stub{}
}

// Recommend validates likedIDs and returns the placeholder list. The ids
// themselves are ignored.
func (s *Stub) Recommend(ctx context.Context, likedIDs []int) ([]models.RecommendationItem, error) {
	if len(likedIDs) == 0 {
		metrics.RecommendRequests.WithLabelValues("invalid").Inc()
		return nil, models.NewValidationError(ErrEmptyLikedIDs)
	}
	metrics.RecommendRequests.WithLabelValues("success").Inc()
	return placeholders(), nil
}

// placeholders returns a fresh copy so callers can't mutate shared data.
func placeholders() []models.RecommendationItem {
	return []models.RecommendationItem{
		{
			ID:     1,
			Title:  "Demo Recommendation A",
			Reason: "Starter placeholder. Next we will compute real recommendations.",
		},
		{
			ID:     2,
			Title:  "Demo Recommendation B",
			Reason: "This confirms your frontend can POST selected anime IDs to the backend.",
		},
	}
}
