// Package session owns the interactive state of one user: the query, the last
// search results, the bounded selection of liked items and the recommendations
// derived from it.
//
// Every transition goes through Controller so the invariants hold in one place:
//
//   - the selection holds at most MaxSelection items with unique ids, in
//     insertion order;
//   - any change to the selection clears the recommendations;
//   - at most one error message is held, and starting a new action clears it.
//
// Outbound calls are split into Begin/Finish pairs so callers can run them
// without holding the lock. Each Begin issues a ticket, and only the most
// recently issued ticket is applied on Finish. A response for an older search,
// or a recommendation computed for a selection that has since changed, is
// discarded.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/taichizzz/anime-recommender/internal/metrics"
	"github.com/taichizzz/anime-recommender/internal/models"
)

// MaxSelection is the hard ceiling on liked items.
const MaxSelection = 3

// Searcher looks up catalog items by title.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.CatalogItem, error)
}

// Recommender turns liked item ids into recommendations.
type Recommender interface {
	Recommend(ctx context.Context, likedIDs []int) ([]models.RecommendationItem, error)
}

// State is a snapshot of a session.
type State struct {
	Query           string                      `json:"query"`
	Results         []models.CatalogItem        `json:"results"`
	Selected        []models.CatalogItem        `json:"selected"`
	Recommendations []models.RecommendationItem `json:"recommendations"`
	Searching       bool                        `json:"searching"`
	Recommending    bool                        `json:"recommending"`
	Error           string                      `json:"error,omitempty"`
}

// SearchTicket identifies one in-flight search.
type SearchTicket struct {
	seq   uint64
	Query string
}

// RecommendTicket identifies one in-flight recommendation request and the
// selection it was issued for.
type RecommendTicket struct {
	seq      uint64
	version  uint64
	LikedIDs []int
}

// Controller is safe for concurrent use.
type Controller struct {
	mu          sync.Mutex
	searcher    Searcher
	recommender Recommender
	state       State

	searchSeq        uint64
	recommendSeq     uint64
	selectionVersion uint64
}

// New returns a controller with an empty session.
func New(searcher Searcher, recommender Recommender) *Controller {
	return &Controller{
		searcher:    searcher,
		recommender: recommender,
		state: State{
			Results:         []models.CatalogItem{},
			Selected:        []models.CatalogItem{},
			Recommendations: []models.RecommendationItem{},
		},
	}
}

// SetQuery updates the query text only.
func (c *Controller) SetQuery(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = text
}

// Search runs a search for the current query and applies the outcome. A
// blank query returns a ValidationError without touching state. An adapter
// failure is recorded in the state and also returned.
func (c *Controller) Search(ctx context.Context) error {
	ticket, err := c.BeginSearch()
	if err != nil {
		return err
	}
	items, err := c.searcher.Search(ctx, ticket.Query)
	c.FinishSearch(ticket, items, err)
	return err
}

// BeginSearch marks a search as started and returns its ticket.
func (c *Controller) BeginSearch() (SearchTicket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := strings.TrimSpace(c.state.Query)
	if q == "" {
		return SearchTicket{}, models.NewValidationError("query must not be empty")
	}

	c.searchSeq++
	c.state.Searching = true
	c.state.Error = ""
	metrics.SessionEvents.WithLabelValues("search").Inc()
	return SearchTicket{seq: c.searchSeq, Query: q}, nil
}

// FinishSearch applies a search outcome. It reports false when the ticket was
// superseded by a later search and the outcome was discarded.
func (c *Controller) FinishSearch(t SearchTicket, items []models.CatalogItem, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.seq == 0 || t.seq != c.searchSeq {
		metrics.SessionEvents.WithLabelValues("stale_discarded").Inc()
		return false
	}

	c.state.Searching = false
	if err != nil {
		c.state.Error = ErrorMessage(err)
		c.state.Results = []models.CatalogItem{}
		return true
	}
	c.state.Results = append([]models.CatalogItem{}, items...)
	return true
}

// Select appends item to the selection. Selecting an item twice is a no-op.
// When the selection is full the selection is left unchanged, the limit
// message is recorded and a *models.SelectionLimitError is returned.
func (c *Controller) Select(item models.CatalogItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(item.ID) >= 0 {
		return nil
	}

	if len(c.state.Selected) >= MaxSelection {
		err := &models.SelectionLimitError{Limit: MaxSelection}
		c.state.Error = err.Error()
		metrics.SessionEvents.WithLabelValues("select_rejected").Inc()
		return err
	}

	c.state.Error = ""
	c.state.Selected = append(c.state.Selected, item)
	c.selectionChanged()
	metrics.SessionEvents.WithLabelValues("select").Inc()
	return nil
}

// Deselect removes the item with the given id. It reports whether the item
// was selected; removing an absent id changes nothing.
func (c *Controller) Deselect(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false
	}

	c.state.Error = ""
	c.state.Selected = append(c.state.Selected[:i:i], c.state.Selected[i+1:]...)
	c.selectionChanged()
	metrics.SessionEvents.WithLabelValues("deselect").Inc()
	return true
}

// ClearSelection empties the selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Error = ""
	c.state.Selected = []models.CatalogItem{}
	c.selectionChanged()
	metrics.SessionEvents.WithLabelValues("clear").Inc()
}

// Recommend requests recommendations for the current selection and applies
// the outcome. An empty selection returns a ValidationError without any
// outbound call.
func (c *Controller) Recommend(ctx context.Context) error {
	ticket, err := c.BeginRecommend()
	if err != nil {
		return err
	}
	items, err := c.recommender.Recommend(ctx, ticket.LikedIDs)
	c.FinishRecommend(ticket, items, err)
	return err
}

// BeginRecommend marks a recommendation request as started and returns its ticket.
func (c *Controller) BeginRecommend() (RecommendTicket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.state.Selected) == 0 {
		return RecommendTicket{}, models.NewValidationError("select at least one anime first")
	}

	c.recommendSeq++
	c.state.Recommending = true
	c.state.Error = ""
	metrics.SessionEvents.WithLabelValues("recommend").Inc()
	return RecommendTicket{
		seq:      c.recommendSeq,
		version:  c.selectionVersion,
		LikedIDs: models.IDs(c.state.Selected),
	}, nil
}

// FinishRecommend applies a recommendation outcome. It reports false when the
// outcome was discarded, either because a later request superseded it or
// because the selection changed while it was in flight.
func (c *Controller) FinishRecommend(t RecommendTicket, items []models.RecommendationItem, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.seq == 0 || t.seq != c.recommendSeq {
		metrics.SessionEvents.WithLabelValues("stale_discarded").Inc()
		return false
	}

	c.state.Recommending = false
	if t.version != c.selectionVersion {
		metrics.SessionEvents.WithLabelValues("stale_discarded").Inc()
		return false
	}

	if err != nil {
		c.state.Error = ErrorMessage(err)
		c.state.Recommendations = []models.RecommendationItem{}
		return true
	}
	c.state.Recommendations = append([]models.RecommendationItem{}, items...)
	return true
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Results = append([]models.CatalogItem{}, c.state.Results...)
	s.Selected = append([]models.CatalogItem{}, c.state.Selected...)
	s.Recommendations = append([]models.RecommendationItem{}, c.state.Recommendations...)
	return s
}

// IsSelected reports whether id is in the selection.
func (c *Controller) IsSelected(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(id) >= 0
}

// ResultByID finds an item in the last search results.
func (c *Controller) ResultByID(id int) (models.CatalogItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Results {
		if item.ID == id {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

func (c *Controller) indexOf(id int) int {
	for i, item := range c.state.Selected {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// selectionChanged must be called, with the lock held, after every selection
// mutation. Recommendations are derived from the selection and become invalid.
func (c *Controller) selectionChanged() {
	c.selectionVersion++
	c.state.Recommendations = []models.RecommendationItem{}
}

// ErrorMessage renders err as the single user-visible error line.
func ErrorMessage(err error) string {
	var pe *models.ProviderError
	if errors.As(err, &pe) {
		detail, _, _ := strings.Cut(pe.Detail, "\n")
		return models.ProviderFailureMessage + ": " + detail
	}
	return err.Error()
}
