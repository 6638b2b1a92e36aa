package handlers

import (
	"net/http"
	"strings"

	"github.com/taichizzz/anime-recommender/internal/models"
)

const missingQueryMessage = "Missing query parameter. Use /search?query=naruto"

type resultsResponse[T any] struct {
	Results []T `json:"results"`
}

// HandleSearch looks up catalog items by title. The query is read from
// "query", falling back to "q".
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("query"))
	if query == "" {
		query = strings.TrimSpace(q.Get("q"))
	}
	if query == "" {
		h.writeError(w, http.StatusBadRequest, missingQueryMessage)
		return
	}

	items, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		if models.IsValidation(err) {
			h.writeError(w, http.StatusBadRequest, missingQueryMessage)
			return
		}
		h.writeProviderError(w, err)
		return
	}

	if items == nil {
		items = []models.CatalogItem{}
	}
	h.writeJSON(w, http.StatusOK, resultsResponse[models.CatalogItem]{Results: items})
}
