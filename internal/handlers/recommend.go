package handlers

import (
	"net/http"

	"github.com/taichizzz/anime-recommender/internal/models"
	"github.com/taichizzz/anime-recommender/internal/recommend"
)

type recommendRequest struct {
	LikedAnimeIDs []int `json:"likedAnimeIds" validate:"required,min=1"`
}

// HandleRecommend returns recommendations for a list of liked ids. Any
// malformed body gets the same 400 as an empty list.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, recommend.ErrEmptyLikedIDs)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, recommend.ErrEmptyLikedIDs)
		return
	}

	recs, err := h.recommender.Recommend(r.Context(), req.LikedAnimeIDs)
	if err != nil {
		if models.IsValidation(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Recommendation failed: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, resultsResponse[models.RecommendationItem]{Results: recs})
}
