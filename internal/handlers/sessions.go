package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taichizzz/anime-recommender/internal/models"
	"github.com/taichizzz/anime-recommender/internal/session"
)

type sessionResponse struct {
	ID    string        `json:"id"`
	State session.State `json:"state"`
}

type queryRequest struct {
	Query *string `json:"query" validate:"required"`
}

type selectRequest struct {
	ID *int `json:"id" validate:"required"`
}

func (h *Handler) writeSession(w http.ResponseWriter, status int, id string, controller *session.Controller) {
	h.writeJSON(w, status, sessionResponse{ID: id, State: controller.Snapshot()})
}

// HandleCreateSession starts an empty session.
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, controller := h.sessionStore.Create()
	slog.Info("Session created", "session_id", id)
	h.writeSession(w, http.StatusCreated, id, controller)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	controller, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}
	h.writeSession(w, http.StatusOK, id, controller)
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !h.sessionStore.Delete(id) {
		h.writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	slog.Info("Session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetQuery replaces the query text. An empty string is allowed.
func (h *Handler) HandleSetQuery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	controller, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	var req queryRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	controller.SetQuery(*req.Query)
	h.writeSession(w, http.StatusOK, id, controller)
}

// HandleSessionSearch searches for the session's current query. Provider
// failures are reported in the session state, not as an HTTP error.
func (h *Handler) HandleSessionSearch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	controller, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	if err := controller.Search(outboundContext(r)); err != nil {
		if models.IsValidation(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Warn("Session search failed", "session_id", id, "err", err)
	}
	h.writeSession(w, http.StatusOK, id, controller)
}

// HandleSelect adds an item from the current results to the selection.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	controller, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	var req selectRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.selectResult(controller, *req.ID); err != nil {
		var limitErr *models.SelectionLimitError
		if !errors.As(err, &limitErr) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	h.writeSession(w, http.StatusOK, id, controller)
}

// selectResult selects the result with the given id. Reselecting an item that
// is no longer in the results is still a no-op.
func (h *Handler) selectResult(controller *session.Controller, itemID int) error {
	if controller.IsSelected(itemID) {
		return nil
	}
	item, found := controller.ResultByID(itemID)
	if !found {
		return models.NewValidationError("anime %d is not in the current results", itemID)
	}
	return controller.Select(item)
}

func (h *Handler) HandleDeselect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	controller, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid anime id %q", chi.URLParam(r, "itemID")))
		return
	}

	controller.Deselect(itemID)
	h.writeSession(w, http.StatusOK, id, controller)
}

func (h *Handler) HandleClearSelection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	controller, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}
	controller.ClearSelection()
	h.writeSession(w, http.StatusOK, id, controller)
}

// HandleSessionRecommend requests recommendations for the selection.
func (h *Handler) HandleSessionRecommend(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	controller, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	if err := controller.Recommend(outboundContext(r)); err != nil {
		if models.IsValidation(err) && len(controller.Snapshot().Selected) == 0 {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Warn("Session recommend failed", "session_id", id, "err", err)
	}
	h.writeSession(w, http.StatusOK, id, controller)
}
