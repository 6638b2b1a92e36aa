package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/taichizzz/anime-recommender/internal/models"
	"github.com/taichizzz/anime-recommender/internal/session"
	"github.com/taichizzz/anime-recommender/internal/storage"
)

// maxBodyBytes caps request bodies. Every body this server accepts is tiny.
const maxBodyBytes = 64 << 10

type Handler struct {
	sessionStore *storage.SessionStore
	searcher     session.Searcher
	recommender  session.Recommender
	validate     *validator.Validate
}

// New wires the handlers to a session store and the adapters used by the
// stateless endpoints.
func New(store *storage.SessionStore, searcher session.Searcher, recommender session.Recommender) *Handler {
	return &Handler{
		sessionStore: store,
		searcher:     searcher,
		recommender:  recommender,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("Unable to write JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	if status >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug("Rejected request", "status", status, "error", message)
	}
	h.writeJSON(w, status, errorResponse{Error: message})
}

// writeProviderError reports an upstream failure as a 500 carrying the detail.
func (h *Handler) writeProviderError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: models.ProviderFailureMessage, Detail: err.Error()}
	var pe *models.ProviderError
	if errors.As(err, &pe) {
		resp.Detail = pe.Detail
	}
	slog.Error("Metadata provider request failed", "err", err)
	h.writeJSON(w, http.StatusInternalServerError, resp)
}

// decodeJSON reads a JSON body into v.
func (h *Handler) decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errors.New("empty request body")
	}
	return json.Unmarshal(body, v)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*session.Controller, bool) {
	controller, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return controller, true
}

// outboundContext detaches session work from the inbound request. Once
// issued, a search or recommendation runs to completion even if the client
// goes away.
func outboundContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
