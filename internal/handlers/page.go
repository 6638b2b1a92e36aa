package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taichizzz/anime-recommender/internal/models"
	"github.com/taichizzz/anime-recommender/internal/session"
)

// SessionCookie names the cookie holding the browser's session id.
const SessionCookie = "anime_session"

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// HandleIndex renders the page for the caller's session, starting one if needed.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	_, controller := h.pageSession(w, r)

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, session.Render(controller.Snapshot())); err != nil {
		slog.Error("Unable to render page", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Unable to write page", "err", err)
	}
}

func (h *Handler) HandleUISearch(w http.ResponseWriter, r *http.Request) {
	id, controller := h.pageSession(w, r)
	controller.SetQuery(r.FormValue("query"))
	if err := controller.Search(outboundContext(r)); err != nil && !models.IsValidation(err) {
		slog.Warn("Page search failed", "session_id", id, "err", err)
	}
	redirectHome(w, r)
}

func (h *Handler) HandleUISelect(w http.ResponseWriter, r *http.Request) {
	id, controller := h.pageSession(w, r)
	if itemID, ok := formID(r); ok {
		if err := h.selectResult(controller, itemID); err != nil && models.IsValidation(err) {
			slog.Debug("Ignoring selection of unknown result", "session_id", id, "anime_id", itemID)
		}
	}
	redirectHome(w, r)
}

func (h *Handler) HandleUIDeselect(w http.ResponseWriter, r *http.Request) {
	_, controller := h.pageSession(w, r)
	if itemID, ok := formID(r); ok {
		controller.Deselect(itemID)
	}
	redirectHome(w, r)
}

func (h *Handler) HandleUIClear(w http.ResponseWriter, r *http.Request) {
	_, controller := h.pageSession(w, r)
	controller.ClearSelection()
	redirectHome(w, r)
}

func (h *Handler) HandleUIRecommend(w http.ResponseWriter, r *http.Request) {
	id, controller := h.pageSession(w, r)
	if err := controller.Recommend(outboundContext(r)); err != nil && !models.IsValidation(err) {
		slog.Warn("Page recommend failed", "session_id", id, "err", err)
	}
	redirectHome(w, r)
}

// pageSession returns the session named by the cookie. A missing or expired
// session is replaced by a new one and the cookie is reset.
func (h *Handler) pageSession(w http.ResponseWriter, r *http.Request) (string, *session.Controller) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if controller, ok := h.sessionStore.Get(cookie.Value); ok {
			return cookie.Value, controller
		}
	}

	id, controller := h.sessionStore.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Info("Session created", "session_id", id, "source", "page")
	return id, controller
}

func formID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.FormValue("id"))
	return id, err == nil
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
