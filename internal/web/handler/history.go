package handler

import (
	"net/http"

	"github.com/rz1986/gameportal/internal/services/rating"
	"github.com/rz1986/gameportal/internal/web/middleware"
	"github.com/rz1986/gameportal/internal/web/templates/layout"
	"github.com/rz1986/gameportal/internal/web/templates/pages"
)

// HistoryHandler serves the signed-in user's play history
type HistoryHandler struct {
	ratingService *rating.Service
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(ratingService *rating.Service) *HistoryHandler {
	return &HistoryHandler{
		ratingService: ratingService,
	}
}

// History renders the user's play sessions, most recent first
func (h *HistoryHandler) History(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	plays, err := h.ratingService.GetHistory(r.Context(), session.Token)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pages.HistoryData{
		PageData: layout.PageData{
			Title: "My Play History",
			Flash: middleware.GetFlash(r.Context()),
			User:  middleware.GetUser(r.Context()),
		},
		Plays: plays,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.History(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
