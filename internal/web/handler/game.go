package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/services/catalog"
	"github.com/rz1986/gameportal/internal/services/rating"
	"github.com/rz1986/gameportal/internal/web/form"
	"github.com/rz1986/gameportal/internal/web/middleware"
	"github.com/rz1986/gameportal/internal/web/templates/layout"
	"github.com/rz1986/gameportal/internal/web/templates/pages"
)

// GameHandler serves game detail, play, and rating endpoints
type GameHandler struct {
	catalogService *catalog.Service
	ratingService  *rating.Service
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(catalogService *catalog.Service, ratingService *rating.Service) *GameHandler {
	return &GameHandler{
		catalogService: catalogService,
		ratingService:  ratingService,
	}
}

// Detail renders a game's description, instructions, and rating summary
func (h *GameHandler) Detail(w http.ResponseWriter, r *http.Request) {
	game, ok := h.gameFromPath(w, r)
	if !ok {
		return
	}

	avg, count, err := h.ratingService.GameAverage(r.Context(), game.ID)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pages.GameDetailData{
		PageData: layout.PageData{
			Title: game.Title,
			Flash: middleware.GetFlash(r.Context()),
			User:  middleware.GetUser(r.Context()),
		},
		Game:        game,
		Average:     avg,
		RatingCount: count,
	}

	if session := middleware.GetSession(r.Context()); session != nil {
		// A failed lookup just renders the form unselected.
		data.UserRating, _ = h.ratingService.GetUserRating(r.Context(), session.Token, game.ID)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.GameDetail(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Play renders the playable bundle and records a play session
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	game, ok := h.gameFromPath(w, r)
	if !ok {
		return
	}

	session := middleware.GetSession(r.Context())
	if err := h.ratingService.RecordPlay(r.Context(), session.Token, game.ID); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pages.GamePlayData{
		PageData: layout.PageData{
			Title: game.Title,
			Flash: middleware.GetFlash(r.Context()),
			User:  middleware.GetUser(r.Context()),
		},
		Game: game,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.GamePlay(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Rate handles the rating form. A repeat rating replaces the previous score.
func (h *GameHandler) Rate(w http.ResponseWriter, r *http.Request) {
	game, ok := h.gameFromPath(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/games/"+game.Slug, http.StatusSeeOther)
		return
	}

	f, fieldErrs := form.ParseRateGame(r)
	if fieldErrs.Any() {
		middleware.SetFlash(w, "error", "Score must be between 1 and 5")
		http.Redirect(w, r, "/games/"+game.Slug, http.StatusSeeOther)
		return
	}

	session := middleware.GetSession(r.Context())
	if err := h.ratingService.RateGame(r.Context(), session.Token, game.ID, f.Score); err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			middleware.SetFlash(w, "error", "Score must be between 1 and 5")
		} else {
			middleware.SetFlash(w, "error", "Failed to save your rating")
		}
		http.Redirect(w, r, "/games/"+game.Slug, http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", "Your rating has been saved")
	http.Redirect(w, r, "/games/"+game.Slug, http.StatusSeeOther)
}

func (h *GameHandler) gameFromPath(w http.ResponseWriter, r *http.Request) (*model.Game, bool) {
	slug := mux.Vars(r)["slug"]
	game, err := h.catalogService.GetGame(r.Context(), slug)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			http.NotFound(w, r)
		} else {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return nil, false
	}
	return game, true
}
