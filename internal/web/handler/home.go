package handler

import (
	"net/http"

	"github.com/rz1986/gameportal/internal/services/catalog"
	"github.com/rz1986/gameportal/internal/services/rating"
	"github.com/rz1986/gameportal/internal/storage"
	"github.com/rz1986/gameportal/internal/web/middleware"
	"github.com/rz1986/gameportal/internal/web/templates/layout"
	"github.com/rz1986/gameportal/internal/web/templates/pages"
)

const featuredCount = 10

// HomeHandler serves the catalog landing page and the leaderboard
type HomeHandler struct {
	catalogService *catalog.Service
	ratingService  *rating.Service
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(catalogService *catalog.Service, ratingService *rating.Service) *HomeHandler {
	return &HomeHandler{
		catalogService: catalogService,
		ratingService:  ratingService,
	}
}

// Home renders the game catalog, sorted by rating unless ?sort=title
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	sort := storage.SortByRating
	if r.URL.Query().Get("sort") == "title" {
		sort = storage.SortByTitle
	}

	games, err := h.catalogService.ListGames(r.Context(), sort)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// The featured strip is always rating-ordered, even when the catalog
	// below is alphabetical.
	featured := games
	if sort != storage.SortByRating {
		featured, err = h.catalogService.ListGames(r.Context(), storage.SortByRating)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
	if len(featured) > featuredCount {
		featured = featured[:featuredCount]
	}

	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Game Portal",
			Flash: middleware.GetFlash(r.Context()),
			User:  middleware.GetUser(r.Context()),
		},
		Featured: featured,
		Games:    games,
		Sort:     string(sort),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Leaderboard renders games ranked by average rating
func (h *HomeHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	games, err := h.ratingService.Leaderboard(r.Context(), 0)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pages.LeaderboardData{
		PageData: layout.PageData{
			Title: "Leaderboard",
			Flash: middleware.GetFlash(r.Context()),
			User:  middleware.GetUser(r.Context()),
		},
		Games: games,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Leaderboard(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
