package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rz1986/gameportal/internal/api/response"
	"github.com/rz1986/gameportal/internal/services/catalog"
	"github.com/rz1986/gameportal/internal/services/rating"
	"github.com/rz1986/gameportal/internal/storage"
)

// GameHandler handles catalog and leaderboard endpoints
type GameHandler struct {
	catalogService *catalog.Service
	ratingService  *rating.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(catalogService *catalog.Service, ratingService *rating.Service) *GameHandler {
	return &GameHandler{
		catalogService: catalogService,
		ratingService:  ratingService,
	}
}

// List handles GET /api/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	sort := storage.SortByRating
	if r.URL.Query().Get("sort") == "title" {
		sort = storage.SortByTitle
	}

	listings, err := h.catalogService.ListGames(r.Context(), sort)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListingsFromModel(listings))
}

// Get handles GET /api/games/{slug}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.catalogService.GetGame(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		WriteError(w, err)
		return
	}

	avg, count, err := h.ratingService.GameAverage(r.Context(), game.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	listing := response.GameListing{
		Game:          response.GameFromModel(game),
		AverageRating: avg,
		RatingCount:   count,
	}
	response.JSON(w, http.StatusOK, listing)
}

// Leaderboard handles GET /api/leaderboard
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	listings, err := h.ratingService.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListingsFromModel(listings))
}
