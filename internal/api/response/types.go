package response

import (
	"time"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/services/auth"
)

// User represents a user in API responses
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:        int64(u.ID),
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	SessionToken string    `json:"session_token"`
	User         User      `json:"user"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession builds an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		SessionToken: s.Token,
		User:         UserFromModel(&s.User),
		ExpiresAt:    s.ExpiresAt,
	}
}

// Game represents a game in API responses
type Game struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Instructions string    `json:"instructions,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:           int64(g.ID),
		Title:        g.Title,
		Slug:         g.Slug,
		Description:  g.Description,
		Instructions: g.Instructions,
		CreatedAt:    g.CreatedAt,
	}
}

// GameListing is a game joined with its rating summary
type GameListing struct {
	Game
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

// GameListingFromModel converts a model.GameListing
func GameListingFromModel(l *model.GameListing) GameListing {
	return GameListing{
		Game:          GameFromModel(l.Game),
		AverageRating: l.Average,
		RatingCount:   l.RatingCount,
	}
}

// GameListingsFromModel converts a slice of listings
func GameListingsFromModel(listings []*model.GameListing) []GameListing {
	out := make([]GameListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, GameListingFromModel(l))
	}
	return out
}

// SendCodeResponse returns the verification code. Echoing the code in the
// response stands in for an SMS gateway in this demo portal.
type SendCodeResponse struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}
