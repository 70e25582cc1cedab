package model

import "time"

// GameID uniquely identifies a published game
type GameID int64

// Game represents a browser-playable game in the catalog
type Game struct {
	ID           GameID
	Title        string
	Slug         string // unique, URL-safe
	Description  string
	Instructions string
	PlayMarkup   string // the playable HTML bundle, rendered verbatim on the play page
	UploaderID   UserID
	CreatedAt    time.Time
}

// GameListing is a catalog entry with its aggregate rating.
// The average is computed at read time; an unrated game has Average 0.
type GameListing struct {
	*Game
	Average     float64
	RatingCount int
}
