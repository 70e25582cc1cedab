package model

import "time"

// PlayID uniquely identifies a play session
type PlayID int64

// PlaySession records that a user opened a game. Append-only: history is
// never edited or deleted by rating, login, or replay actions.
type PlaySession struct {
	ID       PlayID
	UserID   UserID
	GameID   GameID
	PlayedAt time.Time
}

// PlayRecord is a history entry joined with its game's title and slug
// for display in the user's play history.
type PlayRecord struct {
	PlaySession
	GameTitle string
	GameSlug  string
}
