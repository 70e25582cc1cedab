package model

import "time"

// Score bounds for game ratings
const (
	MinScore = 1
	MaxScore = 5
)

// Rating is a user's score for a game. At most one rating exists per
// (user, game) pair; re-rating overwrites the previous score.
type Rating struct {
	UserID    UserID
	GameID    GameID
	Score     int // MinScore..MaxScore
	CreatedAt time.Time
}

// ValidScore reports whether score is within the allowed rating bounds
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
