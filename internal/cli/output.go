package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case GameListing:
		o.printGameListing(v, 0)
	case []GameListing:
		o.printGameListings(v)
	case SendCodeResult:
		fmt.Printf("Verification code for %s: %s\n", v.Phone, v.Code)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult combines user and token
type AuthResult struct {
	SessionToken string    `json:"session_token"`
	User         User      `json:"user"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// GameListing response type
type GameListing struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	Description   string  `json:"description"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

// SendCodeResult response type
type SendCodeResult struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	role := "player"
	if u.IsAdmin {
		role = "admin"
	}
	fmt.Printf("User: %s (#%d)\n", u.Username, u.ID)
	fmt.Printf("Role: %s\n", role)
	fmt.Printf("Joined: %s\n", u.CreatedAt.Format("2006-01-02"))
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
	fmt.Printf("Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printGameListing(g GameListing, rank int) {
	if rank > 0 {
		fmt.Printf("%2d. ", rank)
	}
	if g.RatingCount > 0 {
		fmt.Printf("%s (%s) - %.2f from %d ratings\n", g.Title, g.Slug, g.AverageRating, g.RatingCount)
	} else {
		fmt.Printf("%s (%s) - not yet rated\n", g.Title, g.Slug)
	}
	if g.Description != "" {
		fmt.Printf("    %s\n", g.Description)
	}
}

func (o *Output) printGameListings(games []GameListing) {
	if len(games) == 0 {
		fmt.Println("No games found")
		return
	}
	for i, g := range games {
		o.printGameListing(g, i+1)
	}
}
