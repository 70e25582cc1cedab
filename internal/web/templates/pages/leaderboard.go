package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/web/templates/layout"
)

// LeaderboardData holds data for the leaderboard page
type LeaderboardData struct {
	layout.PageData
	Games []*model.GameListing
}

// Leaderboard renders games ranked by average rating
func Leaderboard(data LeaderboardData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Leaderboard</h1>`)
		b.WriteString(`<table id="leaderboard"><thead><tr><th>#</th><th>Game</th><th>Average</th><th>Ratings</th></tr></thead><tbody>`)
		for i, listing := range data.Games {
			b.WriteString(`<tr class="board-row"><td>`)
			fmt.Fprintf(&b, "%d", i+1)
			b.WriteString(`</td><td><a href="/games/`)
			b.WriteString(templ.EscapeString(listing.Game.Slug))
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(listing.Game.Title))
			b.WriteString(`</a></td><td class="board-avg">`)
			fmt.Fprintf(&b, "%.2f", listing.Average)
			b.WriteString(`</td><td>`)
			fmt.Fprintf(&b, "%d", listing.RatingCount)
			b.WriteString(`</td></tr>`)
		}
		b.WriteString(`</tbody></table>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Page(data.PageData, content)
}
