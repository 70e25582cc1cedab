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

// GameDetailData holds data for the game detail page
type GameDetailData struct {
	layout.PageData
	Game        *model.Game
	Average     float64
	RatingCount int
	// UserRating is the viewer's own rating, nil when unrated or anonymous
	UserRating *model.Rating
}

// GameDetail renders a game's description, rating summary, and rate form
func GameDetail(data GameDetailData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article id="game-detail"><h1>`)
		b.WriteString(templ.EscapeString(data.Game.Title))
		b.WriteString(`</h1><p class="description">`)
		b.WriteString(templ.EscapeString(data.Game.Description))
		b.WriteString(`</p><h2>How to play</h2><p class="instructions">`)
		b.WriteString(templ.EscapeString(data.Game.Instructions))
		b.WriteString(`</p>`)

		b.WriteString(`<p id="avg-rating">`)
		if data.RatingCount == 0 {
			b.WriteString(`Not yet rated`)
		} else {
			fmt.Fprintf(&b, `Average rating: %.2f from %d ratings`, data.Average, data.RatingCount)
		}
		b.WriteString(`</p>`)

		b.WriteString(`<a class="play-link" href="/games/`)
		b.WriteString(templ.EscapeString(data.Game.Slug))
		b.WriteString(`/play">Play now</a>`)

		if data.User != nil {
			b.WriteString(`<form method="post" action="/games/`)
			b.WriteString(templ.EscapeString(data.Game.Slug))
			b.WriteString(`/rate" id="rate-form"><label>Your rating<select name="score">`)
			for score := model.MinScore; score <= model.MaxScore; score++ {
				selected := ""
				if data.UserRating != nil && data.UserRating.Score == score {
					selected = ` selected`
				}
				fmt.Fprintf(&b, `<option value="%d"%s>%d</option>`, score, selected, score)
			}
			b.WriteString(`</select></label><button type="submit">Rate</button></form>`)
		} else {
			b.WriteString(`<p><a href="/login">Log in</a> to rate and play.</p>`)
		}

		b.WriteString(`</article>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Page(data.PageData, content)
}

// GamePlayData holds data for the play page
type GamePlayData struct {
	layout.PageData
	Game *model.Game
}

// GamePlay renders the playable bundle. The markup is admin-provided and
// rendered verbatim.
func GamePlay(data GamePlayData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		header := `<div id="game-play"><h1>` + templ.EscapeString(data.Game.Title) + `</h1>`
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}
		if err := templ.Raw(data.Game.PlayMarkup).Render(ctx, w); err != nil {
			return err
		}
		footer := `<p><a href="/games/` + templ.EscapeString(data.Game.Slug) + `">Back to game page</a></p></div>`
		_, err := io.WriteString(w, footer)
		return err
	})
	return layout.Page(data.PageData, content)
}
