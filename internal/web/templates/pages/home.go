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

// HomeData holds data for the catalog landing page
type HomeData struct {
	layout.PageData
	Featured []*model.GameListing
	Games    []*model.GameListing
	Sort     string
}

// Home renders the landing page: featured games plus the full catalog
func Home(data HomeData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString(`<section id="featured"><h1>Featured Games</h1><ul>`)
		for _, listing := range data.Featured {
			b.WriteString(`<li><a href="/games/`)
			b.WriteString(templ.EscapeString(listing.Game.Slug))
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(listing.Game.Title))
			b.WriteString(`</a> `)
			writeStars(&b, listing.Average, listing.RatingCount)
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul></section>`)

		b.WriteString(`<section id="catalog"><h2>All Games</h2>`)
		b.WriteString(`<p class="sort-links">Sort by <a href="/?sort=rating">rating</a> or <a href="/?sort=title">title</a></p>`)
		b.WriteString(`<table><thead><tr><th>Title</th><th>Description</th><th>Rating</th></tr></thead><tbody>`)
		for _, listing := range data.Games {
			b.WriteString(`<tr class="game-row"><td><a href="/games/`)
			b.WriteString(templ.EscapeString(listing.Game.Slug))
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(listing.Game.Title))
			b.WriteString(`</a></td><td>`)
			b.WriteString(templ.EscapeString(listing.Game.Description))
			b.WriteString(`</td><td>`)
			writeStars(&b, listing.Average, listing.RatingCount)
			b.WriteString(`</td></tr>`)
		}
		b.WriteString(`</tbody></table></section>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Page(data.PageData, content)
}

func writeStars(b *strings.Builder, avg float64, count int) {
	if count == 0 {
		b.WriteString(`<span class="rating unrated">not yet rated</span>`)
		return
	}
	fmt.Fprintf(b, `<span class="rating">%.1f (%d)</span>`, avg, count)
}
