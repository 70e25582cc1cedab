package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/web/templates/layout"
)

// HistoryData holds data for the play history page
type HistoryData struct {
	layout.PageData
	Plays []*model.PlayRecord
}

// History renders the user's play sessions, most recent first
func History(data HistoryData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>My Play History</h1>`)
		if len(data.Plays) == 0 {
			b.WriteString(`<p id="history-empty">You haven't played anything yet. <a href="/">Browse the catalog</a></p>`)
		} else {
			b.WriteString(`<table id="history"><thead><tr><th>Game</th><th>Played</th></tr></thead><tbody>`)
			for _, play := range data.Plays {
				b.WriteString(`<tr class="play-row"><td><a href="/games/`)
				b.WriteString(templ.EscapeString(play.GameSlug))
				b.WriteString(`">`)
				b.WriteString(templ.EscapeString(play.GameTitle))
				b.WriteString(`</a></td><td title="`)
				b.WriteString(templ.EscapeString(play.PlayedAt.Format("2006-01-02 15:04:05")))
				b.WriteString(`">`)
				b.WriteString(templ.EscapeString(humanize.Time(play.PlayedAt)))
				b.WriteString(`</td></tr>`)
			}
			b.WriteString(`</tbody></table>`)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Page(data.PageData, content)
}
