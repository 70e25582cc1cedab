package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/rz1986/gameportal/internal/web/templates/layout"
)

// AdminNewGameData holds data for the admin upload form
type AdminNewGameData struct {
	layout.PageData
	Title        string
	Slug         string
	Description  string
	Instructions string
	PlayMarkup   string
	Error        string
}

// AdminNewGame renders the game publishing form. The bundle can be pasted
// inline or uploaded as an .html file.
func AdminNewGame(data AdminNewGameData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Publish a Game</h1>`)
		if data.Error != "" {
			b.WriteString(`<p class="form-error">`)
			b.WriteString(templ.EscapeString(data.Error))
			b.WriteString(`</p>`)
		}
		b.WriteString(`<form method="post" action="/admin/games" enctype="multipart/form-data" id="upload-form">`)
		b.WriteString(`<label>Title<input type="text" name="title" value="`)
		b.WriteString(templ.EscapeString(data.Title))
		b.WriteString(`" required></label>`)
		b.WriteString(`<label>Custom link (optional)<input type="text" name="slug" value="`)
		b.WriteString(templ.EscapeString(data.Slug))
		b.WriteString(`"></label>`)
		b.WriteString(`<label>Description<textarea name="description" required>`)
		b.WriteString(templ.EscapeString(data.Description))
		b.WriteString(`</textarea></label>`)
		b.WriteString(`<label>Instructions<textarea name="instructions" required>`)
		b.WriteString(templ.EscapeString(data.Instructions))
		b.WriteString(`</textarea></label>`)
		b.WriteString(`<label>Play markup<textarea name="play_markup">`)
		b.WriteString(templ.EscapeString(data.PlayMarkup))
		b.WriteString(`</textarea></label>`)
		b.WriteString(`<label>Or upload an HTML bundle<input type="file" name="asset" accept=".html,.htm"></label>`)
		b.WriteString(`<button type="submit">Publish</button></form>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Page(data.PageData, content)
}
