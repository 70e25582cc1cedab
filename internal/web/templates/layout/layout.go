package layout

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/rz1986/gameportal/internal/model"
)

// FlashMessage is a one-shot notice shown on the next page load
type FlashMessage struct {
	Type    string // success, error, info, warning
	Message string
}

// PageData carries the fields every page needs
type PageData struct {
	Title string
	Flash *FlashMessage
	// User is the authenticated user, nil for anonymous visitors
	User *model.User
}

// Page wraps content in the shared HTML shell: head, nav, flash banner
func Page(data PageData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>`)
		b.WriteString(templ.EscapeString(data.Title))
		b.WriteString(` - Game Portal</title>`)
		b.WriteString(`<link rel="stylesheet" href="/static/style.css">`)
		b.WriteString(`<script src="/static/portal.js" defer></script>`)
		b.WriteString(`</head><body>`)

		writeNav(&b, data.User)

		if data.Flash != nil {
			b.WriteString(`<div class="flash flash-`)
			b.WriteString(templ.EscapeString(data.Flash.Type))
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(data.Flash.Message))
			b.WriteString(`</div>`)
		}

		b.WriteString(`<main>`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if err := content.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func writeNav(b *strings.Builder, user *model.User) {
	b.WriteString(`<nav><a href="/" class="brand">Game Portal</a>`)
	b.WriteString(`<a href="/leaderboard">Leaderboard</a>`)
	if user != nil {
		b.WriteString(`<a href="/history">My History</a>`)
		if user.IsAdmin {
			b.WriteString(`<a href="/admin/games">Publish Game</a>`)
		}
		b.WriteString(`<span class="nav-user">`)
		b.WriteString(templ.EscapeString(user.Username))
		b.WriteString(`</span>`)
		b.WriteString(`<form method="post" action="/logout" class="nav-logout">`)
		b.WriteString(`<button type="submit">Log out</button></form>`)
	} else {
		b.WriteString(`<a href="/login">Log in</a>`)
		b.WriteString(`<a href="/register">Register</a>`)
	}
	b.WriteString(`</nav>`)
}
