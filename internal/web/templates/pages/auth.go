package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/rz1986/gameportal/internal/web/templates/layout"
)

// LoginData holds data for the login page
type LoginData struct {
	layout.PageData
	Identity string
	Error    string
	Next     string
}

// Login renders the login form
func Login(data LoginData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Log in</h1>`)
		if data.Error != "" {
			b.WriteString(`<p class="form-error">`)
			b.WriteString(templ.EscapeString(data.Error))
			b.WriteString(`</p>`)
		}
		b.WriteString(`<form method="post" action="/login" id="login-form">`)
		b.WriteString(`<label>Username or phone<input type="text" name="identity" value="`)
		b.WriteString(templ.EscapeString(data.Identity))
		b.WriteString(`" required></label>`)
		b.WriteString(`<label>Password<input type="password" name="password" required></label>`)
		if data.Next != "" {
			b.WriteString(`<input type="hidden" name="next" value="`)
			b.WriteString(templ.EscapeString(data.Next))
			b.WriteString(`">`)
		}
		b.WriteString(`<button type="submit">Log in</button></form>`)
		b.WriteString(`<p>New here? <a href="/register">Create an account</a></p>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Page(data.PageData, content)
}

// RegisterData holds data for the registration page
type RegisterData struct {
	layout.PageData
	Username    string
	Phone       string
	Error       string
	FieldErrors map[string]string
}

// Register renders the registration form with phone verification
func Register(data RegisterData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Register</h1>`)
		if data.Error != "" {
			b.WriteString(`<p class="form-error">`)
			b.WriteString(templ.EscapeString(data.Error))
			b.WriteString(`</p>`)
		}
		b.WriteString(`<form method="post" action="/register" id="register-form">`)
		writeField(&b, data.FieldErrors, "username", `<label>Username<input type="text" name="username" value="`+
			templ.EscapeString(data.Username)+`" required></label>`)
		writeField(&b, data.FieldErrors, "phone", `<label>Phone<input type="tel" name="phone" value="`+
			templ.EscapeString(data.Phone)+`" required></label>`)
		writeField(&b, data.FieldErrors, "code", `<label>Verification code<input type="text" name="code" required></label>`)
		b.WriteString(`<button type="button" id="send-code" data-url="/api/register/send_code">Send code</button>`)
		writeField(&b, data.FieldErrors, "password", `<label>Password<input type="password" name="password" required></label>`)
		writeField(&b, data.FieldErrors, "password_confirm", `<label>Confirm password<input type="password" name="password_confirm" required></label>`)
		b.WriteString(`<button type="submit">Register</button></form>`)
		b.WriteString(`<p>Already registered? <a href="/login">Log in</a></p>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Page(data.PageData, content)
}

func writeField(b *strings.Builder, fieldErrors map[string]string, name, markup string) {
	b.WriteString(markup)
	if msg, ok := fieldErrors[name]; ok {
		b.WriteString(`<p class="field-error" data-field="`)
		b.WriteString(templ.EscapeString(name))
		b.WriteString(`">`)
		b.WriteString(templ.EscapeString(msg))
		b.WriteString(`</p>`)
	}
}
