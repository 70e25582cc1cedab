package web_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/services/auth"
	"github.com/rz1986/gameportal/internal/web/middleware"
)

func registerForm(username, phone, code, password string) url.Values {
	return url.Values{
		"username":         {username},
		"phone":            {phone},
		"code":             {code},
		"password":         {password},
		"password_confirm": {password},
	}
}

func TestRegister(t *testing.T) {
	ts := newWebTestServer(t)

	// The mocked random always issues 123456
	_, err := ts.app.AuthService.SendVerificationCode(t.Context(), "13900001111")
	require.NoError(t, err)

	rr := ts.post("/register", registerForm("alice", "13900001111", "123456", "secret123"))

	// Should redirect to the login page, not start a session
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash", "Account created")

	// The account exists and can log in
	rr = ts.post("/login", url.Values{"identity": {"alice"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, ts.cookies.hasSession())
}

func TestRegisterWrongCode(t *testing.T) {
	ts := newWebTestServer(t)

	_, err := ts.app.AuthService.SendVerificationCode(t.Context(), "13900001111")
	require.NoError(t, err)

	rr := ts.post("/register", registerForm("alice", "13900001111", "999999", "secret123"))

	// Re-renders the form with a field error on the code
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, `.field-error[data-field="code"]`, "wrong or expired")
	assert.False(t, ts.cookies.hasSession())

	// No account was created
	_, err = ts.app.Storage.GetUserByUsername(t.Context(), "alice")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestRegisterExpiredCode(t *testing.T) {
	ts := newWebTestServer(t)

	_, err := ts.app.AuthService.SendVerificationCode(t.Context(), "13900001111")
	require.NoError(t, err)

	ts.clock.Advance(model.VerificationCodeTTL + time.Second)

	rr := ts.post("/register", registerForm("alice", "13900001111", "123456", "secret123"))
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, `.field-error[data-field="code"]`, "wrong or expired")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	ts := newWebTestServer(t)

	form := registerForm("alice", "13900001111", "123456", "secret123")
	form.Set("password_confirm", "different")
	rr := ts.post("/register", form)

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, `.field-error[data-field="password_confirm"]`, "do not match")
	// The username survives the round trip
	assert.Equal(t, "alice", doc.Find(`input[name="username"]`).AttrOr("value", ""))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newWebTestServer(t)
	ts.registerUser("alice", "13900001111")

	_, err := ts.app.AuthService.SendVerificationCode(t.Context(), "13900002222")
	require.NoError(t, err)

	rr := ts.post("/register", registerForm("alice", "13900002222", "123456", "secret123"))
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".form-error", "already registered")
}

func TestLogin(t *testing.T) {
	ts := newWebTestServer(t)
	ts.registerUser("alice", "13900001111")

	rr := ts.post("/login", url.Values{"identity": {"alice"}, "password": {"secret123"}})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.True(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash", "Welcome back, alice!")
	assertContainsText(t, doc, "nav .nav-user", "alice")
	// Logged-in nav swaps the auth links for history and logout
	assertContainsElement(t, doc, `nav a[href="/history"]`)
	assertNotContainsElement(t, doc, `nav a[href="/login"]`)
}

func TestLoginCookieMatchesSessionLifetime(t *testing.T) {
	ts := newWebTestServer(t)
	ts.registerUser("alice", "13900001111")

	rr := ts.post("/login", url.Values{"identity": {"alice"}, "password": {"secret123"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "Expected a session cookie on login")
	assert.Equal(t, int(auth.DefaultConfig().SessionDuration/time.Second), cookie.MaxAge)
}

func TestLoginByPhone(t *testing.T) {
	ts := newWebTestServer(t)
	ts.registerUser("alice", "13900001111")

	// Phone input is normalized before lookup
	rr := ts.post("/login", url.Values{"identity": {"139 0000 1111"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, ts.cookies.hasSession())
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newWebTestServer(t)
	ts.registerUser("alice", "13900001111")

	rr := ts.post("/login", url.Values{"identity": {"alice"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasSession())
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".form-error", "Invalid username or password")
}

func TestLoginNextRedirect(t *testing.T) {
	ts := newWebTestServer(t)
	ts.registerUser("alice", "13900001111")

	form := url.Values{
		"identity": {"alice"},
		"password": {"secret123"},
		"next":     {"/history"},
	}
	rr := ts.post("/login", form)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/history", rr.Header().Get("Location"))
}

func TestLoginNextRejectsExternal(t *testing.T) {
	ts := newWebTestServer(t)
	ts.registerUser("alice", "13900001111")

	form := url.Values{
		"identity": {"alice"},
		"password": {"secret123"},
		"next":     {"https://evil.example/phish"},
	}
	rr := ts.post("/login", form)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestLoginPageRedirectsWhenLoggedIn(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAs("alice", "13900001111")

	rr := ts.get("/login")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAs("alice", "13900001111")

	rr := ts.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash", "You have been logged out")
	assertContainsElement(t, doc, `nav a[href="/login"]`)
}

func TestSessionExpires(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAs("alice", "13900001111")

	ts.clock.Advance(25 * time.Hour)

	// Protected pages bounce to login once the session is stale
	rr := ts.get("/history")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "/login")
}

func TestProtectedRouteRequiresLogin(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/history")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?next=/history", rr.Header().Get("Location"))
}

func TestLoginRateLimited(t *testing.T) {
	ts := newWebTestServerWithLimiter(t, middleware.NewRateLimiter(rate.Limit(1), 3))

	form := url.Values{"identity": {"nobody"}, "password": {"wrong"}}
	for i := 0; i < 3; i++ {
		rr := ts.post("/login", form)
		assert.Equal(t, http.StatusOK, rr.Code, "request %d within burst should pass", i+1)
	}

	rr := ts.post("/login", form)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
