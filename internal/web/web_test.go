package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/rz1986/gameportal/internal/dependencies/mocks"
	"github.com/rz1986/gameportal/internal/factory"
	"github.com/rz1986/gameportal/internal/services/catalog"
	"github.com/rz1986/gameportal/internal/testutil"
	"github.com/rz1986/gameportal/internal/web"
	"github.com/rz1986/gameportal/internal/web/middleware"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.App
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	cookies *cookieJar
}

// newWebTestServer creates a test server with all dependencies wired.
// The login rate limiter is opened wide so tests can hammer the forms;
// TestLoginRateLimited builds its own server with a tight one.
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()
	return newWebTestServerWithLimiter(t, middleware.NewRateLimiter(rate.Limit(1000), 1000))
}

func newWebTestServerWithLimiter(t *testing.T, limiter *middleware.RateLimiter) *webTestServer {
	t.Helper()

	clk := mocks.NewMockClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom("123456")
	app := factory.NewForTesting(clk, rnd)

	router := web.NewRouter(web.RouterConfig{
		Logger:           testutil.NopLogger(),
		AuthService:      app.AuthService,
		CatalogService:   app.CatalogService,
		RatingService:    app.RatingService,
		StaticDir:        "", // No static files in tests
		LoginRateLimiter: limiter,
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		clock:   clk,
		random:  rnd,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// followRedirect follows the Location header and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from the response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Helper functions for common test operations

// registerUser creates an account through the auth service without logging in
func (ts *webTestServer) registerUser(username, phone string) {
	ts.t.Helper()
	ctx := ts.t.Context()
	code, err := ts.app.AuthService.SendVerificationCode(ctx, phone)
	require.NoError(ts.t, err)
	_, err = ts.app.AuthService.Register(ctx, username, phone, "secret123", code)
	require.NoError(ts.t, err, "Expected registration to succeed")
}

// loginAs registers a fresh account and logs it in through the form,
// leaving the session cookie in the jar
func (ts *webTestServer) loginAs(username, phone string) {
	ts.t.Helper()
	ts.registerUser(username, phone)

	form := url.Values{"identity": {username}, "password": {"secret123"}}
	rr := ts.post("/login", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after login")
	require.True(ts.t, ts.cookies.hasSession(), "Expected session cookie to be set")
}

// loginAsAdmin creates an admin account and logs it in
func (ts *webTestServer) loginAsAdmin() {
	ts.t.Helper()
	ctx := ts.t.Context()
	ts.registerUser("admin", "13800000000")

	user, err := ts.app.Storage.GetUserByUsername(ctx, "admin")
	require.NoError(ts.t, err)
	user.IsAdmin = true
	require.NoError(ts.t, ts.app.Storage.UpdateUser(ctx, user))

	form := url.Values{"identity": {"admin"}, "password": {"secret123"}}
	rr := ts.post("/login", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after admin login")
}

// publishGame uploads a game directly through the catalog service and
// returns its slug
func (ts *webTestServer) publishGame(title, markup string) string {
	ts.t.Helper()
	ctx := ts.t.Context()

	code, err := ts.app.AuthService.SendVerificationCode(ctx, "13999990000")
	require.NoError(ts.t, err)
	uploader, err := ts.app.AuthService.Register(ctx, "uploader", "13999990000", "secret123", code)
	if err != nil {
		// Already created by an earlier call in this test
		uploader, err = ts.app.Storage.GetUserByUsername(ctx, "uploader")
		require.NoError(ts.t, err)
	}
	uploader.IsAdmin = true
	require.NoError(ts.t, ts.app.Storage.UpdateUser(ctx, uploader))

	session, err := ts.app.AuthService.Login(ctx, "uploader", "secret123")
	require.NoError(ts.t, err)

	game, err := ts.app.CatalogService.UploadGame(ctx, session.Token, catalog.GameInput{
		Title:        title,
		Description:  "A test game",
		Instructions: "Press buttons",
		PlayMarkup:   markup,
	})
	require.NoError(ts.t, err, "Expected game upload to succeed")
	return game.Slug
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
