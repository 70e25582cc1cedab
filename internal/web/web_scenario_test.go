package web_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks the whole portal flow through the browser surface: an admin
// publishes a game, two visitors register with phone codes, rate it,
// and one plays it twice.
func TestPortalEndToEnd(t *testing.T) {
	ts := newWebTestServer(t)

	// Admin publishes a game through the upload form
	ts.loginAsAdmin()
	fields := uploadFields("Star Hopper")
	rr := ts.postMultipart("/admin/games", fields, "", "")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/games/star-hopper", rr.Header().Get("Location"))
	ts.post("/logout", nil)

	// Alice registers with a verification code and logs in
	_, err := ts.app.AuthService.SendVerificationCode(t.Context(), "13900001111")
	require.NoError(t, err)
	rr = ts.post("/register", registerForm("alice", "13900001111", "123456", "secret123"))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	rr = ts.post("/login", url.Values{"identity": {"alice"}, "password": {"secret123"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	// She plays twice and rates it 5
	ts.get("/games/star-hopper/play")
	ts.clock.Advance(10 * time.Minute)
	ts.get("/games/star-hopper/play")
	ts.post("/games/star-hopper/rate", url.Values{"score": {"5"}})

	rr = ts.get("/history")
	doc := parseHTML(rr.Body)
	assert.Equal(t, 2, doc.Find("#history .play-row").Length())

	ts.post("/logout", nil)

	// Bob registers by phone and rates it 3
	ts.random.Next = "654321"
	_, err = ts.app.AuthService.SendVerificationCode(t.Context(), "13900002222")
	require.NoError(t, err)
	rr = ts.post("/register", registerForm("bob", "13900002222", "654321", "hunter22"))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	rr = ts.post("/login", url.Values{"identity": {"139-0000-2222"}, "password": {"hunter22"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	ts.post("/games/star-hopper/rate", url.Values{"score": {"3"}})

	// The detail page and leaderboard both show the 4.00 average
	rr = ts.get("/games/star-hopper")
	doc = parseHTML(rr.Body)
	assertContainsText(t, doc, "#avg-rating", "4.00 from 2 ratings")

	rr = ts.get("/leaderboard")
	doc = parseHTML(rr.Body)
	row := doc.Find("#leaderboard .board-row").First()
	assert.Contains(t, row.Text(), "Star Hopper")
	assert.Equal(t, "4.00", row.Find(".board-avg").Text())

	// Bob's history has nothing in it
	rr = ts.get("/history")
	doc = parseHTML(rr.Body)
	assertContainsElement(t, doc, "#history-empty")
}
