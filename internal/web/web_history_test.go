package web_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEmpty(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAs("alice", "13900001111")

	rr := ts.get("/history")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "#history-empty")
	assertNotContainsElement(t, doc, "#history")
}

func TestHistoryMostRecentFirst(t *testing.T) {
	ts := newWebTestServer(t)
	snakeSlug := ts.publishGame("Snake Classic", "<div>snake</div>")
	memorySlug := ts.publishGame("Memory Match", "<div>memory</div>")
	ts.loginAs("alice", "13900001111")

	ts.get("/games/" + snakeSlug + "/play")
	ts.clock.Advance(time.Minute)
	ts.get("/games/" + memorySlug + "/play")

	rr := ts.get("/history")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	rows := doc.Find("#history .play-row")
	require.Equal(t, 2, rows.Length())
	assert.Contains(t, rows.Eq(0).Text(), "Memory Match")
	assert.Contains(t, rows.Eq(1).Text(), "Snake Classic")
}

func TestHistoryIsPerUser(t *testing.T) {
	ts := newWebTestServer(t)
	slug := ts.publishGame("Snake Classic", "<div>snake</div>")

	ts.loginAs("alice", "13900001111")
	ts.get("/games/" + slug + "/play")
	ts.post("/logout", nil)

	ts.loginAs("bob", "13900002222")
	rr := ts.get("/history")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "#history-empty")
}
