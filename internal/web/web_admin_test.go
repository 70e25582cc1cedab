package web_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postMultipart submits a multipart form, optionally attaching a bundle file
func (ts *webTestServer) postMultipart(path string, fields map[string]string, fileName, fileContent string) *httptest.ResponseRecorder {
	ts.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(ts.t, mw.WriteField(name, value))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("asset", fileName)
		require.NoError(ts.t, err)
		_, err = part.Write([]byte(fileContent))
		require.NoError(ts.t, err)
	}
	require.NoError(ts.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	ts.cookies.extract(rr)
	return rr
}

func uploadFields(title string) map[string]string {
	return map[string]string{
		"title":        title,
		"description":  "A fine game",
		"instructions": "Press the buttons",
		"play_markup":  "<div id='inline-game'></div>",
	}
}

func TestAdminUploadInlineMarkup(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	rr := ts.postMultipart("/admin/games", uploadFields("Snake Classic"), "", "")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/games/snake-classic", rr.Header().Get("Location"))

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash", "Published Snake Classic")
	assertContainsText(t, doc, "#game-detail h1", "Snake Classic")
}

func TestAdminUploadBundleFile(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	fields := uploadFields("Bundle Game")
	delete(fields, "play_markup")
	rr := ts.postMultipart("/admin/games", fields, "bundle.html", `<canvas id="bundle-board"></canvas>`)
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	// The uploaded file's markup is what the play page renders
	rr = ts.get("/games/bundle-game/play")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "#game-play canvas#bundle-board")
}

func TestAdminUploadRejectsBadExtension(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	fields := uploadFields("Evil Game")
	rr := ts.postMultipart("/admin/games", fields, "bundle.exe", "MZ...")

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, ".form-error")
}

func TestAdminUploadDuplicateSlug(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	first := ts.postMultipart("/admin/games", uploadFields("Snake Classic"), "", "")
	require.Equal(t, http.StatusSeeOther, first.Code)

	rr := ts.postMultipart("/admin/games", uploadFields("Snake Classic"), "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".form-error", "already exists")
	// The submitted values survive the round trip
	assert.Equal(t, "Snake Classic", doc.Find(`input[name="title"]`).AttrOr("value", ""))
}

func TestAdminUploadMissingTitle(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	fields := uploadFields("")
	rr := ts.postMultipart("/admin/games", fields, "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, ".form-error")
}

func TestAdminUploadCustomSlug(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	fields := uploadFields("Snake Classic")
	fields["slug"] = "snake-2024"
	rr := ts.postMultipart("/admin/games", fields, "", "")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/games/snake-2024", rr.Header().Get("Location"))
}

func TestAdminPagesForbiddenForPlayers(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAs("alice", "13900001111")

	rr := ts.get("/admin/games")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.postMultipart("/admin/games", uploadFields("Sneaky Game"), "", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdminNavLink(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsAdmin()

	rr := ts.get("/")
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, `nav a[href="/admin/games"]`)
}
