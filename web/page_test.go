package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRenders(t *testing.T) {
	var b strings.Builder
	err := Page(PageOptions{Title: "Find <it>", Socket: "/play"}).Render(context.Background(), &b)
	require.NoError(t, err)
	got := b.String()

	assert.Contains(t, got, "<title>Find &lt;it&gt;</title>")
	assert.Contains(t, got, `data-socket="/play"`)
	for _, id := range []string{"OBJmessage", "OBJprompt", "imageGrid", "finishButton"} {
		assert.Contains(t, got, `id="`+id+`"`)
	}
	assert.Contains(t, got, `<script src="/static/game.js"></script>`)
}

func TestPageHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	PageHandler(PageOptions{Title: "iconhunt", Socket: "/play"}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1>iconhunt</h1>")
}

func TestStaticHandler(t *testing.T) {
	srv := httptest.NewServer(StaticHandler())
	defer srv.Close()

	for path, want := range map[string]string{
		"/static/game.js":  "new WebSocket",
		"/static/game.css": "#finishButton.show",
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, string(body), want, path)
	}

	resp, err := http.Get(srv.URL + "/static/missing.js")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPageEscapesSocket(t *testing.T) {
	var b strings.Builder
	err := Page(PageOptions{Title: "t", Socket: `/play"><script>`}).Render(context.Background(), &b)
	require.NoError(t, err)
	got := b.String()
	assert.Contains(t, got, `data-socket="/play&#34;&gt;&lt;script&gt;"`)
	assert.Equal(t, 1, strings.Count(got, "<script"))
}
