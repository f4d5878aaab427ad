package drive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURLsOrder(t *testing.T) {
	urls := PublicURLs("FILE123456", "w800")
	require.Len(t, urls, 5)
	assert.Equal(t, "https://drive.google.com/thumbnail?id=FILE123456&sz=w800", urls[0])
	assert.Equal(t, "https://lh3.googleusercontent.com/d/FILE123456=w800", urls[3])

	urls = PublicURLs("FILE123456", "w1&foo=bar")
	assert.Equal(t, "https://drive.google.com/thumbnail?id=FILE123456&sz=w1%26foo%3Dbar", urls[0])
}

func TestFetchFirstSkipsHTMLAndErrors(t *testing.T) {
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.Error(w, "nope", http.StatusNotFound)
		case "/login":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html>sign in</html>"))
		case "/image":
			gotHeaders = r.Header.Clone()
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
		}
	}))
	defer srv.Close()

	f := NewPublicFetcher(time.Second)
	blob, err := f.fetchFirst(context.Background(), []string{srv.URL + "/missing", srv.URL + "/login", srv.URL + "/image"})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", blob.ContentType)
	assert.Equal(t, "drive_public", blob.Source)
	assert.Equal(t, "https://drive.google.com/", gotHeaders.Get("Referer"))
	assert.True(t, strings.HasPrefix(gotHeaders.Get("User-Agent"), "Mozilla/5.0"))
	assert.Contains(t, gotHeaders.Get("Accept"), "image/webp")
}

func TestFetchFirstJoinsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewPublicFetcher(time.Second)
	_, err := f.fetchFirst(context.Background(), []string{srv.URL + "/a", srv.URL + "/b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/a")
	assert.Contains(t, err.Error(), "/b")
}
