package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/langsearch/core"
)

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><p>Hello</p></body></html>"))
	}))
	defer srv.Close()

	res := New(0, "", 0).Fetch(context.Background(), srv.URL)
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.HTML, "<p>Hello</p>")
}

func TestFetchFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>moved</p>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res := New(0, "", 0).Fetch(context.Background(), srv.URL+"/old")
	require.True(t, res.OK())
	assert.Equal(t, "<p>moved</p>", res.HTML)
}

func TestFetchDecodesDeclaredCharset(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"header", "text/html; charset=iso-8859-1", "<p>caf\xe9 cr\xe8me</p>"},
		{"meta", "text/html", "<html><head><meta charset=\"windows-1252\"></head><body><p>caf\xe9 cr\xe8me</p></body></html>"},
		{"undeclared", "text/html", "<p>caf\xe9 cr\xe8me</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res := New(0, "", 0).Fetch(context.Background(), srv.URL)
			require.True(t, res.OK(), "unexpected error: %v", res.Err)
			assert.True(t, utf8.ValidString(res.HTML))
			assert.Contains(t, res.HTML, "<p>café crème</p>")
		})
	}
}

func TestFetchKeepsUndeclaredUTF8(t *testing.T) {
	page := "<html><body>" + strings.Repeat("<p>plain ascii</p>", 100) + "<p>café crème</p></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	res := New(0, "", 0).Fetch(context.Background(), srv.URL)
	require.True(t, res.OK())
	assert.Equal(t, page, res.HTML)
}

func TestFetchNon200IsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<p>not here</p>", http.StatusNotFound)
	}))
	defer srv.Close()

	res := New(0, "", 0).Fetch(context.Background(), srv.URL)
	assert.Empty(t, res.HTML)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.True(t, errors.Is(res.Err, core.ErrSourceFetch))
}

func TestFetchNonTextIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0x00, 0x01, 0x02})
	}))
	defer srv.Close()

	res := New(0, "", 0).Fetch(context.Background(), srv.URL)
	assert.Empty(t, res.HTML)
	assert.ErrorIs(t, res.Err, core.ErrSourceFetch)
}

func TestFetchUnreachableOrMalformedNeverFails(t *testing.T) {
	f := New(2*time.Second, "", 0)
	for _, u := range []string{
		"",
		"not a url",
		"://missing-scheme",
		"ftp://example.com/file",
		"http://127.0.0.1:1/unreachable",
		"https://example.com/brochure.pdf",
	} {
		res := f.Fetch(context.Background(), u)
		assert.Empty(t, res.HTML, u)
		assert.ErrorIs(t, res.Err, core.ErrSourceFetch, u)
	}
}

func TestFetchBodyIsCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>0123456789</p>"))
	}))
	defer srv.Close()

	res := New(0, "", 5).Fetch(context.Background(), srv.URL)
	require.True(t, res.OK())
	assert.Equal(t, "<p>01", res.HTML)
}

func TestFetchHonoursContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(0, "", 0).Fetch(ctx, srv.URL)
	assert.Empty(t, res.HTML)
	assert.ErrorIs(t, res.Err, core.ErrSourceFetch)
}
