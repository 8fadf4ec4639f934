package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/langsearch/core"
	"github.com/gaurav-prasanna/langsearch/internal/metrics"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubRunner struct {
	mu      sync.Mutex
	queries []string
	result  *core.SummaryResult
	err     error

	started chan struct{}
	unblock chan struct{}
}

func (r *stubRunner) Run(ctx context.Context, query string) (*core.SummaryResult, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	r.mu.Unlock()

	if r.started != nil {
		r.started <- struct{}{}
		<-r.unblock
	}
	if r.err != nil {
		return nil, r.err
	}
	res := *r.result
	res.Query = query
	return &res, nil
}

func (r *stubRunner) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

func parisResult() *core.SummaryResult {
	return &core.SummaryResult{
		Summary: "Paris is the capital of France.",
		Sources: []string{"https://www.britannica.com/place/Paris", "https://en.wikipedia.org/wiki/Paris"},
		Images:  []core.ImageResult{{Title: "Eiffel Tower", ImageURL: "https://img.example/1.jpg"}},
	}
}

func newTestServer(t *testing.T, runner core.Runner) *Server {
	t.Helper()
	s, err := New(":0", runner, metrics.New(), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func postSearch(s *Server, query string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(url.Values{"q": {query}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", sessionCookie)
	return nil
}

func TestIndexIssuesSessionCookie(t *testing.T) {
	s := newTestServer(t, &stubRunner{result: parisResult()})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>LangSearch</h1>")
	assert.Contains(t, rec.Body.String(), "Searching and summarizing...")
	cookie := sessionCookieFrom(t, rec)
	assert.True(t, cookie.HttpOnly)
}

func TestSearchPageRendersResult(t *testing.T) {
	runner := &stubRunner{result: parisResult()}
	s := newTestServer(t, runner)

	rec := postSearch(s, "capital of France")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Paris is the capital of France.")
	assert.Contains(t, body, `>britannica.com</a>`)
	assert.Contains(t, body, `>en.wikipedia.org</a>`)
	assert.Contains(t, body, `src="https://img.example/1.jpg"`)
	assert.Contains(t, body, `value="capital of France"`)
	assert.Equal(t, []string{"capital of France"}, runner.queries)
}

func TestSearchPageEmptyQueryWarns(t *testing.T) {
	runner := &stubRunner{result: parisResult()}
	s := newTestServer(t, runner)

	for _, q := range []string{"", "   "} {
		rec := postSearch(s, q)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), core.EmptyQueryWarning)
	}
	assert.Zero(t, runner.calls())
}

func TestSearchPageErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		text   string
	}{
		{"search", fmt.Errorf("%w: duckduckgo text search: timeout", core.ErrSearchProvider), http.StatusBadGateway, "Web search failed"},
		{"summarize", fmt.Errorf("%w: 401 invalid api key", core.ErrSummarization), http.StatusBadGateway, "Summarization failed"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &stubRunner{err: tt.err})
			rec := postSearch(s, "q")
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.text)
			assert.Contains(t, rec.Body.String(), `class="error"`)
		})
	}
}

func TestServerKeepsServingAfterFailure(t *testing.T) {
	runner := &stubRunner{err: fmt.Errorf("%w: down", core.ErrSearchProvider)}
	s := newTestServer(t, runner)

	assert.Equal(t, http.StatusBadGateway, postSearch(s, "q").Code)

	runner.err = nil
	runner.result = parisResult()
	assert.Equal(t, http.StatusOK, postSearch(s, "q").Code)
}

func TestOverlappingSubmitInSameSessionIsRejected(t *testing.T) {
	runner := &stubRunner{
		result:  parisResult(),
		started: make(chan struct{}),
		unblock: make(chan struct{}),
	}
	s := newTestServer(t, runner)

	index := httptest.NewRecorder()
	s.Handler().ServeHTTP(index, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookieFrom(t, index)

	first := make(chan *httptest.ResponseRecorder)
	go func() { first <- postSearch(s, "first", cookie) }()

	select {
	case <-runner.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first search never started")
	}

	busy := postSearch(s, "second", cookie)
	assert.Equal(t, http.StatusTooManyRequests, busy.Code)
	assert.Contains(t, busy.Body.String(), BusyMessage)

	// A different session is not blocked.
	other := make(chan *httptest.ResponseRecorder)
	go func() { other <- postSearch(s, "other") }()
	<-runner.started

	close(runner.unblock)
	assert.Equal(t, http.StatusOK, (<-first).Code)
	assert.Equal(t, http.StatusOK, (<-other).Code)

	// The session is free again once the run finishes.
	runner.started = nil
	assert.Equal(t, http.StatusOK, postSearch(s, "third", cookie).Code)
}

func TestSearchAPI(t *testing.T) {
	s := newTestServer(t, &stubRunner{result: parisResult()})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=capital+of+France", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body struct {
		Query   string `json:"query"`
		Summary string `json:"summary"`
		Sources []struct {
			URL    string `json:"url"`
			Domain string `json:"domain"`
		} `json:"sources"`
		Images []core.ImageResult `json:"images"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "capital of France", body.Query)
	require.Len(t, body.Sources, 2)
	assert.Equal(t, "britannica.com", body.Sources[0].Domain)
	assert.Len(t, body.Images, 1)
}

func TestSearchAPIEmptyQuery(t *testing.T) {
	runner := &stubRunner{result: parisResult()}
	s := newTestServer(t, runner)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Please enter a search query."}`, rec.Body.String())
	assert.Zero(t, runner.calls())
}

func TestSearchAPIUpstreamError(t *testing.T) {
	s := newTestServer(t, &stubRunner{err: fmt.Errorf("%w: quota exceeded", core.ErrSummarization)})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=paris", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota exceeded")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, &stubRunner{result: parisResult()})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s, err := New("127.0.0.1:0", &stubRunner{result: parisResult()}, nil, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestSessionsAcquireRelease(t *testing.T) {
	ss := newSessions()

	release, ok := ss.acquire("a")
	require.True(t, ok)
	_, ok = ss.acquire("a")
	assert.False(t, ok)
	_, ok = ss.acquire("b")
	assert.True(t, ok)

	release()
	_, ok = ss.acquire("a")
	assert.True(t, ok)
}
