// Package server serves the LangSearch web UI and JSON API with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/langsearch/core"
	"github.com/gaurav-prasanna/langsearch/core/render"
	"github.com/gaurav-prasanna/langsearch/internal/metrics"
	"github.com/gaurav-prasanna/langsearch/web"
)

const (
	BusyMessage = "A search is already running for this session."

	pageTemplate    = "index.html"
	shutdownTimeout = 10 * time.Second
)

// page is the data passed to the index template.
type page struct {
	Query   string
	Warning string
	Error   string
	Result  template.HTML
}

// Server wraps the gin engine with graceful shutdown helpers.
type Server struct {
	addr     string
	engine   *gin.Engine
	runner   core.Runner
	html     *render.HTMLRenderer
	json     *render.JSONRenderer
	sessions *sessions
	log      zerolog.Logger
}

// New constructs the server and registers its routes. metrics may be nil,
// in which case /metrics is not served.
func New(addr string, runner core.Runner, m *metrics.Collector, log zerolog.Logger) (*Server, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		addr:     addr,
		engine:   engine,
		runner:   runner,
		html:     render.NewHTMLRenderer(),
		json:     render.NewJSONRenderer(),
		sessions: newSessions(),
		log:      log,
	}

	engine.GET("/", s.index)
	engine.POST("/search", s.searchPage)
	engine.GET("/api/search", s.searchAPI)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP listener and shuts down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("langsearch HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) index(c *gin.Context) {
	sessionID(c)
	c.HTML(http.StatusOK, pageTemplate, page{})
}

// searchPage handles the form submit and renders the full page.
func (s *Server) searchPage(c *gin.Context) {
	query := c.PostForm("q")
	if strings.TrimSpace(query) == "" {
		c.HTML(http.StatusOK, pageTemplate, page{Query: query, Warning: core.EmptyQueryWarning})
		return
	}

	release, ok := s.sessions.acquire(sessionID(c))
	if !ok {
		c.HTML(http.StatusTooManyRequests, pageTemplate, page{Query: query, Warning: BusyMessage})
		return
	}
	defer release()

	result, err := s.runner.Run(c.Request.Context(), query)
	if err != nil {
		s.log.Error().Err(err).Str("query", query).Msg("search failed")
		c.HTML(statusFor(err), pageTemplate, page{Query: query, Error: errorMessage(err)})
		return
	}

	fragment, err := s.html.Fragment(result)
	if err != nil {
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, pageTemplate, page{Query: query, Error: errorMessage(err)})
		return
	}
	c.HTML(http.StatusOK, pageTemplate, page{Query: query, Result: fragment})
}

// searchAPI answers GET /api/search?q= with the JSON rendering.
func (s *Server) searchAPI(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": core.EmptyQueryWarning})
		return
	}

	release, ok := s.sessions.acquire(sessionID(c))
	if !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": BusyMessage})
		return
	}
	defer release()

	result, err := s.runner.Run(c.Request.Context(), query)
	if err != nil {
		s.log.Error().Err(err).Str("query", query).Msg("search failed")
		c.JSON(statusFor(err), gin.H{"error": errorMessage(err)})
		return
	}

	data, err := s.json.Render(result)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorMessage(err)})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrSearchProvider), errors.Is(err, core.ErrSummarization):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyQuery):
		return core.EmptyQueryWarning
	case errors.Is(err, core.ErrSearchProvider):
		return "Web search failed: " + err.Error()
	case errors.Is(err, core.ErrSummarization):
		return "Summarization failed: " + err.Error()
	default:
		return "Something went wrong: " + err.Error()
	}
}
