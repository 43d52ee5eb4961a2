// Package server exposes the query service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pdfsearch/internal/domain"
)

// Searcher is the query surface served over HTTP.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
	Export(id string) (io.Reader, string, error)
	Info() domain.Info
	State() domain.State
}

// Config holds HTTP server configuration.
type Config struct {
	Host        string
	Port        int
	DefaultTopK int
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server provides HTTP endpoints for search, export and system information.
type Server struct {
	echo     *echo.Echo
	searcher Searcher
	logger   *zap.Logger
	config   Config
}

// New creates a new HTTP server.
func New(searcher Searcher, logger *zap.Logger, cfg Config) (*Server, error) {
	if searcher == nil {
		return nil, errors.New("searcher cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 3
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	})

	s := &Server{echo: e, searcher: searcher, logger: logger, config: cfg}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.config.Gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.GET("/search", s.handleSearch)
	v1.GET("/documents/:id/text", s.handleDocumentText)
	v1.GET("/info", s.handleInfo)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
}

// Result is one ranked match in a search response.
type Result struct {
	Rank     int     `json:"rank"`
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Distance float64 `json:"distance"`
	Preview  string  `json:"preview"`
	Download string  `json:"download"`
}

// SearchResponse is the response body for GET /api/v1/search.
type SearchResponse struct {
	Query   string   `json:"query"`
	K       int      `json:"k"`
	Results []Result `json:"results"`
}

// InfoResponse is the response body for GET /api/v1/info.
type InfoResponse struct {
	Model      string `json:"model"`
	Location   string `json:"location"`
	Documents  int    `json:"documents"`
	TotalChars int    `json:"total_chars"`
	Dimension  int    `json:"dimension"`
	Summary    string `json:"summary"`
	State      string `json:"state"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", State: s.searcher.State().String()})
}

func (s *Server) handleSearch(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}
	k := s.config.DefaultTopK
	if raw := c.QueryParam("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "k must be a non-negative integer")
		}
		k = n
	}

	results, err := s.searcher.Search(c.Request().Context(), query, k)
	if err != nil {
		return toHTTPError(err)
	}

	resp := SearchResponse{Query: query, K: k, Results: make([]Result, 0, len(results))}
	for _, r := range results {
		resp.Results = append(resp.Results, Result{
			Rank:     r.Rank,
			ID:       r.ID,
			Score:    r.Score,
			Distance: r.Distance,
			Preview:  r.Preview,
			Download: "/api/v1/documents/" + url.PathEscape(r.ID) + "/text",
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDocumentText(c echo.Context) error {
	id, err := documentID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid document id")
	}
	r, name, err := s.searcher.Export(id)
	if err != nil {
		return toHTTPError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Stream(http.StatusOK, "text/plain; charset=utf-8", r)
}

// documentID returns the decoded :id parameter. Echo routes on the escaped
// path only when the request carries a RawPath; otherwise the parameter is
// already decoded and must not be unescaped again.
func documentID(c echo.Context) (string, error) {
	id := c.Param("id")
	if c.Request().URL.RawPath == "" {
		return id, nil
	}
	return url.PathUnescape(id)
}

func (s *Server) handleInfo(c echo.Context) error {
	info := s.searcher.Info()
	return c.JSON(http.StatusOK, InfoResponse{
		Model:      info.Model,
		Location:   info.Location,
		Documents:  info.Documents,
		TotalChars: info.TotalChars,
		Dimension:  info.Dimension,
		Summary:    info.Summary,
		State:      s.searcher.State().String(),
	})
}

func toHTTPError(err error) error {
	var qErr *domain.QueryEmbeddingError
	switch {
	case errors.Is(err, domain.ErrNotReady):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrInvalidK):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDocumentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &qErr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.Addr()))
	if err := s.echo.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
