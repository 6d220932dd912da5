// Package server exposes the question-answering pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/civitaslabs/planqd/internal/authz"
	"github.com/civitaslabs/planqd/internal/config"
	"github.com/civitaslabs/planqd/internal/logging"
	"github.com/civitaslabs/planqd/internal/pipeline"
)

// QueryRunner answers one query turn. Satisfied by pipeline.Pipeline.
type QueryRunner interface {
	Query(ctx context.Context, userID, sessionID, query string) (pipeline.Answer, error)
}

var _ QueryRunner = (*pipeline.Pipeline)(nil)

// Server provides the HTTP endpoints for planqd.
type Server struct {
	echo    *echo.Echo
	runner  QueryRunner
	policy  *authz.Policy
	logger  *logging.Logger
	config  config.ServerConfig
	metrics *HTTPMetrics
}

// NewServer creates the HTTP server with routes registered.
func NewServer(runner QueryRunner, policy *authz.Policy, cfg config.ServerConfig, logger *logging.Logger) (*Server, error) {
	if runner == nil {
		return nil, fmt.Errorf("query runner cannot be nil")
	}
	if policy == nil {
		return nil, fmt.Errorf("policy cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		runner:  runner,
		policy:  policy,
		logger:  logger.Named("http"),
		config:  cfg,
		metrics: NewHTTPMetrics(logger),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.metrics.Middleware())
	e.Use(s.requestLogger())

	s.registerRoutes()
	return s, nil
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			s.logger.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/query", s.handleQuery)
	v1.GET("/users/:id", s.handleUser)
}

// QueryRequest is the request body for POST /api/v1/query.
type QueryRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
	Query     string `json:"query"`
}

// QueryResponse is the response body for POST /api/v1/query.
type QueryResponse struct {
	Response        string `json:"response"`
	UserID          string `json:"user_id"`
	SessionID       string `json:"session_id"`
	Denied          bool   `json:"denied,omitempty"`
	FromFallback    bool   `json:"from_fallback,omitempty"`
	RestrictedCount int    `json:"restricted_count,omitempty"`
}

// UserResponse is the response body for GET /api/v1/users/:id.
type UserResponse struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Roles []authz.Role `json:"roles"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(c.Request().Context(), "invalid query request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id field is required")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query field is required")
	}

	answer, err := s.runner.Query(c.Request().Context(), req.UserID, req.SessionID, req.Query)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownUser) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid user ID")
		}
		s.logger.Error(c.Request().Context(), "query failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "query processing failed")
	}

	return c.JSON(http.StatusOK, QueryResponse{
		Response:        answer.Response,
		UserID:          req.UserID,
		SessionID:       answer.SessionID,
		Denied:          answer.Denied,
		FromFallback:    answer.FromFallback,
		RestrictedCount: answer.RestrictedCount,
	})
}

func (s *Server) handleUser(c echo.Context) error {
	user, ok := s.policy.User(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, UserResponse{ID: user.ID, Name: user.Name, Roles: user.Roles})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
