package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/shotstash/shotstash/internal/profile"
	"github.com/shotstash/shotstash/plugin/embedder"
	"github.com/shotstash/shotstash/server/middleware"
	apiv1 "github.com/shotstash/shotstash/server/router/api/v1"
	"github.com/shotstash/shotstash/server/runner/embedding"
	"github.com/shotstash/shotstash/store"
)

// Server wires the HTTP API, the store and the background runners.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	embedder   embedder.Embedder
}

// NewServer builds a server for the given profile and store.
func NewServer(ctx context.Context, p *profile.Profile, st *store.Store) (*Server, error) {
	emb, err := embedder.New(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create embedder")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.NewRateLimiter().Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": p.Version})
	})

	apiv1.NewAPIV1Service(p, st, emb).RegisterRoutes(e)

	return &Server{
		Profile:    p,
		Store:      st,
		echoServer: e,
		embedder:   emb,
	}, nil
}

// Start launches the background runners and serves HTTP. It returns when
// the listener fails; http.ErrServerClosed signals a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.startBackgroundRunners(ctx)

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode)
	return s.echoServer.Start(address)
}

// Shutdown gracefully stops the HTTP server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown complete")
}

func (s *Server) startBackgroundRunners(ctx context.Context) {
	if s.Profile.IsEmbedderEnabled() && s.Profile.BackfillIntervalSec > 0 {
		interval := time.Duration(s.Profile.BackfillIntervalSec) * time.Second
		runner := embedding.NewRunner(s.Store, s.embedder, interval)
		go runner.Run(ctx)
		slog.Info("embedding backfill runner started", "interval", interval)
	}
}
