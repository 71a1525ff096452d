// Package server assembles the HTTP server and background runners.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/classwise/classwise/internal/profile"
	"github.com/classwise/classwise/plugin/ai"
	apiv1 "github.com/classwise/classwise/server/router/api/v1"
	"github.com/classwise/classwise/server/runner/indexer"
	"github.com/classwise/classwise/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	queue      indexer.TaskQueue
	indexer    *indexer.Indexer
	backfill   *indexer.BackfillRunner
	logger     *slog.Logger
}

// NewServer creates the server: AI services per the profile, the indexer and
// its queue, and the v1 API routes.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.Debug = profile.IsDev()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered", slog.String("error", err.Error()))
			return err
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE, echo.OPTIONS},
	}))
	e.Use(echomw.TimeoutWithConfig(echomw.TimeoutConfig{
		Timeout: 2 * time.Minute,
	}))

	var embedder ai.EmbeddingService
	var llm ai.LLMService
	aiConfig := ai.NewConfigFromProfile(profile)
	if aiConfig.Enabled {
		if err := aiConfig.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid AI configuration")
		}
		var err error
		embedder, err = ai.NewEmbeddingService(&aiConfig.Embedding)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create embedding service")
		}
		llm, err = ai.NewLLMService(&aiConfig.LLM)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create LLM service")
		}
	} else {
		logger.Info("AI is disabled; search degrades to exact title matching")
	}

	queue := indexer.NewInProcessQueue(4, logger)
	idx := indexer.New(store, embedder, profile.AIEmbeddingModel, queue, logger)

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
		queue:      queue,
		indexer:    idx,
		logger:     logger,
	}
	if embedder != nil {
		s.backfill = indexer.NewBackfillRunner(store, idx, logger)
	}

	apiService := apiv1.NewAPIV1Service(profile, store, embedder, llm, idx, logger)
	apiService.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	return s, nil
}

// Start launches background runners and begins serving. It returns when the
// listener fails; cancellation is handled by Shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.backfill != nil {
		go s.backfill.Run(ctx)
	}
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	s.logger.Info("server started", slog.String("address", address), slog.String("version", s.Profile.Version))
	return s.echoServer.Start(address)
}

// Shutdown drains the HTTP server and the background queue, then closes the
// store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		s.logger.Error("failed to shut down server", slog.String("error", err.Error()))
	}

	s.queue.Shutdown()

	if err := s.Store.Close(); err != nil {
		s.logger.Error("failed to close store", slog.String("error", err.Error()))
	}

	s.logger.Info("classwise stopped properly")
}
