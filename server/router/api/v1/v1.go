// Package v1 exposes the JSON HTTP API.
package v1

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/classwise/classwise/internal/profile"
	"github.com/classwise/classwise/plugin/ai"
	"github.com/classwise/classwise/server/middleware"
	"github.com/classwise/classwise/server/runner/indexer"
	"github.com/classwise/classwise/server/searchengine"
	"github.com/classwise/classwise/server/service/generator"
	"github.com/classwise/classwise/store"
)

// APIV1Service wires the HTTP handlers to the domain services.
type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Engine    *searchengine.Engine
	PlanKind  searchengine.ContentKind
	NoteKind  searchengine.ContentKind
	Indexer   *indexer.Indexer
	Generator *generator.Service

	logger      *slog.Logger
	rateLimiter *middleware.RateLimiter
}

// NewAPIV1Service creates the API service.
func NewAPIV1Service(
	profile *profile.Profile,
	store *store.Store,
	embedder ai.EmbeddingService,
	llm ai.LLMService,
	idx *indexer.Indexer,
	logger *slog.Logger,
) *APIV1Service {
	if logger == nil {
		logger = slog.Default()
	}
	engine := searchengine.New(embedder, logger)
	planKind := searchengine.NewLessonPlanKind(store, profile.AIEmbeddingModel)
	noteKind := searchengine.NewLessonNoteKind(store, profile.AIEmbeddingModel)
	return &APIV1Service{
		Profile:     profile,
		Store:       store,
		Engine:      engine,
		PlanKind:    planKind,
		NoteKind:    noteKind,
		Indexer:     idx,
		Generator:   generator.New(engine, planKind, llm, logger),
		logger:      logger,
		rateLimiter: middleware.NewRateLimiter(),
	}
}

// RegisterRoutes registers all v1 routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(s.rateLimiter))

	// Unauthenticated.
	apiV1.POST("/auth/signup", s.SignUp)
	apiV1.POST("/auth/signin", s.SignIn)

	// Anonymous callers get an empty result list, never a 401.
	apiV1.GET("/search", s.Search, s.OptionalAuthMiddleware)

	// Authenticated.
	authed := apiV1.Group("", s.AuthMiddleware)
	authed.GET("/auth/me", s.Me)

	authed.POST("/classes", s.CreateClass)
	authed.GET("/classes", s.ListClasses)
	authed.PATCH("/classes/:uid", s.UpdateClass)
	authed.DELETE("/classes/:uid", s.DeleteClass)

	authed.POST("/subjects", s.CreateSubject)
	authed.GET("/subjects", s.ListSubjects)
	authed.PATCH("/subjects/:uid", s.UpdateSubject)
	authed.DELETE("/subjects/:uid", s.DeleteSubject)

	authed.POST("/lesson-plans", s.CreateLessonPlan)
	authed.GET("/lesson-plans", s.ListLessonPlans)
	authed.GET("/lesson-plans/:uid", s.GetLessonPlan)
	authed.PATCH("/lesson-plans/:uid", s.UpdateLessonPlan)
	authed.DELETE("/lesson-plans/:uid", s.DeleteLessonPlan)
	authed.POST("/lesson-plans/generate", s.GenerateLessonPlan)

	authed.POST("/lesson-notes", s.CreateLessonNote)
	authed.GET("/lesson-notes", s.ListLessonNotes)
	authed.GET("/lesson-notes/:uid", s.GetLessonNote)
	authed.PATCH("/lesson-notes/:uid", s.UpdateLessonNote)
	authed.DELETE("/lesson-notes/:uid", s.DeleteLessonNote)
}
