package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	api "github.com/educode-dev/educode-backend/internal/api/http"
	"github.com/educode-dev/educode-backend/internal/audit"
	"github.com/educode-dev/educode-backend/internal/auth"
	"github.com/educode-dev/educode-backend/internal/cache"
	"github.com/educode-dev/educode-backend/internal/config"
	"github.com/educode-dev/educode-backend/internal/content"
	"github.com/educode-dev/educode-backend/internal/db"
	"github.com/educode-dev/educode-backend/internal/grading"
	"github.com/educode-dev/educode-backend/internal/judge"
	"github.com/educode-dev/educode-backend/internal/logging"
	"github.com/educode-dev/educode-backend/internal/progress"
	"github.com/educode-dev/educode-backend/internal/rbac"
	"github.com/educode-dev/educode-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}

	contentStore := content.NewSQLStore(dbh, cfg.DBDriver)
	progressStore := progress.NewSQLStore(dbh, cfg.DBDriver)
	events := audit.NewEventLog(dbh, logger)

	// --- Grading ---
	runner := judge.NewHTTPClient(cfg.JudgeBaseURL, cfg.JudgeAPIKey, cfg.JudgeAPIHost, logger)
	evaluator := grading.NewEvaluator(runner)
	progressSvc := progress.NewService(contentStore, progressStore, evaluator, events, logger)

	// --- Auth ---
	authSvc := auth.NewService(dbh, cfg.AuthSecret, cfg.TokenTTL)

	// --- Covers ---
	covers, err := storage.NewFSStore(cfg.CoverBasePath)
	if err != nil {
		logger.Fatal("cover store", zap.Error(err))
	}

	// --- Catalog cache (optional) ---
	var catalog *cache.Catalog
	if cfg.RedisAddr != "" {
		catalog, err = cache.NewCatalog(cfg.RedisAddr, cfg.RedisPassword, logger)
		if err != nil {
			logger.Warn("catalog cache disabled", zap.Error(err))
			catalog = nil
		}
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(api.RequestLogger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface
	r.Post("/auth/register", api.RegisterHandler(authSvc))
	r.Post("/auth/login", api.LoginHandler(authSvc))
	r.Get("/courses", api.ListCoursesHandler(contentStore, catalog))
	r.Get("/courses/{courseID}", api.GetCourseHandler(contentStore))
	r.Get("/courses/{courseID}/cover", api.GetCoverHandler(contentStore, covers))
	r.Get("/categories", api.ListCategoriesHandler(contentStore))
	r.Get("/articles", api.ListArticlesHandler(contentStore))
	r.Get("/articles/{articleID}", api.GetArticleHandler(contentStore))

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Get("/auth/me", api.MeHandler(authSvc))

		// Course authoring
		pr.With(rbac.Require("course:create")).
			Post("/courses", api.CreateCourseHandler(contentStore, catalog))
		pr.With(rbac.Require("course:edit-own")).
			Put("/courses/{courseID}", api.UpdateCourseHandler(contentStore, catalog))
		pr.With(rbac.Require("course:delete-own")).
			Delete("/courses/{courseID}", api.DeleteCourseHandler(contentStore, catalog))
		pr.With(rbac.Require("course:edit-own")).
			Post("/courses/{courseID}/cover", api.UploadCoverHandler(contentStore, covers))

		// Course tree
		pr.With(rbac.Require("course:view")).
			Get("/courses/{courseID}/modules", api.ListModulesHandler(contentStore))
		pr.With(rbac.Require("content:create")).
			Post("/courses/{courseID}/modules", api.CreateModuleHandler(contentStore))
		pr.With(rbac.Require("content:edit")).
			Put("/modules/{moduleID}", api.UpdateModuleHandler(contentStore))
		pr.With(rbac.Require("content:delete")).
			Delete("/modules/{moduleID}", api.DeleteModuleHandler(contentStore))
		pr.With(rbac.Require("content:reorder")).
			Patch("/modules/{moduleID}/order", api.ReorderModuleHandler(contentStore))

		pr.With(rbac.Require("course:view")).
			Get("/modules/{moduleID}/lessons", api.ListLessonsHandler(contentStore))
		pr.With(rbac.Require("course:view")).
			Get("/lessons/{lessonID}", api.GetLessonHandler(contentStore))
		pr.With(rbac.Require("content:create")).
			Post("/modules/{moduleID}/lessons", api.CreateLessonHandler(contentStore))
		pr.With(rbac.Require("content:edit")).
			Put("/lessons/{lessonID}", api.UpdateLessonHandler(contentStore))
		pr.With(rbac.Require("content:delete")).
			Delete("/lessons/{lessonID}", api.DeleteLessonHandler(contentStore))
		pr.With(rbac.Require("content:reorder")).
			Patch("/lessons/{lessonID}/order", api.ReorderLessonHandler(contentStore))

		pr.With(rbac.Require("course:view")).
			Get("/lessons/{lessonID}/tasks", api.ListTasksHandler(contentStore))
		pr.With(rbac.Require("course:view")).
			Get("/tasks/{taskID}", api.GetTaskHandler(contentStore))
		pr.With(rbac.Require("content:create")).
			Post("/lessons/{lessonID}/tasks", api.CreateTaskHandler(contentStore))
		pr.With(rbac.Require("content:edit")).
			Put("/tasks/{taskID}", api.UpdateTaskHandler(contentStore))
		pr.With(rbac.Require("content:delete")).
			Delete("/tasks/{taskID}", api.DeleteTaskHandler(contentStore))
		pr.With(rbac.Require("content:reorder")).
			Patch("/tasks/{taskID}/order", api.ReorderTaskHandler(contentStore))

		pr.With(rbac.Require("content:create")).
			Post("/tasks/{taskID}/options", api.CreateOptionHandler(contentStore))
		pr.With(rbac.Require("content:edit")).
			Put("/options/{optionID}", api.UpdateOptionHandler(contentStore))
		pr.With(rbac.Require("content:delete")).
			Delete("/options/{optionID}", api.DeleteOptionHandler(contentStore))
		pr.With(rbac.Require("content:reorder")).
			Patch("/options/{optionID}/order", api.ReorderOptionHandler(contentStore))

		// Learning flow
		pr.With(rbac.Require("course:enroll")).
			Post("/courses/{courseID}/enroll", api.EnrollHandler(progressSvc))
		pr.With(rbac.Require("task:check")).
			Post("/tasks/{taskID}/check", api.CheckTaskHandler(progressSvc))
		pr.With(rbac.Require("progress:view-own")).
			Get("/progress", api.ListProgressHandler(progressSvc))

		// Knowledge base
		pr.With(rbac.Require("article:create")).
			Post("/articles", api.CreateArticleHandler(contentStore))
		pr.With(rbac.Require("article:edit-own")).
			Put("/articles/{articleID}", api.UpdateArticleHandler(contentStore))
		pr.With(rbac.RequireAny("article:edit-own", "article:delete")).
			Delete("/articles/{articleID}", api.DeleteArticleHandler(contentStore))
		pr.With(rbac.Require("article:create")).
			Post("/categories", api.CreateCategoryHandler(contentStore))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	logger.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("env", cfg.Env),
		zap.String("db", cfg.DBDriver))
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
