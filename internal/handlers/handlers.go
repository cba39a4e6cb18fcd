package handlers

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"DocControl/internal/auth"
	"DocControl/internal/config"
	"DocControl/internal/middleware"
	"DocControl/internal/service"
)

type Handler struct {
	Router chi.Router
}

// AnalysisRunner — запуск фонового анализа; наружу результат не виден.
type AnalysisRunner interface {
	Run(docID int64)
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	docService *service.DocumentService,
	policy *service.AccessPolicy,
	analyzer AnalysisRunner,
	codec *auth.TokenCodec,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	// единственная точка аутентификации: до диспетчеризации роутов
	r.Use(middleware.WithAuth(codec, cfg.PublicPathSet()))

	// Handlers
	userHandler := NewUserHandler(userService, codec, logger, cfg)
	docHandler := NewDocumentHandler(docService, userService, policy, analyzer, logger, cfg)

	// Auth routes (public)
	r.Post("/auth/register", userHandler.Register)
	r.Post("/auth/login", userHandler.Login)

	// Document routes
	r.Post("/upload", docHandler.Upload)
	r.Get("/history", docHandler.History)
	r.Get("/result/{doc_id}", docHandler.Result)

	// Download routes
	r.Get("/download/{doc_id}", docHandler.DownloadOriginal)
	r.Get("/download_annotated/{doc_id}", docHandler.DownloadAnnotated)
	r.Get("/download_path", docHandler.DownloadPath)
	r.Get("/download_annotated_path", docHandler.DownloadAnnotatedPath)

	return &Handler{Router: r}
}
