package handlers

import (
	"StateDeck/internal/config"
	"StateDeck/internal/middleware"
	"StateDeck/internal/model"
	"StateDeck/internal/service"
	"StateDeck/internal/share"
	"StateDeck/internal/storage"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BlobSource отдаёт файлы, сохранённые в БД. nil — маршрут /uploads не нужен.
type BlobSource interface {
	Get(ctx context.Context, key string) (*model.Blob, error)
}

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	projects *service.ProjectService,
	elements *service.ElementService,
	states *service.StateService,
	blobs BlobSource,
	signer *share.Signer,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	projectHandler := NewProjectHandler(projects, logger)
	elementHandler := NewElementHandler(elements, signer, logger, cfg)
	stateHandler := NewStateHandler(states, logger)
	shareHandler := NewShareHandler(elements, projects, signer, logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api", func(r chi.Router) {
		// Projects
		r.Get("/projects", projectHandler.List)
		r.Post("/projects", projectHandler.Create)
		r.Get("/projects/{id}", projectHandler.Get)
		r.Delete("/projects/{id}", projectHandler.Delete)

		// Elements
		r.Get("/elements", elementHandler.List)
		r.Post("/elements", elementHandler.Create)
		r.Get("/elements/{id}", elementHandler.Get)
		r.Patch("/elements/{id}", elementHandler.Update)
		r.Delete("/elements/{id}", elementHandler.Delete)
		r.Post("/elements/{id}/image", elementHandler.ReplaceImage)
		r.Get("/elements/{id}/export", elementHandler.Export)
		r.Post("/elements/{id}/share", elementHandler.Share)

		// States
		r.Get("/elements/{id}/states", stateHandler.List)
		r.Post("/elements/{id}/states", stateHandler.Create)
		r.Patch("/states/{id}", stateHandler.Update)
		r.Delete("/states/{id}", stateHandler.Delete)
	})

	if blobs != nil {
		uploadHandler := NewUploadHandler(blobs, logger)
		r.Get(storage.UploadsPath+"{key}", uploadHandler.Serve)
	}
	r.Get("/share/{token}", shareHandler.View)

	return &Handler{Router: r}
}
