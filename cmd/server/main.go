package main

import (
	"StateDeck/internal/config"
	"StateDeck/internal/handlers"
	"StateDeck/internal/middleware"
	"StateDeck/internal/repo"
	"StateDeck/internal/service"
	"StateDeck/internal/share"
	"StateDeck/internal/storage"
	"StateDeck/internal/upload"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()
	if cfg.Version {
		fmt.Printf("StateDeck server\nVersion: %s\nBuild date: %s\n", version, buildDate)
		return
	}

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	backend, blobs, err := newBackend(ctx, cfg, gormDB, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize blob storage", "backend", cfg.BlobBackend, "error", err)
	}

	projectRepo := repo.NewProjectRepository(gormDB)
	elementRepo := repo.NewElementRepository(gormDB)
	stateRepo := repo.NewStateRepository(gormDB)

	uploads := upload.NewStore(backend, cfg)
	projectService := service.NewProjectService(projectRepo, sugar)
	elementService := service.NewElementService(elementRepo, projectRepo, stateRepo, uploads, sugar)
	stateService := service.NewStateService(stateRepo, elementRepo, sugar)
	signer := share.NewSigner(cfg.ShareSecret, cfg.ShareTTL)

	h := handlers.NewHandler(projectService, elementService, stateService, blobs, signer, sugar, cfg)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"PublicURL", cfg.PublicURL,
		"BlobBackend", cfg.BlobBackend,
		"MaxUploadSizeMB", cfg.MaxUploadSizeMB,
	)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Shutdown failed", "error", err)
		}
	}()

	sugar.Infow("Starting server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Info("Server stopped")
}

// newBackend выбирает хранилище изображений. Для db дополнительно
// возвращается источник, из которого сервер отдаёт /uploads/{key}.
func newBackend(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.SugaredLogger) (storage.Backend, handlers.BlobSource, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendSupabase:
		b, err := storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
		return b, nil, err
	case config.BlobBackendMinio:
		b, err := storage.NewMinio(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Secure:    cfg.MinioSecure,
		})
		return b, nil, err
	case config.BlobBackendDB:
		d := storage.NewDatabase(repo.NewBlobRepository(db), cfg.PublicURL, logger)
		return d, d, nil
	}
	return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
}
