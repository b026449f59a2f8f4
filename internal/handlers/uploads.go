package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UploadHandler отдаёт изображения из хранилища в БД.
type UploadHandler struct {
	Blobs  BlobSource
	Logger *zap.SugaredLogger
}

func NewUploadHandler(blobs BlobSource, logger *zap.SugaredLogger) *UploadHandler {
	return &UploadHandler{Blobs: blobs, Logger: logger}
}

func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	b, err := h.Blobs.Get(r.Context(), key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Logger.Errorw("Serve upload: storage error", "key", key, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// ключ уникален и не переиспользуется, файл неизменяем
	w.Header().Set("Content-Type", b.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(b.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	// svg не должен исполнять скрипты при прямом открытии
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Data)
}
