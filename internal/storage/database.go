package storage

import (
	"StateDeck/internal/model"
	"StateDeck/internal/repo"
	"context"
	"encoding/hex"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// UploadsPath — префикс маршрута, по которому сервер отдаёт файлы из БД.
const UploadsPath = "/uploads/"

// Database хранит файлы в таблице blobs. Одинаковое содержимое
// сохраняется один раз: повторная загрузка возвращает URL первой.
type Database struct {
	blobs   repo.BlobRepository
	baseURL string
	logger  *zap.SugaredLogger
}

// NewDatabase создаёт хранилище в БД. baseURL — внешний адрес сервера.
func NewDatabase(blobs repo.BlobRepository, baseURL string, logger *zap.SugaredLogger) *Database {
	return &Database{blobs: blobs, baseURL: baseURL, logger: logger}
}

func (d *Database) Put(ctx context.Context, filename string, data []byte, contentType string) (Object, error) {
	sum := blake2b.Sum256(data)
	b := &model.Blob{
		Key:         filename,
		Hash:        hex.EncodeToString(sum[:]),
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}
	stored, created, err := d.blobs.CreateIfAbsent(ctx, b)
	if err != nil {
		return Object{}, fmt.Errorf("store blob %s: %w", filename, err)
	}
	if !created {
		d.logger.Debugw("blob deduplicated", "requested", filename, "existing", stored.Key)
	}
	return Object{Key: stored.Key, URL: d.URL(stored.Key)}, nil
}

// URL строит публичный адрес файла по ключу.
func (d *Database) URL(key string) string {
	return d.baseURL + UploadsPath + url.PathEscape(key)
}

// Get возвращает файл по ключу для отдачи клиенту.
func (d *Database) Get(ctx context.Context, key string) (*model.Blob, error) {
	return d.blobs.GetByKey(ctx, key)
}
