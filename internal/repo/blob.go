package repo

import (
	"StateDeck/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobRepository минимальный контракт доступа к Blob.
type BlobRepository interface {
	// CreateIfAbsent сохраняет blob, если blob с тем же хешем ещё не сохранён.
	// Возвращает сохранённую запись (новую или существующую) и created=true,
	// если запись была создана в этой операции.
	CreateIfAbsent(ctx context.Context, b *model.Blob) (stored *model.Blob, created bool, err error)
	// GetByKey возвращает gorm.ErrRecordNotFound, если ключа нет.
	GetByKey(ctx context.Context, key string) (*model.Blob, error)
}

type blobRepo struct {
	db *gorm.DB
}

// NewBlobRepository создаёт реализацию репозитория для Blob.
func NewBlobRepository(db *gorm.DB) BlobRepository {
	return &blobRepo{db: db}
}

func (r *blobRepo) CreateIfAbsent(ctx context.Context, b *model.Blob) (*model.Blob, bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash"}},
		DoNothing: true,
	}).Create(b)
	if tx.Error != nil {
		return nil, false, tx.Error
	}
	if tx.RowsAffected > 0 {
		return b, true, nil
	}

	var existing model.Blob
	if err := r.db.WithContext(ctx).Where("hash = ?", b.Hash).First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *blobRepo) GetByKey(ctx context.Context, key string) (*model.Blob, error) {
	if key == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var b model.Blob
	if err := r.db.WithContext(ctx).Where(&model.Blob{Key: key}).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}
