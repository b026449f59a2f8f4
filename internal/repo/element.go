package repo

import (
	"StateDeck/internal/model"
	"context"

	"gorm.io/gorm"
)

// ElementRepository — доступ к элементам.
type ElementRepository interface {
	Create(ctx context.Context, e *model.Element) error
	// GetByID возвращает gorm.ErrRecordNotFound, если элемента нет.
	GetByID(ctx context.Context, id string) (*model.Element, error)
	// List возвращает элементы, недавно изменённые — первыми.
	// projectID == nil — без фильтра по проекту.
	List(ctx context.Context, projectID *string) ([]model.Element, error)
	// Update применяет частичные изменения (имена колонок) и возвращает
	// обновлённую запись. gorm.ErrRecordNotFound, если элемента нет.
	Update(ctx context.Context, id string, updates map[string]any) (*model.Element, error)
	// Delete удаляет элемент вместе со всеми его состояниями в одной транзакции.
	Delete(ctx context.Context, id string) (deleted bool, err error)
}

type elementRepo struct {
	db *gorm.DB
}

// NewElementRepository создаёт реализацию репозитория для Element.
func NewElementRepository(db *gorm.DB) ElementRepository {
	return &elementRepo{db: db}
}

func (r *elementRepo) Create(ctx context.Context, e *model.Element) error {
	return r.db.WithContext(ctx).Omit("Project", "States").Create(e).Error
}

func (r *elementRepo) GetByID(ctx context.Context, id string) (*model.Element, error) {
	var e model.Element
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *elementRepo) List(ctx context.Context, projectID *string) ([]model.Element, error) {
	q := r.db.WithContext(ctx).Order("updated_at DESC")
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	var out []model.Element
	err := q.Find(&out).Error
	return out, err
}

func (r *elementRepo) Update(ctx context.Context, id string, updates map[string]any) (*model.Element, error) {
	var out *model.Element
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e model.Element
		if err := tx.Where("id = ?", id).First(&e).Error; err != nil {
			return err
		}
		if err := tx.Model(&e).Omit("Project", "States").Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).First(&e).Error; err != nil {
			return err
		}
		out = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *elementRepo) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// состояния удаляются явно: SQLite без PRAGMA foreign_keys каскад не выполняет
		if err := tx.Where("element_id = ?", id).Delete(&model.State{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Element{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
