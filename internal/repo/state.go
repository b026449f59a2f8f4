package repo

import (
	"StateDeck/internal/model"
	"context"

	"gorm.io/gorm"
)

// StateRepository — доступ к состояниям элемента.
type StateRepository interface {
	Create(ctx context.Context, s *model.State) error
	// MaxSortOrder возвращает наибольший sort_order у элемента, 0 если состояний нет.
	MaxSortOrder(ctx context.Context, elementID string) (int, error)
	// GetByID возвращает gorm.ErrRecordNotFound, если состояния нет.
	GetByID(ctx context.Context, id string) (*model.State, error)
	// ListByElement упорядочивает по sort_order; равные значения — по времени создания.
	ListByElement(ctx context.Context, elementID string) ([]model.State, error)
	Update(ctx context.Context, id string, updates map[string]any) (*model.State, error)
	// Delete не перенумеровывает соседние состояния.
	Delete(ctx context.Context, id string) (deleted bool, err error)
}

type stateRepo struct {
	db *gorm.DB
}

// NewStateRepository создаёт реализацию репозитория для State.
func NewStateRepository(db *gorm.DB) StateRepository {
	return &stateRepo{db: db}
}

func (r *stateRepo) Create(ctx context.Context, s *model.State) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *stateRepo) MaxSortOrder(ctx context.Context, elementID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.State{}).
		Where("element_id = ?", elementID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *stateRepo) GetByID(ctx context.Context, id string) (*model.State, error) {
	var s model.State
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stateRepo) ListByElement(ctx context.Context, elementID string) ([]model.State, error) {
	var out []model.State
	err := r.db.WithContext(ctx).
		Where("element_id = ?", elementID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *stateRepo) Update(ctx context.Context, id string, updates map[string]any) (*model.State, error) {
	var out *model.State
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s model.State
		if err := tx.Where("id = ?", id).First(&s).Error; err != nil {
			return err
		}
		if err := tx.Model(&s).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).First(&s).Error; err != nil {
			return err
		}
		out = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *stateRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.State{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
