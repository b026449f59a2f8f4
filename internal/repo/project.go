package repo

import (
	"StateDeck/internal/model"
	"context"

	"gorm.io/gorm"
)

// ProjectRepository — доступ к проектам.
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	// List возвращает проекты по возрастанию времени создания.
	List(ctx context.Context) ([]model.Project, error)
	// GetByID возвращает gorm.ErrRecordNotFound, если проекта нет.
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// Delete удаляет проект и обнуляет ссылки на него у элементов.
	// deleted=false, если проекта не было.
	Delete(ctx context.Context, id string) (deleted bool, err error)
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepository создаёт реализацию репозитория для Project.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) List(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Element{}).
			Where("project_id = ?", id).
			Update("project_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Project{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
