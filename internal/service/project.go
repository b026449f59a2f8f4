package service

import (
	"StateDeck/internal/apperr"
	"StateDeck/internal/model"
	"StateDeck/internal/repo"
	"context"
	"strings"

	"go.uber.org/zap"
)

// ProjectService — операции над проектами.
type ProjectService struct {
	repo   repo.ProjectRepository
	logger *zap.SugaredLogger
}

func NewProjectService(r repo.ProjectRepository, logger *zap.SugaredLogger) *ProjectService {
	return &ProjectService{repo: r, logger: logger}
}

// Create создаёт проект. Пустое имя — ValidationError.
func (s *ProjectService) Create(ctx context.Context, name string, description *string) (*model.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.InvalidField("name", "Project name is required.")
	}
	p := &model.Project{Name: name, Description: description}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, storeError(s.logger, "create project", "project", "", err)
	}
	s.logger.Infow("project created", "id", p.ID)
	return p, nil
}

// List — проекты в порядке создания.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, "list projects", "project", "", err)
	}
	return list, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	if !validID(id) {
		return nil, apperr.NotFound("project", id)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "get project", "project", id, err)
	}
	return p, nil
}

// Delete удаляет проект; элементы проекта остаются без проекта.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NotFound("project", id)
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(s.logger, "delete project", "project", id, err)
	}
	if !deleted {
		return apperr.NotFound("project", id)
	}
	s.logger.Infow("project deleted", "id", id)
	return nil
}
