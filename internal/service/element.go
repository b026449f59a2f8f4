package service

import (
	"StateDeck/internal/apperr"
	"StateDeck/internal/figma"
	"StateDeck/internal/model"
	"StateDeck/internal/patch"
	"StateDeck/internal/repo"
	"StateDeck/internal/upload"
	"context"
	"strings"

	"go.uber.org/zap"
)

// Uploader сохраняет изображение элемента.
type Uploader interface {
	Save(ctx context.Context, f upload.File) (upload.Stored, error)
}

// ElementService — операции над элементами.
type ElementService struct {
	elements repo.ElementRepository
	projects repo.ProjectRepository
	states   repo.StateRepository
	uploads  Uploader
	logger   *zap.SugaredLogger
}

func NewElementService(
	elements repo.ElementRepository,
	projects repo.ProjectRepository,
	states repo.StateRepository,
	uploads Uploader,
	logger *zap.SugaredLogger,
) *ElementService {
	return &ElementService{elements: elements, projects: projects, states: states, uploads: uploads, logger: logger}
}

// ElementInput — данные для создания элемента.
type ElementInput struct {
	Title     string
	FigmaURL  string
	ProjectID string // пусто — без проекта
	Image     *upload.File
}

// ElementPatch — частичное обновление. ProjectID может быть обнулён.
type ElementPatch struct {
	Title     *string
	FigmaURL  *string
	ProjectID patch.Field[string]
}

// Create проверяет ссылку и изображение, загружает файл и создаёт запись.
// Если загрузка не удалась, запись не создаётся.
func (s *ElementService) Create(ctx context.Context, in ElementInput) (*model.Element, error) {
	figmaURL := strings.TrimSpace(in.FigmaURL)
	if figmaURL == "" {
		return nil, apperr.InvalidField("figmaUrl", "Figma URL is required.")
	}
	link := figma.Parse(figmaURL)
	if !link.IsValid {
		return nil, apperr.InvalidField("figmaUrl", "Invalid Figma URL.")
	}
	if in.Image == nil {
		return nil, apperr.InvalidField("image", "Image upload is required.")
	}

	projectID := strings.TrimSpace(in.ProjectID)
	if projectID != "" {
		if err := s.checkProject(ctx, projectID); err != nil {
			return nil, err
		}
	}

	stored, err := s.uploads.Save(ctx, *in.Image)
	if err != nil {
		s.logger.Warnw("element image rejected", "name", in.Image.Name, "type", in.Image.Type, "error", err)
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = model.DefaultElementTitle
	}
	e := &model.Element{
		Title:        title,
		FigmaURL:     figmaURL,
		FigmaFileKey: link.FileKeyPtr(),
		FigmaNodeID:  link.NodeIDPtr(),
		ImagePath:    stored.Path,
		ImageName:    stored.Name,
		ImageType:    stored.Type,
		ImageSize:    stored.Size,
	}
	if projectID != "" {
		e.ProjectID = &projectID
	}
	if err := s.elements.Create(ctx, e); err != nil {
		return nil, storeError(s.logger, "create element", "element", "", err)
	}
	s.logger.Infow("element created", "id", e.ID, "file_key", link.FileKey, "node_id", link.NodeID)
	return e, nil
}

func (s *ElementService) Get(ctx context.Context, id string) (*model.Element, error) {
	if !validID(id) {
		return nil, apperr.NotFound("element", id)
	}
	e, err := s.elements.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "get element", "element", id, err)
	}
	return e, nil
}

// List — элементы, недавно изменённые первыми; projectID == nil — все.
func (s *ElementService) List(ctx context.Context, projectID *string) ([]model.Element, error) {
	if projectID != nil && !validID(*projectID) {
		return []model.Element{}, nil
	}
	list, err := s.elements.List(ctx, projectID)
	if err != nil {
		return nil, storeError(s.logger, "list elements", "element", "", err)
	}
	return list, nil
}

// Update применяет частичное обновление. Новая ссылка проверяется заново,
// ключ файла и id узла выводятся из неё.
func (s *ElementService) Update(ctx context.Context, id string, p ElementPatch) (*model.Element, error) {
	if !validID(id) {
		return nil, apperr.NotFound("element", id)
	}
	updates := map[string]any{}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, apperr.InvalidField("title", "Title is required.")
		}
		updates["title"] = title
	}
	if p.FigmaURL != nil {
		figmaURL := strings.TrimSpace(*p.FigmaURL)
		link := figma.Parse(figmaURL)
		if figmaURL == "" || !link.IsValid {
			return nil, apperr.InvalidField("figmaUrl", "Invalid Figma URL.")
		}
		updates["figma_url"] = figmaURL
		updates["figma_file_key"] = link.FileKeyPtr()
		updates["figma_node_id"] = link.NodeIDPtr()
	}
	if p.ProjectID.Set {
		projectID := p.ProjectID.Ptr()
		if projectID != nil && *projectID == "" {
			projectID = nil
		}
		if projectID != nil {
			if err := s.checkProject(ctx, *projectID); err != nil {
				return nil, err
			}
		}
		updates["project_id"] = projectID
	}

	e, err := s.elements.Update(ctx, id, updates)
	if err != nil {
		return nil, storeError(s.logger, "update element", "element", id, err)
	}
	return e, nil
}

// ReplaceImage меняет только метаданные изображения.
func (s *ElementService) ReplaceImage(ctx context.Context, id string, image *upload.File) (*model.Element, error) {
	if image == nil {
		return nil, apperr.InvalidField("image", "Image upload is required.")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	stored, err := s.uploads.Save(ctx, *image)
	if err != nil {
		s.logger.Warnw("element image rejected", "id", id, "error", err)
		return nil, err
	}
	e, err := s.elements.Update(ctx, id, map[string]any{
		"image_path": stored.Path,
		"image_name": stored.Name,
		"image_type": stored.Type,
		"image_size": stored.Size,
	})
	if err != nil {
		return nil, storeError(s.logger, "replace element image", "element", id, err)
	}
	return e, nil
}

// Delete удаляет элемент и все его состояния.
func (s *ElementService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NotFound("element", id)
	}
	deleted, err := s.elements.Delete(ctx, id)
	if err != nil {
		return storeError(s.logger, "delete element", "element", id, err)
	}
	if !deleted {
		return apperr.NotFound("element", id)
	}
	s.logger.Infow("element deleted", "id", id)
	return nil
}

// Bundle — элемент вместе с состояниями (для экспорта и просмотра).
func (s *ElementService) Bundle(ctx context.Context, id string) (*model.Element, []model.State, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	states, err := s.states.ListByElement(ctx, id)
	if err != nil {
		return nil, nil, storeError(s.logger, "list states", "element", id, err)
	}
	return e, states, nil
}

func (s *ElementService) checkProject(ctx context.Context, projectID string) error {
	if !validID(projectID) {
		return apperr.InvalidField("projectId", "Project not found.")
	}
	_, err := s.projects.GetByID(ctx, projectID)
	if err == nil {
		return nil
	}
	if err := storeError(s.logger, "get project", "project", projectID, err); !apperr.IsNotFound(err) {
		return err
	}
	return apperr.InvalidField("projectId", "Project not found.")
}
