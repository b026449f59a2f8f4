// Package serialize переводит модели в публичный JSON-вид и текстовые экспорты.
package serialize

import (
	"StateDeck/internal/model"
	"time"
)

// TimeLayout — ISO-8601 с миллисекундами в UTC.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Timestamp форматирует время в TimeLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type Element struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	FigmaURL     string  `json:"figmaUrl"`
	FigmaFileKey *string `json:"figmaFileKey"`
	FigmaNodeID  *string `json:"figmaNodeId"`
	ImagePath    string  `json:"imagePath"`
	ImageName    string  `json:"imageName"`
	ImageType    string  `json:"imageType"`
	ImageSize    int64   `json:"imageSize"`
	ProjectID    *string `json:"projectId"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type State struct {
	ID        string          `json:"id"`
	ElementID string          `json:"elementId"`
	Type      model.StateType `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Condition *string         `json:"condition"`
	Severity  *string         `json:"severity"`
	Locale    string          `json:"locale"`
	SortOrder int             `json:"sortOrder"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

func FromProject(p *model.Project) Project {
	return Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   Timestamp(p.CreatedAt),
		UpdatedAt:   Timestamp(p.UpdatedAt),
	}
}

func FromElement(e *model.Element) Element {
	return Element{
		ID:           e.ID,
		Title:        e.Title,
		FigmaURL:     e.FigmaURL,
		FigmaFileKey: e.FigmaFileKey,
		FigmaNodeID:  e.FigmaNodeID,
		ImagePath:    e.ImagePath,
		ImageName:    e.ImageName,
		ImageType:    e.ImageType,
		ImageSize:    e.ImageSize,
		ProjectID:    e.ProjectID,
		CreatedAt:    Timestamp(e.CreatedAt),
		UpdatedAt:    Timestamp(e.UpdatedAt),
	}
}

func FromState(s *model.State) State {
	return State{
		ID:        s.ID,
		ElementID: s.ElementID,
		Type:      s.Type,
		Title:     s.Title,
		Message:   s.Message,
		Condition: s.Condition,
		Severity:  s.Severity,
		Locale:    s.Locale,
		SortOrder: s.SortOrder,
		CreatedAt: Timestamp(s.CreatedAt),
		UpdatedAt: Timestamp(s.UpdatedAt),
	}
}

func Projects(list []model.Project) []Project {
	out := make([]Project, 0, len(list))
	for i := range list {
		out = append(out, FromProject(&list[i]))
	}
	return out
}

func Elements(list []model.Element) []Element {
	out := make([]Element, 0, len(list))
	for i := range list {
		out = append(out, FromElement(&list[i]))
	}
	return out
}

func States(list []model.State) []State {
	out := make([]State, 0, len(list))
	for i := range list {
		out = append(out, FromState(&list[i]))
	}
	return out
}
