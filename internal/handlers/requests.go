package handlers

import (
	"StateDeck/internal/model"
	"StateDeck/internal/patch"
	"StateDeck/internal/service"
	"strings"
)

type createProjectRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

func (r *createProjectRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type updateElementRequest struct {
	Title     *string             `json:"title" validate:"omitempty,min=1"`
	FigmaURL  *string             `json:"figmaUrl" validate:"omitempty,min=1"`
	ProjectID patch.Field[string] `json:"projectId"`
}

func (r *updateElementRequest) normalize() {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		r.Title = &t
	}
	if r.FigmaURL != nil {
		u := strings.TrimSpace(*r.FigmaURL)
		r.FigmaURL = &u
	}
}

func (r *updateElementRequest) patch() service.ElementPatch {
	return service.ElementPatch{Title: r.Title, FigmaURL: r.FigmaURL, ProjectID: r.ProjectID}
}

type createStateRequest struct {
	Type      string  `json:"type" validate:"required,oneof=error warning success info helper empty accessibility other"`
	Title     string  `json:"title" validate:"required"`
	Message   string  `json:"message" validate:"required"`
	Condition *string `json:"condition"`
	Severity  *string `json:"severity"`
	Locale    string  `json:"locale"`
	SortOrder *int    `json:"sortOrder"`
}

func (r *createStateRequest) input() service.StateInput {
	return service.StateInput{
		Type:      model.StateType(r.Type),
		Title:     r.Title,
		Message:   r.Message,
		Condition: r.Condition,
		Severity:  r.Severity,
		Locale:    r.Locale,
		SortOrder: r.SortOrder,
	}
}

// null в condition/severity означает «не менять»
type updateStateRequest struct {
	Type      *string `json:"type" validate:"omitempty,oneof=error warning success info helper empty accessibility other"`
	Title     *string `json:"title"`
	Message   *string `json:"message"`
	Condition *string `json:"condition"`
	Severity  *string `json:"severity"`
	Locale    *string `json:"locale"`
	SortOrder *int    `json:"sortOrder"`
}

func (r *updateStateRequest) patch() service.StatePatch {
	p := service.StatePatch{
		Title:     r.Title,
		Message:   r.Message,
		Condition: r.Condition,
		Severity:  r.Severity,
		Locale:    r.Locale,
		SortOrder: r.SortOrder,
	}
	if r.Type != nil {
		t := model.StateType(*r.Type)
		p.Type = &t
	}
	return p
}
