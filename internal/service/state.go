package service

import (
	"StateDeck/internal/apperr"
	"StateDeck/internal/model"
	"StateDeck/internal/repo"
	"context"

	"go.uber.org/zap"
)

// StateService — операции над состояниями элемента.
type StateService struct {
	states   repo.StateRepository
	elements repo.ElementRepository
	logger   *zap.SugaredLogger
}

func NewStateService(states repo.StateRepository, elements repo.ElementRepository, logger *zap.SugaredLogger) *StateService {
	return &StateService{states: states, elements: elements, logger: logger}
}

// StateInput — данные нового состояния. SortOrder == nil — в конец списка.
type StateInput struct {
	Type      model.StateType
	Title     string
	Message   string
	Condition *string
	Severity  *string
	Locale    string
	SortOrder *int
}

// StatePatch — частичное обновление; nil-поля не меняются.
// Condition и Severity нельзя обнулить через null, только пустой строкой.
type StatePatch struct {
	Type      *model.StateType
	Title     *string
	Message   *string
	Condition *string
	Severity  *string
	Locale    *string
	SortOrder *int
}

// Create добавляет состояние элементу. Без явного SortOrder ставит max+1.
func (s *StateService) Create(ctx context.Context, elementID string, in StateInput) (*model.State, error) {
	if err := validateStateInput(in); err != nil {
		return nil, err
	}
	if err := s.checkElement(ctx, elementID); err != nil {
		return nil, err
	}

	sortOrder := 0
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	} else {
		max, err := s.states.MaxSortOrder(ctx, elementID)
		if err != nil {
			return nil, storeError(s.logger, "max sort order", "element", elementID, err)
		}
		sortOrder = max + 1
	}

	locale := in.Locale
	if locale == "" {
		locale = model.DefaultLocale
	}
	st := &model.State{
		ElementID: elementID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Condition: in.Condition,
		Severity:  in.Severity,
		Locale:    locale,
		SortOrder: sortOrder,
	}
	if err := s.states.Create(ctx, st); err != nil {
		return nil, storeError(s.logger, "create state", "state", "", err)
	}
	return st, nil
}

// List — состояния элемента по sortOrder.
func (s *StateService) List(ctx context.Context, elementID string) ([]model.State, error) {
	if err := s.checkElement(ctx, elementID); err != nil {
		return nil, err
	}
	list, err := s.states.ListByElement(ctx, elementID)
	if err != nil {
		return nil, storeError(s.logger, "list states", "element", elementID, err)
	}
	return list, nil
}

// Update меняет только переданные поля.
func (s *StateService) Update(ctx context.Context, id string, p StatePatch) (*model.State, error) {
	if !validID(id) {
		return nil, apperr.NotFound("state", id)
	}
	updates := map[string]any{}
	if p.Type != nil {
		if !p.Type.Valid() {
			return nil, apperr.InvalidField("type", "Unknown state type.")
		}
		updates["type"] = *p.Type
	}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Message != nil {
		updates["message"] = *p.Message
	}
	if p.Condition != nil {
		updates["condition"] = *p.Condition
	}
	if p.Severity != nil {
		updates["severity"] = *p.Severity
	}
	if p.Locale != nil {
		updates["locale"] = *p.Locale
	}
	if p.SortOrder != nil {
		updates["sort_order"] = *p.SortOrder
	}

	st, err := s.states.Update(ctx, id, updates)
	if err != nil {
		return nil, storeError(s.logger, "update state", "state", id, err)
	}
	return st, nil
}

// Delete удаляет состояние; порядок соседей не пересчитывается.
func (s *StateService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NotFound("state", id)
	}
	deleted, err := s.states.Delete(ctx, id)
	if err != nil {
		return storeError(s.logger, "delete state", "state", id, err)
	}
	if !deleted {
		return apperr.NotFound("state", id)
	}
	return nil
}

func (s *StateService) checkElement(ctx context.Context, elementID string) error {
	if !validID(elementID) {
		return apperr.NotFound("element", elementID)
	}
	if _, err := s.elements.GetByID(ctx, elementID); err != nil {
		return storeError(s.logger, "get element", "element", elementID, err)
	}
	return nil
}

func validateStateInput(in StateInput) error {
	fields := map[string][]string{}
	if !in.Type.Valid() {
		fields["type"] = append(fields["type"], "Unknown state type.")
	}
	if in.Title == "" {
		fields["title"] = append(fields["title"], "Title is required.")
	}
	if in.Message == "" {
		fields["message"] = append(fields["message"], "Message is required.")
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Message: "invalid state", Fields: fields}
	}
	return nil
}
