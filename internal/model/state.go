package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StateType — закрытый набор видов состояний.
type StateType string

const (
	StateError         StateType = "error"
	StateWarning       StateType = "warning"
	StateSuccess       StateType = "success"
	StateInfo          StateType = "info"
	StateHelper        StateType = "helper"
	StateEmpty         StateType = "empty"
	StateAccessibility StateType = "accessibility"
	StateOther         StateType = "other"
)

// StateTypes перечисляет все виды в порядке отображения фильтров.
var StateTypes = []StateType{
	StateError,
	StateWarning,
	StateSuccess,
	StateInfo,
	StateHelper,
	StateEmpty,
	StateAccessibility,
	StateOther,
}

// Valid сообщает, входит ли значение в закрытый набор.
func (t StateType) Valid() bool {
	switch t {
	case StateError, StateWarning, StateSuccess, StateInfo,
		StateHelper, StateEmpty, StateAccessibility, StateOther:
		return true
	}
	return false
}

// DefaultLocale — локаль состояния по умолчанию.
const DefaultLocale = "en"

// State — одно задокументированное UI-состояние элемента.
type State struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	ElementID string    `gorm:"type:uuid;not null;index"` // ссылка на elements.id
	Type      StateType `gorm:"not null"`

	Title     string `gorm:"not null"`
	Message   string `gorm:"not null"`
	Condition *string
	Severity  *string
	Locale    string `gorm:"not null;default:en"`

	// SortOrder не уникален на уровне хранилища; равные значения
	// упорядочиваются по времени создания.
	SortOrder int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (s *State) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Locale == "" {
		s.Locale = DefaultLocale
	}
	return nil
}
