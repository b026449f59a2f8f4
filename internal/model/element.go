package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultElementTitle подставляется, когда заголовок при создании пустой.
const DefaultElementTitle = "Untitled element"

// Element — задокументированный макет: ссылка на Figma и скриншот.
type Element struct {
	ID    string `gorm:"primaryKey;type:uuid"`
	Title string `gorm:"not null"`

	// FigmaFileKey и FigmaNodeID всегда выводятся из FigmaURL.
	FigmaURL     string `gorm:"column:figma_url;not null"`
	FigmaFileKey *string
	FigmaNodeID  *string

	ImagePath string `gorm:"not null"`
	ImageName string `gorm:"not null"`
	ImageType string `gorm:"not null"`
	ImageSize int64  `gorm:"not null"`

	ProjectID *string  `gorm:"type:uuid;index"` // опциональная ссылка на projects.id
	Project   *Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	States []State `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`
}

func (e *Element) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
