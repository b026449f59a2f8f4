package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project — необязательная группа для элементов.
type Project struct {
	ID          string  `gorm:"primaryKey;type:uuid"`
	Name        string  `gorm:"not null"`
	Description *string // nil, если описание не задано

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate выдаёт uuid, если id не задан вызывающим.
func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
