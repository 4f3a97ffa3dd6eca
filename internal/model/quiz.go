package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz is one generated section of a source document.
type Quiz struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FileID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"file_id"`
	File      SourceDocument `gorm:"foreignKey:FileID" json:"file,omitempty"`
	Questions []Question     `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
