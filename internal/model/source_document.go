package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SourceDocument struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Filename     string    `gorm:"not null" json:"filename"`
	OriginalName string    `json:"original_name"`
	FileType     string    `gorm:"not null" json:"file_type"` // "pdf", "docx", "text"
	Quizzes      []Quiz    `gorm:"foreignKey:FileID" json:"quizzes,omitempty"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (SourceDocument) TableName() string { return "uploaded_files" }

func (d *SourceDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
