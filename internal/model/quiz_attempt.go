package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttemptStatusPending   = "pending"
	AttemptStatusFinalized = "finalized"
)

type QuizAttempt struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	QuizID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz        Quiz         `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Score       *int         `json:"score"`
	Status      string       `gorm:"not null;default:'pending'" json:"status"` // "pending", "finalized"
	Answers     []UserAnswer `gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"answers,omitempty"`
	SubmittedAt time.Time    `gorm:"index" json:"submitted_at"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now().UTC()
	}
	return nil
}
