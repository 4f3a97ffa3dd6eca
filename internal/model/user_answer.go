package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserAnswer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	QuestionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Question    Question  `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	AttemptID   uuid.UUID `gorm:"type:uuid;not null;index" json:"attempt_id"`
	Answer      string    `gorm:"type:text" json:"answer"`
	IsCorrect   *bool     `json:"is_correct"` // nil when the grader gave no clear verdict
	SubmittedAt time.Time `json:"submitted_at"`
}

func (a *UserAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now().UTC()
	}
	return nil
}
