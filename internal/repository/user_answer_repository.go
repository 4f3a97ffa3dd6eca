package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserAnswerRepository interface {
	WithTx(tx *gorm.DB) UserAnswerRepository
	Create(ctx context.Context, answer *model.UserAnswer) error
	FindByAttemptID(ctx context.Context, attemptID uuid.UUID) ([]model.UserAnswer, error)
	FindHistoryByUser(ctx context.Context, userID uuid.UUID) ([]model.UserAnswer, error)
}

type userAnswerRepository struct {
	db *gorm.DB
}

func NewUserAnswerRepository(db *gorm.DB) UserAnswerRepository {
	return &userAnswerRepository{db: db}
}

func (r *userAnswerRepository) WithTx(tx *gorm.DB) UserAnswerRepository {
	return &userAnswerRepository{db: tx}
}

func (r *userAnswerRepository) Create(ctx context.Context, answer *model.UserAnswer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(answer).Error
}

func (r *userAnswerRepository) FindByAttemptID(ctx context.Context, attemptID uuid.UUID) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).Find(&answers).Error
	return answers, err
}

// FindHistoryByUser lists every answer of the user's finalized attempts,
// newest attempt first, with the question preloaded.
func (r *userAnswerRepository) FindHistoryByUser(ctx context.Context, userID uuid.UUID) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.db.WithContext(ctx).
		Preload("Question").
		Joins("JOIN quiz_attempts ON quiz_attempts.id = user_answers.attempt_id").
		Where("quiz_attempts.user_id = ? AND quiz_attempts.status = ?", userID, model.AttemptStatusFinalized).
		Order("quiz_attempts.submitted_at DESC").
		Find(&answers).Error
	return answers, err
}
