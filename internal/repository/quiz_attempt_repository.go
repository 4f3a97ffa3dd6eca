package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizAttemptRepository interface {
	WithTx(tx *gorm.DB) QuizAttemptRepository
	Create(ctx context.Context, attempt *model.QuizAttempt) error
	Finalize(ctx context.Context, id uuid.UUID, score int) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.QuizAttempt, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error)
	FindAllByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) ([]model.QuizAttempt, error)
	FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.QuizAttempt, error)
}

type quizAttemptRepository struct {
	db *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) QuizAttemptRepository {
	return &quizAttemptRepository{db: db}
}

func (r *quizAttemptRepository) WithTx(tx *gorm.DB) QuizAttemptRepository {
	return &quizAttemptRepository{db: tx}
}

func (r *quizAttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(attempt).Error
}

// Finalize writes the final score once every answer of the attempt exists.
func (r *quizAttemptRepository) Finalize(ctx context.Context, id uuid.UUID, score int) error {
	result := r.db.WithContext(ctx).Model(&model.QuizAttempt{}).
		Where("id = ? AND status = ?", id, model.AttemptStatusPending).
		Updates(map[string]interface{}{"score": score, "status": model.AttemptStatusFinalized})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "pending attempt")
	}
	return nil
}

func (r *quizAttemptRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.db.WithContext(ctx).First(&attempt, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "attempt")
	}
	return &attempt, nil
}

// FindAllByUser returns finalized attempts, newest first, with quiz and file loaded.
func (r *quizAttemptRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.WithContext(ctx).
		Preload("Quiz.File").
		Where("user_id = ? AND status = ?", userID, model.AttemptStatusFinalized).
		Order("submitted_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *quizAttemptRepository) FindAllByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ? AND status = ?", userID, quizID, model.AttemptStatusFinalized).
		Order("submitted_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *quizAttemptRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND submitted_at >= ?", userID, model.AttemptStatusFinalized, since).
		Order("submitted_at ASC").
		Find(&attempts).Error
	return attempts, err
}
