package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	Create(ctx context.Context, question *model.Question) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	FindByQuizID(ctx context.Context, quizID uuid.UUID) ([]model.Question, error)
	FindTextsByFileID(ctx context.Context, fileID uuid.UUID) ([]string, error)
	CountByQuizIDs(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *questionRepository) FindByQuizID(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).Where("quiz_id = ?", quizID).Order("position ASC").Find(&questions).Error
	return questions, err
}

// FindTextsByFileID collects the question texts of every section of a file.
func (r *questionRepository) FindTextsByFileID(ctx context.Context, fileID uuid.UUID) ([]string, error) {
	var texts []string
	err := r.db.WithContext(ctx).Model(&model.Question{}).
		Joins("JOIN quizzes ON quizzes.id = questions.quiz_id").
		Where("quizzes.file_id = ?", fileID).
		Pluck("questions.text", &texts).Error
	return texts, err
}

func (r *questionRepository) CountByQuizIDs(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(quizIDs))
	if len(quizIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		QuizID uuid.UUID
		Total  int
	}
	err := r.db.WithContext(ctx).Model(&model.Question{}).
		Select("quiz_id, COUNT(*) AS total").
		Where("quiz_id IN ?", quizIDs).
		Group("quiz_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.QuizID] = row.Total
	}
	return counts, nil
}
