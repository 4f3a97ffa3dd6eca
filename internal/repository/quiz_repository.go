package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuizSummary is one row of the dashboard overview.
type QuizSummary struct {
	QuizID        uuid.UUID
	FileName      string
	CreatedAt     time.Time
	QuestionCount int
}

type QuizRepository interface {
	WithTx(tx *gorm.DB) QuizRepository
	Create(ctx context.Context, quiz *model.Quiz) error
	FindByIDWithQuestions(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	FindByFileID(ctx context.Context, fileID uuid.UUID, withQuestions bool) ([]model.Quiz, error)
	FindByFileIDs(ctx context.Context, fileIDs []uuid.UUID) ([]model.Quiz, error)
	FindSummariesByUser(ctx context.Context, userID uuid.UUID) ([]QuizSummary, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) WithTx(tx *gorm.DB) QuizRepository {
	return &quizRepository{db: tx}
}

// Create inserts only the quiz row; questions are written one by one by the caller.
func (r *quizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(quiz).Error
}

func (r *quizRepository) FindByIDWithQuestions(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.WithContext(ctx).Preload("Questions", orderedQuestions).Preload("File").First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "quiz")
	}
	return &quiz, nil
}

// FindByFileID returns the sections of a file in creation order.
func (r *quizRepository) FindByFileID(ctx context.Context, fileID uuid.UUID, withQuestions bool) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	query := r.db.WithContext(ctx).Where("file_id = ?", fileID)
	if withQuestions {
		query = query.Preload("Questions", orderedQuestions)
	}
	err := query.Order("created_at ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) FindByFileIDs(ctx context.Context, fileIDs []uuid.UUID) ([]model.Quiz, error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}
	var quizzes []model.Quiz
	err := r.db.WithContext(ctx).Where("file_id IN ?", fileIDs).Order("created_at ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) FindSummariesByUser(ctx context.Context, userID uuid.UUID) ([]QuizSummary, error) {
	var rows []QuizSummary
	err := r.db.WithContext(ctx).Model(&model.Quiz{}).
		Select("quizzes.id AS quiz_id, uploaded_files.original_name AS file_name, quizzes.created_at AS created_at, " +
			"(SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) AS question_count").
		Joins("JOIN uploaded_files ON uploaded_files.id = quizzes.file_id").
		Where("uploaded_files.user_id = ?", userID).
		Order("quizzes.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("questions.position ASC")
}
