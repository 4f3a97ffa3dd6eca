package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/model"
	"github.com/lshigami/nexera-quiz/internal/monitoring"
	"github.com/lshigami/nexera-quiz/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuizPersistenceService stores a quiz together with all of its questions,
// or nothing at all.
type QuizPersistenceService interface {
	PersistQuiz(ctx context.Context, fileID uuid.UUID, items []NormalizedQuestion) (*model.Quiz, error)
}

type quizPersistenceService struct {
	db           *gorm.DB
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
}

func NewQuizPersistenceService(db *gorm.DB, quizRepo repository.QuizRepository, questionRepo repository.QuestionRepository) QuizPersistenceService {
	return &quizPersistenceService{db: db, quizRepo: quizRepo, questionRepo: questionRepo}
}

func (s *quizPersistenceService) PersistQuiz(ctx context.Context, fileID uuid.UUID, items []NormalizedQuestion) (*model.Quiz, error) {
	var quiz *model.Quiz
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quizRepo := s.quizRepo.WithTx(tx)
		questionRepo := s.questionRepo.WithTx(tx)

		created := &model.Quiz{FileID: fileID}
		if err := quizRepo.Create(ctx, created); err != nil {
			return fmt.Errorf("failed to create quiz: %w", err)
		}

		for i, item := range items {
			question := model.Question{
				ID:            item.ID,
				QuizID:        created.ID,
				Position:      i + 1,
				Text:          item.Text,
				QuestionType:  item.QuestionType,
				CorrectAnswer: item.CorrectAnswer,
				Explanation:   item.Explanation,
			}
			question.SetOptions(item.Options)
			if err := questionRepo.Create(ctx, &question); err != nil {
				return fmt.Errorf("failed to create question %d of %d: %w", i+1, len(items), err)
			}
			created.Questions = append(created.Questions, question)
		}
		quiz = created
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("fileID", fileID.String()).Msg("PersistQuiz: transaction rolled back")
		return nil, err
	}

	monitoring.QuestionsPersisted.Add(float64(len(quiz.Questions)))
	log.Info().Str("quizID", quiz.ID.String()).Int("questions", len(quiz.Questions)).Msg("Quiz persisted")
	return quiz, nil
}
