package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/apperr"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/model"
	"github.com/lshigami/nexera-quiz/internal/repository"
)

type QuizService interface {
	GetQuiz(ctx context.Context, userID, quizID uuid.UUID) (*dto.QuizDetailResponse, error)
}

type quizService struct {
	quizRepo repository.QuizRepository
}

func NewQuizService(quizRepo repository.QuizRepository) QuizService {
	return &quizService{quizRepo: quizRepo}
}

func (s *quizService) GetQuiz(ctx context.Context, userID, quizID uuid.UUID) (*dto.QuizDetailResponse, error) {
	quiz, err := loadOwnedQuiz(ctx, s.quizRepo, userID, quizID)
	if err != nil {
		return nil, err
	}
	return &dto.QuizDetailResponse{
		QuizID:    quiz.ID,
		FileID:    quiz.FileID,
		CreatedAt: quiz.CreatedAt,
		Questions: toQuestionResponses(quiz.Questions),
	}, nil
}

// loadOwnedQuiz hides quizzes of other users behind ErrNotFound.
func loadOwnedQuiz(ctx context.Context, quizRepo repository.QuizRepository, userID, quizID uuid.UUID) (*model.Quiz, error) {
	quiz, err := quizRepo.FindByIDWithQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.File.UserID != userID {
		return nil, fmt.Errorf("quiz %s: %w", quizID, apperr.ErrNotFound)
	}
	return quiz, nil
}
