package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/repository"
	"github.com/rs/zerolog/log"
)

// AnswerService grades a submission and records it as an attempt.
type AnswerService interface {
	Submit(ctx context.Context, userID, quizID uuid.UUID, userAnswers json.RawMessage) (*dto.SubmitAnswersResponse, error)
	History(ctx context.Context, userID uuid.UUID) ([]dto.AnswerHistoryItem, error)
}

type answerService struct {
	quizRepo   repository.QuizRepository
	answerRepo repository.UserAnswerRepository
	scoring    ScoringService
	recorder   AttemptRecorder
}

func NewAnswerService(
	quizRepo repository.QuizRepository,
	answerRepo repository.UserAnswerRepository,
	scoring ScoringService,
	recorder AttemptRecorder,
) AnswerService {
	return &answerService{quizRepo: quizRepo, answerRepo: answerRepo, scoring: scoring, recorder: recorder}
}

func (s *answerService) Submit(ctx context.Context, userID, quizID uuid.UUID, userAnswers json.RawMessage) (*dto.SubmitAnswersResponse, error) {
	if _, err := s.scoring.ValidateAnswers(userAnswers); err != nil {
		return nil, err
	}
	quiz, err := loadOwnedQuiz(ctx, s.quizRepo, userID, quizID)
	if err != nil {
		return nil, err
	}

	result, err := s.scoring.Score(ctx, quiz, userAnswers)
	if err != nil {
		return nil, err
	}
	attempt, err := s.recorder.Record(ctx, userID, quiz.ID, result.Verdicts)
	if err != nil {
		return nil, err
	}

	results := make([]dto.ScoredAnswer, 0, len(result.Verdicts))
	for _, v := range result.Verdicts {
		results = append(results, dto.ScoredAnswer{
			ID:            v.QuestionID,
			Question:      v.Question,
			UserAnswer:    v.UserAnswer,
			CorrectAnswer: v.CorrectAnswer,
			IsCorrect:     v.Correctness.Bool(),
			Explanation:   v.Explanation,
		})
	}
	log.Info().Str("quizID", quiz.ID.String()).Str("attemptID", attempt.ID.String()).Int("score", *attempt.Score).Msg("Answers submitted")

	return &dto.SubmitAnswersResponse{
		QuizID:      quiz.ID,
		AttemptID:   attempt.ID,
		Score:       *attempt.Score,
		Total:       len(quiz.Questions),
		SubmittedAt: attempt.SubmittedAt,
		Results:     results,
	}, nil
}

func (s *answerService) History(ctx context.Context, userID uuid.UUID) ([]dto.AnswerHistoryItem, error) {
	answers, err := s.answerRepo.FindHistoryByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer history: %w", err)
	}
	items := make([]dto.AnswerHistoryItem, 0, len(answers))
	for _, a := range answers {
		items = append(items, dto.AnswerHistoryItem{
			AttemptID:     a.AttemptID,
			QuestionID:    a.QuestionID,
			Question:      a.Question.Text,
			UserAnswer:    a.Answer,
			CorrectAnswer: a.Question.CorrectAnswer,
			Explanation:   a.Question.Explanation,
			IsCorrect:     a.IsCorrect,
			SubmittedAt:   a.SubmittedAt,
		})
	}
	return items, nil
}
