package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/model"
	"github.com/lshigami/nexera-quiz/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptRecorder stores a graded submission. The attempt is created pending
// with score 0 and only becomes visible to readers once finalized.
type AttemptRecorder interface {
	Record(ctx context.Context, userID, quizID uuid.UUID, verdicts []Verdict) (*model.QuizAttempt, error)
}

type attemptRecorder struct {
	db          *gorm.DB
	attemptRepo repository.QuizAttemptRepository
	answerRepo  repository.UserAnswerRepository
}

func NewAttemptRecorder(db *gorm.DB, attemptRepo repository.QuizAttemptRepository, answerRepo repository.UserAnswerRepository) AttemptRecorder {
	return &attemptRecorder{db: db, attemptRepo: attemptRepo, answerRepo: answerRepo}
}

func (r *attemptRecorder) Record(ctx context.Context, userID, quizID uuid.UUID, verdicts []Verdict) (*model.QuizAttempt, error) {
	var attempt *model.QuizAttempt
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attemptRepo := r.attemptRepo.WithTx(tx)
		answerRepo := r.answerRepo.WithTx(tx)

		zero := 0
		pending := &model.QuizAttempt{
			UserID: userID,
			QuizID: quizID,
			Score:  &zero,
			Status: model.AttemptStatusPending,
		}
		if err := attemptRepo.Create(ctx, pending); err != nil {
			return fmt.Errorf("failed to create attempt: %w", err)
		}

		score := 0
		for _, v := range verdicts {
			answer := model.UserAnswer{
				UserID:      userID,
				QuestionID:  v.QuestionID,
				AttemptID:   pending.ID,
				Answer:      v.UserAnswer,
				IsCorrect:   v.Correctness.Bool(),
				SubmittedAt: pending.SubmittedAt,
			}
			if err := answerRepo.Create(ctx, &answer); err != nil {
				return fmt.Errorf("failed to store answer for question %s: %w", v.QuestionID, err)
			}
			pending.Answers = append(pending.Answers, answer)
			if v.Correctness == Correct {
				score++
			}
		}

		if err := attemptRepo.Finalize(ctx, pending.ID, score); err != nil {
			return fmt.Errorf("failed to finalize attempt: %w", err)
		}
		pending.Score = &score
		pending.Status = model.AttemptStatusFinalized
		attempt = pending
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("quizID", quizID.String()).Msg("Record: transaction rolled back")
		return nil, err
	}

	log.Info().Str("attemptID", attempt.ID.String()).Int("score", *attempt.Score).Int("answers", len(verdicts)).Msg("Attempt recorded")
	return attempt, nil
}
