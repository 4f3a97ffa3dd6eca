package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/model"
	"github.com/lshigami/nexera-quiz/internal/repository"
	"github.com/rs/zerolog/log"
)

type DashboardService interface {
	Overview(ctx context.Context, userID uuid.UUID) ([]dto.DashboardQuizItem, error)
	Files(ctx context.Context, userID uuid.UUID) ([]dto.FileResponse, error)
	History(ctx context.Context, userID uuid.UUID) ([]dto.HistoryItem, error)
	QuizAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]dto.AttemptSummary, error)
	WeeklyScores(ctx context.Context, userID uuid.UUID) ([]dto.WeeklyScore, error)
}

type dashboardService struct {
	docRepo      repository.SourceDocumentRepository
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.QuizAttemptRepository
	now          func() time.Time
}

func NewDashboardService(
	docRepo repository.SourceDocumentRepository,
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.QuizAttemptRepository,
) DashboardService {
	return &dashboardService{
		docRepo:      docRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		now:          time.Now,
	}
}

func (s *dashboardService) Overview(ctx context.Context, userID uuid.UUID) ([]dto.DashboardQuizItem, error) {
	rows, err := s.quizRepo.FindSummariesByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.String()).Msg("Overview: failed to load quizzes")
		return nil, fmt.Errorf("failed to load quizzes: %w", err)
	}
	items := make([]dto.DashboardQuizItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.DashboardQuizItem{
			QuizID:        row.QuizID,
			FileName:      row.FileName,
			CreatedAt:     row.CreatedAt,
			QuestionCount: row.QuestionCount,
		})
	}
	return items, nil
}

func (s *dashboardService) Files(ctx context.Context, userID uuid.UUID) ([]dto.FileResponse, error) {
	docs, err := s.docRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}
	return toFileResponses(docs), nil
}

func (s *dashboardService) History(ctx context.Context, userID uuid.UUID) ([]dto.HistoryItem, error) {
	attempts, err := s.attemptRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}
	latest := LatestAttemptPerQuiz(attempts)
	if len(latest) == 0 {
		return []dto.HistoryItem{}, nil
	}

	fileSet := make(map[uuid.UUID]bool)
	var fileIDs []uuid.UUID
	quizIDs := make([]uuid.UUID, 0, len(latest))
	for _, a := range latest {
		quizIDs = append(quizIDs, a.QuizID)
		if !fileSet[a.Quiz.FileID] {
			fileSet[a.Quiz.FileID] = true
			fileIDs = append(fileIDs, a.Quiz.FileID)
		}
	}

	siblings, err := s.quizRepo.FindByFileIDs(ctx, fileIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}
	byFile := make(map[uuid.UUID][]model.Quiz, len(fileIDs))
	for _, q := range siblings {
		byFile[q.FileID] = append(byFile[q.FileID], q)
	}

	counts, err := s.questionRepo.CountByQuizIDs(ctx, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	items := make([]dto.HistoryItem, 0, len(latest))
	for _, a := range latest {
		section := SectionNumber(byFile[a.Quiz.FileID], a.QuizID)
		items = append(items, dto.HistoryItem{
			QuizID:       a.QuizID,
			Label:        SectionLabel(a.Quiz.File.OriginalName, section),
			Score:        a.Score,
			SubmittedAt:  a.SubmittedAt,
			NumQuestions: counts[a.QuizID],
		})
	}
	return items, nil
}

func (s *dashboardService) QuizAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]dto.AttemptSummary, error) {
	attempts, err := s.attemptRepo.FindAllByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}
	return toAttemptSummaries(attempts), nil
}

func (s *dashboardService) WeeklyScores(ctx context.Context, userID uuid.UUID) ([]dto.WeeklyScore, error) {
	now := s.now().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -weeklyWindowDays)
	attempts, err := s.attemptRepo.FindByUserSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}
	return WeeklyAverages(attempts, now), nil
}
