package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/extractor"
	"github.com/lshigami/nexera-quiz/internal/repository"
	"github.com/lshigami/nexera-quiz/internal/storage"
	"github.com/lshigami/nexera-quiz/internal/tracing"
	"github.com/rs/zerolog/log"
)

// SectionService manages the quizzes ("sections") generated from one file.
type SectionService interface {
	ListSections(ctx context.Context, userID, fileID uuid.UUID) ([]dto.SectionResponse, error)
	GenerateMore(ctx context.Context, userID, fileID uuid.UUID) (*dto.GenerateSectionResponse, error)
}

type sectionService struct {
	fileStorage  storage.FileStorage
	docRepo      repository.SourceDocumentRepository
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	generator    QuizGenerationService
	normalizer   QuestionNormalizer
	persistence  QuizPersistenceService
}

func NewSectionService(
	fileStorage storage.FileStorage,
	docRepo repository.SourceDocumentRepository,
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	generator QuizGenerationService,
	normalizer QuestionNormalizer,
	persistence QuizPersistenceService,
) SectionService {
	return &sectionService{
		fileStorage:  fileStorage,
		docRepo:      docRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		generator:    generator,
		normalizer:   normalizer,
		persistence:  persistence,
	}
}

func (s *sectionService) ListSections(ctx context.Context, userID, fileID uuid.UUID) ([]dto.SectionResponse, error) {
	if _, err := s.docRepo.FindByIDForUser(ctx, fileID, userID); err != nil {
		return nil, err
	}
	quizzes, err := s.quizRepo.FindByFileID(ctx, fileID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}
	sections := make([]dto.SectionResponse, 0, len(quizzes))
	for i, q := range quizzes {
		sections = append(sections, dto.SectionResponse{
			QuizID:        q.ID,
			SectionNumber: i + 1,
			CreatedAt:     q.CreatedAt,
			Questions:     toQuestionResponses(q.Questions),
		})
	}
	return sections, nil
}

// GenerateMore re-reads the stored document and asks for questions that do
// not repeat the ones already generated for it.
func (s *sectionService) GenerateMore(ctx context.Context, userID, fileID uuid.UUID) (resp *dto.GenerateSectionResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "quiz.GenerateMore")
	defer func() { tracing.EndSpan(span, err) }()

	doc, err := s.docRepo.FindByIDForUser(ctx, fileID, userID)
	if err != nil {
		return nil, err
	}
	data, err := s.fileStorage.Read(ctx, doc.Filename)
	if err != nil {
		log.Error().Err(err).Str("fileID", fileID.String()).Msg("GenerateMore: stored file unreadable")
		return nil, fmt.Errorf("failed to read stored file: %w", err)
	}
	text, err := extractor.Extract(data, extractor.DocumentType(doc.FileType))
	if err != nil {
		return nil, err
	}

	prior, err := s.questionRepo.FindTextsByFileID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior questions: %w", err)
	}

	raw, err := s.generator.GenerateIncremental(ctx, text, prior)
	if err != nil {
		return nil, err
	}
	items, err := s.normalizer.Normalize(ctx, raw)
	if err != nil {
		return nil, err
	}
	quiz, err := s.persistence.PersistQuiz(ctx, fileID, items)
	if err != nil {
		return nil, err
	}

	sections, err := s.quizRepo.FindByFileID(ctx, fileID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}
	section := SectionNumber(sections, quiz.ID)
	log.Info().Str("fileID", fileID.String()).Int("section", section).Int("prior", len(prior)).Msg("Section generated")

	return &dto.GenerateSectionResponse{
		QuizID:        quiz.ID,
		FileID:        fileID,
		SectionNumber: section,
		Questions:     toQuestionResponses(quiz.Questions),
	}, nil
}
