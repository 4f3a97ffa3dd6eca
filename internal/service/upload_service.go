package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/extractor"
	"github.com/lshigami/nexera-quiz/internal/model"
	"github.com/lshigami/nexera-quiz/internal/repository"
	"github.com/lshigami/nexera-quiz/internal/storage"
	"github.com/lshigami/nexera-quiz/internal/tracing"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// UploadService runs the upload workflow: extract, store, generate,
// normalize, persist.
type UploadService interface {
	Upload(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*dto.UploadResponse, error)
}

type uploadService struct {
	fileStorage storage.FileStorage
	docRepo     repository.SourceDocumentRepository
	generator   QuizGenerationService
	normalizer  QuestionNormalizer
	persistence QuizPersistenceService
}

func NewUploadService(
	fileStorage storage.FileStorage,
	docRepo repository.SourceDocumentRepository,
	generator QuizGenerationService,
	normalizer QuestionNormalizer,
	persistence QuizPersistenceService,
) UploadService {
	return &uploadService{
		fileStorage: fileStorage,
		docRepo:     docRepo,
		generator:   generator,
		normalizer:  normalizer,
		persistence: persistence,
	}
}

func (s *uploadService) Upload(ctx context.Context, userID uuid.UUID, filename string, data []byte) (resp *dto.UploadResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "quiz.Upload")
	defer func() { tracing.EndSpan(span, err) }()

	kind, ext, err := extractor.DetectType(filename)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("document.type", string(kind)), attribute.Int("document.bytes", len(data)))

	text, err := extractor.Extract(data, kind)
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("Upload: extraction failed")
		return nil, err
	}

	storedName := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	if _, err := s.fileStorage.Save(ctx, storedName, data, kind.ContentType()); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	doc := &model.SourceDocument{
		UserID:       userID,
		Filename:     storedName,
		OriginalName: filename,
		FileType:     string(kind),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}
	log.Info().Str("fileID", doc.ID.String()).Str("type", doc.FileType).Int("chars", len(text)).Msg("Upload stored")

	raw, err := s.generator.GenerateFull(ctx, text)
	if err != nil {
		return nil, err
	}
	items, err := s.normalizer.Normalize(ctx, raw)
	if err != nil {
		return nil, err
	}
	quiz, err := s.persistence.PersistQuiz(ctx, doc.ID, items)
	if err != nil {
		return nil, err
	}

	return &dto.UploadResponse{
		QuizID:    quiz.ID,
		FileID:    doc.ID,
		Questions: toQuestionResponses(quiz.Questions),
	}, nil
}
