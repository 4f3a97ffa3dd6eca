package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/model"
	"gorm.io/gorm"
)

type SourceDocumentRepository interface {
	Create(ctx context.Context, doc *model.SourceDocument) error
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.SourceDocument, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]model.SourceDocument, error)
}

type sourceDocumentRepository struct {
	db *gorm.DB
}

func NewSourceDocumentRepository(db *gorm.DB) SourceDocumentRepository {
	return &sourceDocumentRepository{db: db}
}

func (r *sourceDocumentRepository) Create(ctx context.Context, doc *model.SourceDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *sourceDocumentRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.SourceDocument, error) {
	var doc model.SourceDocument
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&doc).Error
	if err != nil {
		return nil, notFound(err, "file")
	}
	return &doc, nil
}

func (r *sourceDocumentRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]model.SourceDocument, error) {
	var docs []model.SourceDocument
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("uploaded_at DESC").Find(&docs).Error
	return docs, err
}
