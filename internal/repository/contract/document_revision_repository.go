package contract

import (
	"context"

	"collab-docs-be/internal/entity"
	"collab-docs-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRevisionRepository interface {
	Create(ctx context.Context, rev *entity.DocumentRevision) error
	DeleteAllByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentRevision, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentRevision, error)
}
