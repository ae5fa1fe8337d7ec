package service

import (
	"context"

	"collab-docs-be/internal/dto"
	"collab-docs-be/internal/pkg/serverutils"
	"collab-docs-be/internal/repository/specification"
	"collab-docs-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IRevisionService interface {
	List(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) ([]*dto.RevisionSummary, error)
	Show(ctx context.Context, userId uuid.UUID, documentId, revisionId uuid.UUID) (*dto.ShowRevisionResponse, error)
	PurgeForDocument(ctx context.Context, documentId uuid.UUID) error
}

type revisionService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewRevisionService(uowFactory unitofwork.RepositoryFactory) IRevisionService {
	return &revisionService{
		uowFactory: uowFactory,
	}
}

// verifyAccess checks the caller can read the owning document before
// exposing its history.
func (s *revisionService) verifyAccess(ctx context.Context, uow unitofwork.UnitOfWork, userId, documentId uuid.UUID) error {
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.AccessibleBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return serverutils.ErrNotFound
	}
	return nil
}

func (s *revisionService) List(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) ([]*dto.RevisionSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.verifyAccess(ctx, uow, userId, documentId); err != nil {
		return nil, err
	}

	revs, err := uow.DocumentRevisionRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: documentId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]*dto.RevisionSummary, len(revs))
	for i, rev := range revs {
		summaries[i] = &dto.RevisionSummary{
			Id:        rev.Id,
			CreatedAt: rev.CreatedAt,
		}
	}
	return summaries, nil
}

func (s *revisionService) Show(ctx context.Context, userId uuid.UUID, documentId, revisionId uuid.UUID) (*dto.ShowRevisionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.verifyAccess(ctx, uow, userId, documentId); err != nil {
		return nil, err
	}

	rev, err := uow.DocumentRevisionRepository().FindOne(ctx,
		specification.ByID{ID: revisionId},
		specification.ByDocumentID{DocumentID: documentId},
	)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, serverutils.ErrNotFound
	}

	return &dto.ShowRevisionResponse{
		Id:         rev.Id,
		DocumentId: rev.DocumentId,
		Content:    rev.Content,
		CreatedAt:  rev.CreatedAt,
	}, nil
}

// PurgeForDocument removes every stored revision of a document. Invoked by the
// DOCUMENT_DELETED consumer so history does not outlive the document itself.
func (s *revisionService) PurgeForDocument(ctx context.Context, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentRevisionRepository().DeleteAllByDocumentId(ctx, documentId)
}
