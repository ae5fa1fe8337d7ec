package implementation

import (
	"context"
	"errors"

	"collab-docs-be/internal/entity"
	"collab-docs-be/internal/mapper"
	"collab-docs-be/internal/model"
	"collab-docs-be/internal/repository/contract"
	"collab-docs-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRevisionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RevisionMapper
}

func NewDocumentRevisionRepository(db *gorm.DB) contract.DocumentRevisionRepository {
	return &DocumentRevisionRepositoryImpl{
		db:     db,
		mapper: mapper.NewRevisionMapper(),
	}
}

func (r *DocumentRevisionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentRevisionRepositoryImpl) Create(ctx context.Context, rev *entity.DocumentRevision) error {
	m := r.mapper.ToModel(rev)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rev = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRevisionRepositoryImpl) DeleteAllByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.DocumentRevision{}).Error
}

func (r *DocumentRevisionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentRevision, error) {
	var m model.DocumentRevision
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRevisionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentRevision, error) {
	var models []*model.DocumentRevision
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
