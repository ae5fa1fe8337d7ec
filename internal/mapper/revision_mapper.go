package mapper

import (
	"collab-docs-be/internal/entity"
	"collab-docs-be/internal/model"
)

type RevisionMapper struct{}

func NewRevisionMapper() *RevisionMapper {
	return &RevisionMapper{}
}

func (m *RevisionMapper) ToEntity(r *model.DocumentRevision) *entity.DocumentRevision {
	if r == nil {
		return nil
	}
	return &entity.DocumentRevision{
		Id:         r.Id,
		DocumentId: r.DocumentId,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *RevisionMapper) ToModel(r *entity.DocumentRevision) *model.DocumentRevision {
	if r == nil {
		return nil
	}
	return &model.DocumentRevision{
		Id:         r.Id,
		DocumentId: r.DocumentId,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *RevisionMapper) ToEntities(revs []*model.DocumentRevision) []*entity.DocumentRevision {
	entities := make([]*entity.DocumentRevision, len(revs))
	for i, r := range revs {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
