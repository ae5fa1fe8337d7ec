package model

import (
	"time"

	"github.com/google/uuid"
)

type DocumentRevision struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID `gorm:"type:uuid;not null;index"`
	Content    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (DocumentRevision) TableName() string {
	return "document_revisions"
}
