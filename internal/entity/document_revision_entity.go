package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentRevision is a point-in-time snapshot of a document's content,
// written by the revision worker whenever a save goes through.
type DocumentRevision struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	Content    string
	CreatedAt  time.Time
}
