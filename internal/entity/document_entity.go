package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentVisibility string

const (
	DocumentVisibilityPrivate DocumentVisibility = "private"
	DocumentVisibilityShared  DocumentVisibility = "shared"
)

// Document is one paginated document. Content holds the serialized
// page trees as a JSON array; the tree packages own its shape.
type Document struct {
	Id         uuid.UUID
	Title      string
	Content    string
	Visibility DocumentVisibility
	OwnerId    uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
