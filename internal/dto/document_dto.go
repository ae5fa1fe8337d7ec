package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title      string `json:"title" validate:"required"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=private shared"`
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type DocumentSummary struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Visibility string     `json:"visibility"`
	OwnerId    uuid.UUID  `json:"owner_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type ShowDocumentResponse struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Visibility string     `json:"visibility"`
	OwnerId    uuid.UUID  `json:"owner_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type UpdateDocumentRequest struct {
	Id         uuid.UUID
	Title      string `json:"title" validate:"required"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=private shared"`
}

type UpdateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type SaveContentRequest struct {
	Id      uuid.UUID
	Content string `json:"content" validate:"required"`
}

type SaveContentResponse struct {
	Id      uuid.UUID `json:"id"`
	SavedAt time.Time `json:"saved_at"`
}

// RepaginateRequest carries the serialized document plus the rendered
// height of each page child, keyed by "pageIdx.childIdx".
type RepaginateRequest struct {
	Id      uuid.UUID
	Content string             `json:"content" validate:"required"`
	Heights map[string]float64 `json:"heights" validate:"required"`
}

type RepaginateResponse struct {
	Content string `json:"content"`
	Moved   bool   `json:"moved"`
}

type ExportDocumentResponse struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

// DocumentSavedMessage is the payload published on the revision topic
// after content is persisted.
type DocumentSavedMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
