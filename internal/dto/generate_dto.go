package dto

import "github.com/google/uuid"

// GenerateRequest asks the model for content to append to one page of
// the document. PageIndex is clamped to the existing pages.
type GenerateRequest struct {
	DocumentId uuid.UUID
	Prompt     string `json:"prompt" validate:"required"`
	PageIndex  int    `json:"page_index" validate:"min=0"`
}

type GenerateResponse struct {
	Content string `json:"content"`
}
