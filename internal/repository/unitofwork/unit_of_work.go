package unitofwork

import (
	"context"

	"collab-docs-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DocumentRepository() contract.DocumentRepository
	DocumentRevisionRepository() contract.DocumentRevisionRepository
}
