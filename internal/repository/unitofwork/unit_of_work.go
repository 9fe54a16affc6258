package unitofwork

import (
	"context"

	"physio-notes-be/internal/repository/contract"
)

// RepositoryFactory hands out a UnitOfWork per request.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

// UnitOfWork groups the repositories. Without Begin every call runs on the
// pool; between Begin and Commit/Rollback they share one transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	EncounterRepository() contract.EncounterRepository
	CustomTemplateRepository() contract.CustomTemplateRepository
}

// InTransaction runs fn inside a transaction on uow, committing when fn
// returns nil and rolling back otherwise.
func InTransaction(ctx context.Context, uow UnitOfWork, fn func() error) (err error) {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback()
			panic(p)
		}
	}()

	if err := fn(); err != nil {
		_ = uow.Rollback()
		return err
	}
	return uow.Commit()
}
