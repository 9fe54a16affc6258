package contract

import (
	"context"

	"physio-notes-be/internal/entity"
	"physio-notes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EncounterRepository interface {
	Create(ctx context.Context, encounter *entity.Encounter) error
	Update(ctx context.Context, encounter *entity.Encounter) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Encounter, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Encounter, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
