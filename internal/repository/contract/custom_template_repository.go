package contract

import (
	"context"

	"physio-notes-be/internal/entity"
	"physio-notes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CustomTemplateRepository interface {
	Create(ctx context.Context, tmpl *entity.CustomTemplate) error
	Update(ctx context.Context, tmpl *entity.CustomTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CustomTemplate, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CustomTemplate, error)
}
