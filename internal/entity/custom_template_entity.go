package entity

import (
	"time"

	"physio-notes-be/pkg/template"

	"github.com/google/uuid"
)

type CustomTemplate struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Name        string
	Description string
	Config      template.CustomTemplateConfig
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
