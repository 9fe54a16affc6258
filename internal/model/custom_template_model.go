package model

import (
	"time"

	"physio-notes-be/pkg/template"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CustomTemplate struct {
	Id          uuid.UUID                                         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID                                         `gorm:"type:uuid;not null;index"`
	Name        string                                            `gorm:"type:varchar(255);not null"`
	Description string                                            `gorm:"type:text"`
	Config      datatypes.JSONType[template.CustomTemplateConfig] `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time                                         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                                         `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt                                    `gorm:"index"`
}

func (CustomTemplate) TableName() string {
	return "custom_templates"
}
