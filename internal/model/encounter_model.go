package model

import (
	"time"

	"physio-notes-be/pkg/soap"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Encounter struct {
	Id               uuid.UUID                         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID                         `gorm:"type:uuid;not null;index:idx_encounters_user_created,priority:1"`
	TemplateType     string                            `gorm:"type:varchar(64);not null"`
	CustomTemplateId *uuid.UUID                        `gorm:"type:uuid;index"`
	SessionTitle     string                            `gorm:"type:varchar(255);not null"`
	Soap             datatypes.JSONType[soap.Document] `gorm:"type:jsonb;not null"`
	Transcript       string                            `gorm:"type:text"`
	Status           string                            `gorm:"type:varchar(16);not null;default:'draft'"`
	CreatedAt        time.Time                         `gorm:"autoCreateTime;index:idx_encounters_user_created,priority:2,sort:desc"`
	UpdatedAt        time.Time                         `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt                    `gorm:"index"`
}

func (Encounter) TableName() string {
	return "encounters"
}
