package specification

import (
	"physio-notes-be/pkg/soap"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByStatus struct {
	Status soap.Status
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

type ByTemplateType struct {
	TemplateType string
}

func (s ByTemplateType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("template_type = ?", s.TemplateType)
}

type ByCustomTemplateID struct {
	CustomTemplateID uuid.UUID
}

func (s ByCustomTemplateID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("custom_template_id = ?", s.CustomTemplateID)
}

// NewestFirst orders encounters for the note list. id breaks ties between
// rows created in the same instant.
func NewestFirst() []Specification {
	return []Specification{
		OrderBy{Field: "created_at", Desc: true},
		OrderBy{Field: "id", Desc: true},
	}
}
