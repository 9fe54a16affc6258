package mapper

import (
	"physio-notes-be/internal/entity"
	"physio-notes-be/internal/model"
	"physio-notes-be/pkg/soap"

	"gorm.io/datatypes"
)

type EncounterMapper struct{}

func NewEncounterMapper() *EncounterMapper {
	return &EncounterMapper{}
}

func (m *EncounterMapper) ToEntity(e *model.Encounter) *entity.Encounter {
	if e == nil {
		return nil
	}

	return &entity.Encounter{
		Id:               e.Id,
		UserId:           e.UserId,
		TemplateType:     e.TemplateType,
		CustomTemplateId: e.CustomTemplateId,
		SessionTitle:     e.SessionTitle,
		Soap:             e.Soap.Data(),
		Transcript:       e.Transcript,
		Status:           soap.Status(e.Status),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        updatedAtPtr(e.UpdatedAt),
		DeletedAt:        deletedAtPtr(e.DeletedAt),
		IsDeleted:        e.DeletedAt.Valid,
	}
}

func (m *EncounterMapper) ToModel(e *entity.Encounter) *model.Encounter {
	if e == nil {
		return nil
	}

	status := e.Status
	if status == "" {
		status = soap.StatusDraft
	}

	return &model.Encounter{
		Id:               e.Id,
		UserId:           e.UserId,
		TemplateType:     e.TemplateType,
		CustomTemplateId: e.CustomTemplateId,
		SessionTitle:     e.SessionTitle,
		Soap:             datatypes.NewJSONType(e.Soap),
		Transcript:       e.Transcript,
		Status:           string(status),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        derefTime(e.UpdatedAt),
		DeletedAt:        toDeletedAt(e.DeletedAt, e.IsDeleted),
	}
}

func (m *EncounterMapper) ToEntities(encounters []*model.Encounter) []*entity.Encounter {
	entities := make([]*entity.Encounter, len(encounters))
	for i, e := range encounters {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

// ToDomain strips ownership and deletion bookkeeping for API responses.
func (m *EncounterMapper) ToDomain(e *entity.Encounter) *soap.Encounter {
	if e == nil {
		return nil
	}
	doc := e.Soap
	return &soap.Encounter{
		ID:               e.Id,
		TemplateType:     e.TemplateType,
		CustomTemplateID: e.CustomTemplateId,
		SessionTitle:     e.SessionTitle,
		SOAP:             &doc,
		Transcript:       e.Transcript,
		Status:           e.Status,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func (m *EncounterMapper) ToDomains(encounters []*entity.Encounter) []*soap.Encounter {
	out := make([]*soap.Encounter, len(encounters))
	for i, e := range encounters {
		out[i] = m.ToDomain(e)
	}
	return out
}
