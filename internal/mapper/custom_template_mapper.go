package mapper

import (
	"physio-notes-be/internal/entity"
	"physio-notes-be/internal/model"
	"physio-notes-be/pkg/template"

	"gorm.io/datatypes"
)

type CustomTemplateMapper struct{}

func NewCustomTemplateMapper() *CustomTemplateMapper {
	return &CustomTemplateMapper{}
}

func (m *CustomTemplateMapper) ToEntity(t *model.CustomTemplate) *entity.CustomTemplate {
	if t == nil {
		return nil
	}

	return &entity.CustomTemplate{
		Id:          t.Id,
		UserId:      t.UserId,
		Name:        t.Name,
		Description: t.Description,
		Config:      t.Config.Data(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   updatedAtPtr(t.UpdatedAt),
		DeletedAt:   deletedAtPtr(t.DeletedAt),
		IsDeleted:   t.DeletedAt.Valid,
	}
}

func (m *CustomTemplateMapper) ToModel(t *entity.CustomTemplate) *model.CustomTemplate {
	if t == nil {
		return nil
	}

	return &model.CustomTemplate{
		Id:          t.Id,
		UserId:      t.UserId,
		Name:        t.Name,
		Description: t.Description,
		Config:      datatypes.NewJSONType(t.Config),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   derefTime(t.UpdatedAt),
		DeletedAt:   toDeletedAt(t.DeletedAt, t.IsDeleted),
	}
}

func (m *CustomTemplateMapper) ToEntities(templates []*model.CustomTemplate) []*entity.CustomTemplate {
	entities := make([]*entity.CustomTemplate, len(templates))
	for i, t := range templates {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

func (m *CustomTemplateMapper) ToDomain(t *entity.CustomTemplate) *template.CustomTemplate {
	if t == nil {
		return nil
	}
	return &template.CustomTemplate{
		ID:          t.Id,
		Name:        t.Name,
		Description: t.Description,
		Config:      t.Config,
	}
}
