package implementation

import (
	"context"
	"errors"

	"physio-notes-be/internal/entity"
	"physio-notes-be/internal/mapper"
	"physio-notes-be/internal/model"
	"physio-notes-be/internal/repository/contract"
	"physio-notes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomTemplateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CustomTemplateMapper
}

func NewCustomTemplateRepository(db *gorm.DB) contract.CustomTemplateRepository {
	return &CustomTemplateRepositoryImpl{
		db:     db,
		mapper: mapper.NewCustomTemplateMapper(),
	}
}

func (r *CustomTemplateRepositoryImpl) Create(ctx context.Context, tmpl *entity.CustomTemplate) error {
	m := r.mapper.ToModel(tmpl)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tmpl = *r.mapper.ToEntity(m)
	return nil
}

func (r *CustomTemplateRepositoryImpl) Update(ctx context.Context, tmpl *entity.CustomTemplate) error {
	m := r.mapper.ToModel(tmpl)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*tmpl = *r.mapper.ToEntity(m)
	return nil
}

func (r *CustomTemplateRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CustomTemplate{}, id).Error
}

func (r *CustomTemplateRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CustomTemplate, error) {
	var m model.CustomTemplate
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CustomTemplateRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CustomTemplate, error) {
	var models []*model.CustomTemplate
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
