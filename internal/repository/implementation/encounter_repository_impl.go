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

type EncounterRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EncounterMapper
}

func NewEncounterRepository(db *gorm.DB) contract.EncounterRepository {
	return &EncounterRepositoryImpl{
		db:     db,
		mapper: mapper.NewEncounterMapper(),
	}
}

func (r *EncounterRepositoryImpl) Create(ctx context.Context, encounter *entity.Encounter) error {
	m := r.mapper.ToModel(encounter)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*encounter = *r.mapper.ToEntity(m)
	return nil
}

func (r *EncounterRepositoryImpl) Update(ctx context.Context, encounter *entity.Encounter) error {
	m := r.mapper.ToModel(encounter)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*encounter = *r.mapper.ToEntity(m)
	return nil
}

func (r *EncounterRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Encounter{}, id).Error
}

func (r *EncounterRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Encounter, error) {
	var m model.Encounter
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EncounterRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Encounter, error) {
	var models []*model.Encounter
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *EncounterRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.Encounter{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
