package service

import (
	"context"
	"time"

	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/entity"
	"physio-notes-be/internal/mapper"
	"physio-notes-be/internal/pkg/apperror"
	"physio-notes-be/internal/repository/specification"
	"physio-notes-be/internal/repository/unitofwork"
	"physio-notes-be/pkg/template"

	"github.com/google/uuid"
)

type ICustomTemplateService interface {
	List(ctx context.Context, userId uuid.UUID) ([]*dto.CustomTemplateResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.CustomTemplateResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCustomTemplateRequest) (*dto.CustomTemplateResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateCustomTemplateRequest) (*dto.CustomTemplateResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	// Loader resolves custom templates for the template manager, scoped to
	// one user.
	Loader(userId uuid.UUID) template.CustomTemplateLoader
}

type customTemplateService struct {
	uowFactory unitofwork.RepositoryFactory
	mapper     *mapper.CustomTemplateMapper
}

func NewCustomTemplateService(uowFactory unitofwork.RepositoryFactory) ICustomTemplateService {
	return &customTemplateService{
		uowFactory: uowFactory,
		mapper:     mapper.NewCustomTemplateMapper(),
	}
}

func (s *customTemplateService) List(ctx context.Context, userId uuid.UUID) ([]*dto.CustomTemplateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	templates, err := uow.CustomTemplateRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CustomTemplateResponse, 0, len(templates))
	for _, t := range templates {
		res = append(res, toCustomTemplateResponse(t))
	}
	return res, nil
}

func (s *customTemplateService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.CustomTemplateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tmpl, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return toCustomTemplateResponse(tmpl), nil
}

func (s *customTemplateService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCustomTemplateRequest) (*dto.CustomTemplateResponse, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	tmpl := entity.CustomTemplate{
		Id:          uuid.New(),
		UserId:      userId,
		Name:        req.Name,
		Description: req.Description,
		Config:      req.Config,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CustomTemplateRepository().Create(ctx, &tmpl); err != nil {
		return nil, err
	}
	return toCustomTemplateResponse(&tmpl), nil
}

func (s *customTemplateService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateCustomTemplateRequest) (*dto.CustomTemplateResponse, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	tmpl, err := s.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	tmpl.Name = req.Name
	tmpl.Description = req.Description
	tmpl.Config = req.Config
	now := time.Now()
	tmpl.UpdatedAt = &now

	if err := uow.CustomTemplateRepository().Update(ctx, tmpl); err != nil {
		return nil, err
	}
	return toCustomTemplateResponse(tmpl), nil
}

// Delete soft-deletes the template. Encounters generated from it keep their
// templateType and stay readable.
func (s *customTemplateService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tmpl, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	return uow.CustomTemplateRepository().Delete(ctx, tmpl.Id)
}

func (s *customTemplateService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.CustomTemplate, error) {
	tmpl, err := uow.CustomTemplateRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, apperror.NewNotFound("custom template", id.String())
	}
	return tmpl, nil
}

func (s *customTemplateService) Loader(userId uuid.UUID) template.CustomTemplateLoader {
	return &userTemplateLoader{svc: s, userId: userId}
}

type userTemplateLoader struct {
	svc    *customTemplateService
	userId uuid.UUID
}

// GetCustomTemplate returns nil, nil for templates the user does not own.
func (l *userTemplateLoader) GetCustomTemplate(ctx context.Context, id uuid.UUID) (*template.CustomTemplate, error) {
	uow := l.svc.uowFactory.NewUnitOfWork(ctx)
	tmpl, err := uow.CustomTemplateRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: l.userId},
	)
	if err != nil {
		return nil, err
	}
	return l.svc.mapper.ToDomain(tmpl), nil
}

func toCustomTemplateResponse(t *entity.CustomTemplate) *dto.CustomTemplateResponse {
	res := &dto.CustomTemplateResponse{
		Id:          t.Id,
		Name:        t.Name,
		Description: t.Description,
		Config:      t.Config,
		FieldCount:  t.Config.FieldCount(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	res.TemplateType = template.CustomPrefix + t.Id.String()
	return res
}
