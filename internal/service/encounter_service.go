package service

import (
	"context"
	"time"

	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/entity"
	"physio-notes-be/internal/mapper"
	"physio-notes-be/internal/pkg/apperror"
	"physio-notes-be/internal/pkg/logger"
	"physio-notes-be/internal/repository/specification"
	"physio-notes-be/internal/repository/unitofwork"
	"physio-notes-be/pkg/events"
	"physio-notes-be/pkg/flow"
	"physio-notes-be/pkg/soap"
	"physio-notes-be/pkg/template"

	"github.com/google/uuid"
)

type IEncounterService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateEncounterRequest) (*soap.Encounter, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateEncounterRequest) (*soap.Encounter, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*soap.Encounter, error)
	List(ctx context.Context, userId uuid.UUID, limit int) ([]*soap.Encounter, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	// Store binds the service to one user for the recording flow.
	Store(userId uuid.UUID) flow.EncounterStore
}

type encounterService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	mapper         *mapper.EncounterMapper
	logger         logger.ILogger
}

func NewEncounterService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IEncounterService {
	return &encounterService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		mapper:         mapper.NewEncounterMapper(),
		logger:         log,
	}
}

func (s *encounterService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateEncounterRequest) (*soap.Encounter, error) {
	key, customID, err := template.ParseTemplateType(req.TemplateType)
	if err != nil {
		return nil, apperror.NewInvalidRequest("Unknown template type: " + req.TemplateType)
	}
	templateType := key
	if customID != nil {
		templateType = template.CustomPrefix + customID.String()
		if req.CustomTemplateId != nil && *req.CustomTemplateId != *customID {
			return nil, apperror.NewInvalidRequest("customTemplateId does not match templateType")
		}
	} else if req.CustomTemplateId != nil {
		return nil, apperror.NewInvalidRequest("customTemplateId requires a custom templateType")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if customID != nil {
		tmpl, err := uow.CustomTemplateRepository().FindOne(ctx,
			specification.ByID{ID: *customID},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if tmpl == nil {
			return nil, apperror.NewNotFound("custom template", customID.String())
		}
	}

	encounter := entity.Encounter{
		Id:               uuid.New(),
		UserId:           userId,
		TemplateType:     templateType,
		CustomTemplateId: customID,
		SessionTitle:     req.SessionTitle,
		Status:           soap.StatusDraft,
		CreatedAt:        time.Now(),
	}
	if err := uow.EncounterRepository().Create(ctx, &encounter); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EncounterCreated, &encounter)
	return s.mapper.ToDomain(&encounter), nil
}

func (s *encounterService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateEncounterRequest) (*soap.Encounter, error) {
	if req.Soap == nil {
		return nil, apperror.NewInvalidRequest("soap is required")
	}

	var encounter *entity.Encounter
	var wasFinal bool
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := unitofwork.InTransaction(ctx, uow, func() error {
		found, err := s.findOwned(ctx, uow, userId, req.Id, specification.ForUpdate{})
		if err != nil {
			return err
		}

		wasFinal = found.Status == soap.StatusFinal
		found.Soap = *req.Soap
		if req.Status != "" {
			found.Status = req.Status
		}
		if req.Transcript != nil {
			found.Transcript = *req.Transcript
		}
		now := time.Now()
		found.UpdatedAt = &now

		if err := uow.EncounterRepository().Update(ctx, found); err != nil {
			return err
		}
		encounter = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !wasFinal && encounter.Status == soap.StatusFinal {
		s.publish(ctx, events.EncounterFinalized, encounter)
	}
	return s.mapper.ToDomain(encounter), nil
}

func (s *encounterService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*soap.Encounter, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	encounter, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToDomain(encounter), nil
}

// List returns the user's encounters, newest first. limit is clamped to
// [1, MaxEncounterLimit]; zero means the default page size.
func (s *encounterService) List(ctx context.Context, userId uuid.UUID, limit int) ([]*soap.Encounter, error) {
	switch {
	case limit <= 0:
		limit = dto.DefaultEncounterLimit
	case limit > dto.MaxEncounterLimit:
		limit = dto.MaxEncounterLimit
	}

	specs := []specification.Specification{specification.OwnedBy{UserID: userId}}
	specs = append(specs, specification.NewestFirst()...)
	specs = append(specs, specification.Pagination{Limit: limit})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	encounters, err := uow.EncounterRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToDomains(encounters), nil
}

func (s *encounterService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	encounter, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if err := uow.EncounterRepository().Delete(ctx, encounter.Id); err != nil {
		return err
	}
	s.publish(ctx, events.EncounterDeleted, encounter)
	return nil
}

func (s *encounterService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID, extra ...specification.Specification) (*entity.Encounter, error) {
	specs := append([]specification.Specification{
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	}, extra...)
	encounter, err := uow.EncounterRepository().FindOne(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if encounter == nil {
		return nil, apperror.NewNotFound("encounter", id.String())
	}
	return encounter, nil
}

// publish is best effort; the bus being down never fails a write.
func (s *encounterService) publish(ctx context.Context, eventType string, e *entity.Encounter) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewEncounterEvent(eventType, e.Id.String(), e.UserId.String(), e.TemplateType)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("EncounterService", "Failed to publish event", map[string]interface{}{
			"type":         eventType,
			"encounter_id": e.Id.String(),
			"error":        err.Error(),
		})
	}
}

func (s *encounterService) Store(userId uuid.UUID) flow.EncounterStore {
	return &userEncounterStore{svc: s, userId: userId}
}

type userEncounterStore struct {
	svc    *encounterService
	userId uuid.UUID
}

func (u *userEncounterStore) Create(ctx context.Context, templateType string, customTemplateID *uuid.UUID, title string) (*soap.Encounter, error) {
	return u.svc.Create(ctx, u.userId, &dto.CreateEncounterRequest{
		TemplateType:     templateType,
		CustomTemplateId: customTemplateID,
		SessionTitle:     title,
	})
}

func (u *userEncounterStore) Update(ctx context.Context, id uuid.UUID, doc *soap.Document, status soap.Status, transcript string) (*soap.Encounter, error) {
	return u.svc.Update(ctx, u.userId, &dto.UpdateEncounterRequest{
		Id:         id,
		Soap:       doc,
		Status:     status,
		Transcript: &transcript,
	})
}

func (u *userEncounterStore) Get(ctx context.Context, id uuid.UUID) (*soap.Encounter, error) {
	return u.svc.Show(ctx, u.userId, id)
}
