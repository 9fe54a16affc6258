package service

import (
	"context"
	"testing"
	"time"

	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/entity"
	"physio-notes-be/internal/pkg/apperror"
	"physio-notes-be/internal/pkg/logger"
	"physio-notes-be/pkg/events"
	"physio-notes-be/pkg/soap"
	"physio-notes-be/pkg/template"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEncounterServiceForTest() (IEncounterService, *memoryStore, *recordingPublisher) {
	store := newMemoryStore()
	pub := &recordingPublisher{}
	return NewEncounterService(store, pub, logger.NewNopLogger()), store, pub
}

func TestEncounterCreateStartsEmptyDraft(t *testing.T) {
	svc, _, pub := newEncounterServiceForTest()
	userID := uuid.New()

	enc, err := svc.Create(context.Background(), userID, &dto.CreateEncounterRequest{
		TemplateType: " Knee ",
		SessionTitle: "Initial eval",
	})
	require.NoError(t, err)
	assert.Equal(t, "knee", enc.TemplateType)
	assert.Equal(t, soap.StatusDraft, enc.Status)
	require.NotNil(t, enc.SOAP)
	assert.True(t, enc.SOAP.IsEmpty())
	assert.Equal(t, []string{events.EncounterCreated}, pub.Types())
}

func TestEncounterCreateRejectsUnknownAndMismatchedTemplates(t *testing.T) {
	svc, _, _ := newEncounterServiceForTest()
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, &dto.CreateEncounterRequest{TemplateType: "spleen", SessionTitle: "x"})
	assert.Equal(t, 400, apperror.From(err).Status)

	other := uuid.New()
	_, err = svc.Create(context.Background(), userID, &dto.CreateEncounterRequest{
		TemplateType:     "knee",
		CustomTemplateId: &other,
		SessionTitle:     "x",
	})
	assert.Equal(t, 400, apperror.From(err).Status)

	_, err = svc.Create(context.Background(), userID, &dto.CreateEncounterRequest{
		TemplateType: template.CustomPrefix + other.String(),
		SessionTitle: "x",
	})
	assert.Equal(t, 404, apperror.From(err).Status)
}

func TestEncounterUpdateFinalizesOnce(t *testing.T) {
	svc, _, pub := newEncounterServiceForTest()
	ctx := context.Background()
	userID := uuid.New()

	enc, err := svc.Create(ctx, userID, &dto.CreateEncounterRequest{TemplateType: "shoulder", SessionTitle: "Follow-up"})
	require.NoError(t, err)

	doc := &soap.Document{Subjective: soap.TextSection("<p>shoulder pain</p>")}
	transcript := "patient reports shoulder pain"
	updated, err := svc.Update(ctx, userID, &dto.UpdateEncounterRequest{Id: enc.ID, Soap: doc, Transcript: &transcript})
	require.NoError(t, err)
	assert.Equal(t, soap.StatusDraft, updated.Status)
	assert.Equal(t, transcript, updated.Transcript)
	assert.NotNil(t, updated.UpdatedAt)

	_, err = svc.Update(ctx, userID, &dto.UpdateEncounterRequest{Id: enc.ID, Soap: doc, Status: soap.StatusFinal})
	require.NoError(t, err)
	final, err := svc.Update(ctx, userID, &dto.UpdateEncounterRequest{Id: enc.ID, Soap: doc, Status: soap.StatusFinal})
	require.NoError(t, err)

	assert.Equal(t, transcript, final.Transcript, "omitted transcript is kept")
	assert.Equal(t, []string{events.EncounterCreated, events.EncounterFinalized}, pub.Types())
}

func TestEncountersAreScopedToOwner(t *testing.T) {
	svc, _, _ := newEncounterServiceForTest()
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	enc, err := svc.Create(ctx, owner, &dto.CreateEncounterRequest{TemplateType: "hip", SessionTitle: "x"})
	require.NoError(t, err)

	_, err = svc.Show(ctx, stranger, enc.ID)
	assert.Equal(t, 404, apperror.From(err).Status)
	_, err = svc.Update(ctx, stranger, &dto.UpdateEncounterRequest{Id: enc.ID, Soap: &soap.Document{}})
	assert.Equal(t, 404, apperror.From(err).Status)
	assert.Equal(t, 404, apperror.From(svc.Delete(ctx, stranger, enc.ID)).Status)

	list, err := svc.List(ctx, stranger, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEncounterListNewestFirstWithClampedLimit(t *testing.T) {
	svc, store, _ := newEncounterServiceForTest()
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 105; i++ {
		id := uuid.New()
		store.encounters[id] = &entity.Encounter{
			Id:           id,
			UserId:       userID,
			TemplateType: "knee",
			SessionTitle: "s",
			Status:       soap.StatusDraft,
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}
	}

	list, err := svc.List(ctx, userID, 0)
	require.NoError(t, err)
	assert.Len(t, list, dto.DefaultEncounterLimit)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	list, err = svc.List(ctx, userID, 500)
	require.NoError(t, err)
	assert.Len(t, list, dto.MaxEncounterLimit)
}

func TestEncounterDeleteHidesRow(t *testing.T) {
	svc, _, pub := newEncounterServiceForTest()
	ctx := context.Background()
	userID := uuid.New()

	enc, err := svc.Create(ctx, userID, &dto.CreateEncounterRequest{TemplateType: "general", SessionTitle: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, userID, enc.ID))

	_, err = svc.Show(ctx, userID, enc.ID)
	assert.Equal(t, 404, apperror.From(err).Status)
	assert.Contains(t, pub.Types(), events.EncounterDeleted)
}
