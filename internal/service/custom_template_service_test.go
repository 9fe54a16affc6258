package service

import (
	"context"
	"testing"

	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/pkg/apperror"
	"physio-notes-be/pkg/template"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() template.CustomTemplateConfig {
	return template.CustomTemplateConfig{
		Subjective: template.SubjectiveConfig{Fields: []template.FieldDef{{ID: "pain", Label: "Pain level", Unit: "/10"}}},
		Plan:       template.PlanConfig{Sections: []template.FieldDef{{ID: "hep", Label: "Home exercise"}}},
	}
}

func TestCustomTemplateCRUD(t *testing.T) {
	store := newMemoryStore()
	svc := NewCustomTemplateService(store)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, &dto.CreateCustomTemplateRequest{Name: "Post-op ACL", Config: sampleConfig()})
	require.NoError(t, err)
	assert.Equal(t, template.CustomPrefix+created.Id.String(), created.TemplateType)
	assert.Equal(t, 2, created.FieldCount)

	cfg := sampleConfig()
	cfg.Objective.Measurements = []template.FieldDef{{ID: "rom", Label: "Knee flexion", Unit: "deg"}}
	updated, err := svc.Update(ctx, userID, &dto.UpdateCustomTemplateRequest{Id: created.Id, Name: "ACL", Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, "ACL", updated.Name)
	assert.Equal(t, 3, updated.FieldCount)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, userID, created.Id))
	_, err = svc.Show(ctx, userID, created.Id)
	assert.Equal(t, 404, apperror.From(err).Status)
}

func TestCustomTemplateCreateValidatesConfig(t *testing.T) {
	svc := NewCustomTemplateService(newMemoryStore())

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateCustomTemplateRequest{Name: "Empty"})
	assert.ErrorIs(t, err, template.ErrInvalidConfig)
	assert.Equal(t, 400, apperror.From(err).Status)
}

func TestLoaderOnlySeesOwnTemplates(t *testing.T) {
	store := newMemoryStore()
	svc := NewCustomTemplateService(store)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, &dto.CreateCustomTemplateRequest{Name: "Mine", Config: sampleConfig()})
	require.NoError(t, err)

	tmpl, err := svc.Loader(owner).GetCustomTemplate(ctx, created.Id)
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	assert.Equal(t, "Mine", tmpl.Name)

	tmpl, err = svc.Loader(uuid.New()).GetCustomTemplate(ctx, created.Id)
	require.NoError(t, err)
	assert.Nil(t, tmpl)
}
