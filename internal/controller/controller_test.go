package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/pkg/apperror"
	"physio-notes-be/internal/pkg/serverutils"
	"physio-notes-be/internal/service"
	"physio-notes-be/pkg/flow"
	"physio-notes-be/pkg/soap"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubEncounterService struct {
	created   *dto.CreateEncounterRequest
	listLimit int
	deleted   uuid.UUID
	owner     uuid.UUID
}

func (s *stubEncounterService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateEncounterRequest) (*soap.Encounter, error) {
	s.created = req
	s.owner = userId
	return &soap.Encounter{ID: uuid.New(), TemplateType: req.TemplateType, SessionTitle: req.SessionTitle, Status: soap.StatusDraft}, nil
}

func (s *stubEncounterService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateEncounterRequest) (*soap.Encounter, error) {
	return &soap.Encounter{ID: req.Id, SOAP: req.Soap, Status: req.Status}, nil
}

func (s *stubEncounterService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*soap.Encounter, error) {
	return nil, apperror.NewNotFound("Encounter", id.String())
}

func (s *stubEncounterService) List(ctx context.Context, userId uuid.UUID, limit int) ([]*soap.Encounter, error) {
	s.listLimit = limit
	return []*soap.Encounter{}, nil
}

func (s *stubEncounterService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	s.deleted = id
	return nil
}

func (s *stubEncounterService) Store(userId uuid.UUID) flow.EncounterStore { return nil }

var _ service.IEncounterService = (*stubEncounterService)(nil)

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestApp(register func(r fiber.Router, auth fiber.Handler)) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	register(app.Group("/api"), serverutils.NewTokenVerifier(testSecret).Middleware())
	return app
}

func do(t *testing.T, app *fiber.App, method, target, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestEncounterRoutesRequireToken(t *testing.T) {
	app := newTestApp(NewEncounterController(&stubEncounterService{}).RegisterRoutes)

	status, body := do(t, app, http.MethodGet, "/api/phi/encounters", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])

	status, _ = do(t, app, http.MethodGet, "/api/phi/encounters", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEncounterCreateValidatesAndPassesUser(t *testing.T) {
	svc := &stubEncounterService{}
	app := newTestApp(NewEncounterController(svc).RegisterRoutes)
	userID := uuid.New()
	token := signToken(t, userID)

	status, _ := do(t, app, http.MethodPost, "/api/phi/encounters", token, `{"templateType":"knee"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Nil(t, svc.created)

	status, body := do(t, app, http.MethodPost, "/api/phi/encounters", token, `{"templateType":"knee","sessionTitle":"Initial eval"}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	require.NotNil(t, svc.created)
	assert.Equal(t, "Initial eval", svc.created.SessionTitle)
	assert.Equal(t, userID, svc.owner)
}

func TestEncounterGetDispatchesOnQuery(t *testing.T) {
	svc := &stubEncounterService{}
	app := newTestApp(NewEncounterController(svc).RegisterRoutes)
	token := signToken(t, uuid.New())

	status, _ := do(t, app, http.MethodGet, "/api/phi/encounters", token, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, dto.DefaultEncounterLimit, svc.listLimit)

	status, _ = do(t, app, http.MethodGet, "/api/phi/encounters?limit=5", token, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, svc.listLimit)

	status, body := do(t, app, http.MethodGet, "/api/phi/encounters?id="+uuid.NewString(), token, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])

	status, _ = do(t, app, http.MethodGet, "/api/phi/encounters?id=nope", token, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEncounterDeleteRequiresID(t *testing.T) {
	svc := &stubEncounterService{}
	app := newTestApp(NewEncounterController(svc).RegisterRoutes)
	token := signToken(t, uuid.New())

	status, _ := do(t, app, http.MethodDelete, "/api/phi/encounters", token, "")
	assert.Equal(t, http.StatusBadRequest, status)

	id := uuid.New()
	status, _ = do(t, app, http.MethodDelete, "/api/phi/encounters?id="+id.String(), token, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, svc.deleted)
}

func TestTemplateRoutes(t *testing.T) {
	app := newTestApp(NewTemplateController(service.NewTemplateService()).RegisterRoutes)
	token := signToken(t, uuid.New())

	status, body := do(t, app, http.MethodGet, "/api/templates", token, "")
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["data"])

	status, body = do(t, app, http.MethodPost, "/api/templates/suggest", token, `{"transcript":"pain at the medial joint line after a meniscus twist, positive mcmurray"}`)
	assert.Equal(t, http.StatusOK, status)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "knee", data["templateType"])
}
