package phiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"physio-notes-be/pkg/soap"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 300,
		"code":    status,
		"message": http.StatusText(status),
		"data":    data,
	})
}

func TestStoreCreatesThenUpdates(t *testing.T) {
	id := uuid.New()
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer static", r.Header.Get("Authorization"))
		calls = append(calls, r.Method+" "+r.URL.Path)

		switch r.Method {
		case http.MethodPost:
			var body createEncounterRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "knee", body.TemplateType)
			assert.Equal(t, "Test Session", body.SessionTitle)
			writeEnvelope(w, http.StatusCreated, soap.Encounter{ID: id, TemplateType: "knee", SessionTitle: body.SessionTitle, Status: soap.StatusDraft})
		case http.MethodPut:
			var body updateEncounterRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, id, body.Id)
			require.NotNil(t, body.Transcript)
			assert.Equal(t, "patient reports knee pain", *body.Transcript)
			writeEnvelope(w, http.StatusOK, soap.Encounter{ID: id, SOAP: body.Soap, Status: body.Status})
		}
	}))
	defer srv.Close()

	store := New(Config{BaseURL: srv.URL + "/api/", Token: "static"}).EncounterStore()
	created, err := store.Create(context.Background(), "knee", nil, "Test Session")
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)

	doc := &soap.Document{Subjective: soap.TextSection("knee pain")}
	updated, err := store.Update(context.Background(), id, doc, soap.StatusDraft, "patient reports knee pain")
	require.NoError(t, err)
	assert.Equal(t, "knee pain", updated.SOAP.Subjective.Content)

	assert.Equal(t, []string{"POST /api/phi/encounters", "PUT /api/phi/encounters"}, calls)
}

func TestErrorsBecomeAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"code":404,"message":"Encounter not found","kind":"not_found"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "static"})
	_, err := c.GetEncounter(context.Background(), uuid.New())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Encounter not found", apiErr.Message)
	assert.True(t, IsNotFound(err))

	tpl, err := c.GetCustomTemplate(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, tpl)
}

func TestListEncountersRejectsConcurrentFetch(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		close(entered)
		<-release
		writeEnvelope(w, http.StatusOK, []soap.Encounter{})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "static"})
	done := make(chan error, 1)
	go func() {
		_, err := c.ListEncounters(context.Background(), 5)
		done <- err
	}()

	<-entered
	_, err := c.ListEncounters(context.Background(), 5)
	assert.ErrorIs(t, err, ErrFetchInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestPasswordGrantTokenIsCached(t *testing.T) {
	var grants int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/v1/token" {
			atomic.AddInt32(&grants, 1)
			assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
			assert.Equal(t, "anon", r.Header.Get("apikey"))
			_, _ = w.Write([]byte(`{"access_token":"signed-in","expires_in":3600}`))
			return
		}
		assert.Equal(t, "Bearer signed-in", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, []interface{}{})
	}))
	defer srv.Close()

	c := New(Config{
		BaseURL:         srv.URL,
		SupabaseURL:     srv.URL,
		SupabaseAnonKey: "anon",
		Email:           "pt@example.com",
		Password:        "secret",
	})

	_, err := c.ListTemplates(context.Background())
	require.NoError(t, err)
	_, err = c.ListCustomTemplates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&grants))
}

func TestTokenWithoutCredentials(t *testing.T) {
	_, err := New(Config{BaseURL: "http://unused"}).Token(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}
