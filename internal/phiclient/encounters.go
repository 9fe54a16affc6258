package phiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"physio-notes-be/pkg/flow"
	"physio-notes-be/pkg/soap"

	"github.com/google/uuid"
)

type createEncounterRequest struct {
	TemplateType     string     `json:"templateType"`
	CustomTemplateId *uuid.UUID `json:"customTemplateId,omitempty"`
	SessionTitle     string     `json:"sessionTitle"`
}

type updateEncounterRequest struct {
	Id         uuid.UUID      `json:"id"`
	Soap       *soap.Document `json:"soap"`
	Status     soap.Status    `json:"status,omitempty"`
	Transcript *string        `json:"transcript,omitempty"`
}

func (c *Client) CreateEncounter(ctx context.Context, templateType string, customTemplateID *uuid.UUID, title string) (*soap.Encounter, error) {
	var enc soap.Encounter
	err := c.do(ctx, http.MethodPost, "/phi/encounters", nil, createEncounterRequest{
		TemplateType:     templateType,
		CustomTemplateId: customTemplateID,
		SessionTitle:     title,
	}, &enc)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}

func (c *Client) UpdateEncounter(ctx context.Context, id uuid.UUID, doc *soap.Document, status soap.Status, transcript string) (*soap.Encounter, error) {
	req := updateEncounterRequest{Id: id, Soap: doc, Status: status}
	if transcript != "" {
		req.Transcript = &transcript
	}

	var enc soap.Encounter
	if err := c.do(ctx, http.MethodPut, "/phi/encounters", nil, req, &enc); err != nil {
		return nil, err
	}
	return &enc, nil
}

func (c *Client) GetEncounter(ctx context.Context, id uuid.UUID) (*soap.Encounter, error) {
	var enc soap.Encounter
	if err := c.do(ctx, http.MethodGet, "/phi/encounters", url.Values{"id": {id.String()}}, nil, &enc); err != nil {
		return nil, err
	}
	return &enc, nil
}

// ListEncounters returns the newest encounters. A call made while another is
// in flight fails with ErrFetchInProgress.
func (c *Client) ListEncounters(ctx context.Context, limit int) ([]*soap.Encounter, error) {
	if !c.fetching.CompareAndSwap(false, true) {
		return nil, ErrFetchInProgress
	}
	defer c.fetching.Store(false)

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var list []*soap.Encounter
	if err := c.do(ctx, http.MethodGet, "/phi/encounters", query, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) DeleteEncounter(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/phi/encounters", url.Values{"id": {id.String()}}, nil, nil)
}

// EncounterStore adapts the client to the recording flow.
func (c *Client) EncounterStore() flow.EncounterStore {
	return encounterStore{c: c}
}

type encounterStore struct {
	c *Client
}

func (s encounterStore) Create(ctx context.Context, templateType string, customTemplateID *uuid.UUID, title string) (*soap.Encounter, error) {
	return s.c.CreateEncounter(ctx, templateType, customTemplateID, title)
}

func (s encounterStore) Update(ctx context.Context, id uuid.UUID, doc *soap.Document, status soap.Status, transcript string) (*soap.Encounter, error) {
	return s.c.UpdateEncounter(ctx, id, doc, status, transcript)
}

func (s encounterStore) Get(ctx context.Context, id uuid.UUID) (*soap.Encounter, error) {
	return s.c.GetEncounter(ctx, id)
}
