package phiclient

import (
	"context"
	"net/http"
	"net/url"

	"physio-notes-be/pkg/template"

	"github.com/google/uuid"
)

// CustomTemplate is a stored custom template as the API returns it.
type CustomTemplate struct {
	template.CustomTemplate
	TemplateType string `json:"templateType"`
	FieldCount   int    `json:"fieldCount"`
}

type customTemplateRequest struct {
	Id          *uuid.UUID                    `json:"id,omitempty"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Config      template.CustomTemplateConfig `json:"config"`
}

func (c *Client) ListCustomTemplates(ctx context.Context) ([]*CustomTemplate, error) {
	var list []*CustomTemplate
	if err := c.do(ctx, http.MethodGet, "/phi/custom-templates", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetCustomTemplate satisfies template.CustomTemplateLoader. A template the
// backend does not know yields nil, nil.
func (c *Client) GetCustomTemplate(ctx context.Context, id uuid.UUID) (*template.CustomTemplate, error) {
	var tpl CustomTemplate
	if err := c.do(ctx, http.MethodGet, "/phi/custom-templates", url.Values{"id": {id.String()}}, nil, &tpl); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &tpl.CustomTemplate, nil
}

// SaveCustomTemplate creates the template when tpl.ID is zero and replaces
// it otherwise.
func (c *Client) SaveCustomTemplate(ctx context.Context, tpl *template.CustomTemplate) (*CustomTemplate, error) {
	req := customTemplateRequest{Name: tpl.Name, Description: tpl.Description, Config: tpl.Config}
	method := http.MethodPost
	if tpl.ID != uuid.Nil {
		id := tpl.ID
		req.Id = &id
		method = http.MethodPut
	}

	var saved CustomTemplate
	if err := c.do(ctx, method, "/phi/custom-templates", nil, req, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) DeleteCustomTemplate(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/phi/custom-templates", url.Values{"id": {id.String()}}, nil, nil)
}

func (c *Client) ListTemplates(ctx context.Context) ([]template.Info, error) {
	var list []template.Info
	if err := c.do(ctx, http.MethodGet, "/templates", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

var _ template.CustomTemplateLoader = (*Client)(nil)
