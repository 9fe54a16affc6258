package template

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FieldDef is one configurable entry of a custom template. ID is the JSON key
// the model must use in its answer.
type FieldDef struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Unit        string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

type SubjectiveConfig struct {
	Fields []FieldDef `json:"fields" yaml:"fields"`
}

type ObjectiveConfig struct {
	Measurements []FieldDef `json:"measurements" yaml:"measurements"`
}

type AssessmentConfig struct {
	Prompts []FieldDef `json:"prompts" yaml:"prompts"`
}

type PlanConfig struct {
	Sections []FieldDef `json:"sections" yaml:"sections"`
}

type CustomTemplateConfig struct {
	Subjective SubjectiveConfig `json:"subjective" yaml:"subjective"`
	Objective  ObjectiveConfig  `json:"objective" yaml:"objective"`
	Assessment AssessmentConfig `json:"assessment" yaml:"assessment"`
	Plan       PlanConfig       `json:"plan" yaml:"plan"`
}

// CustomTemplate is a user-defined template as stored by the backend.
type CustomTemplate struct {
	ID          uuid.UUID            `json:"id" yaml:"id,omitempty"`
	Name        string               `json:"name" yaml:"name"`
	Description string               `json:"description" yaml:"description"`
	Config      CustomTemplateConfig `json:"config" yaml:"config"`
}

// TemplateType returns the "custom-<uuid>" key that selects this template.
func (t *CustomTemplate) TemplateType() string {
	return CustomPrefix + t.ID.String()
}

// reserved ids collide with the section shapes the document decoder recognizes.
var reservedIDs = map[string]bool{"content": true, "items": true, "categories": true, "rows": true, "fields": true}

// FieldsFor returns the configured fields of a SOAP section.
func (c *CustomTemplateConfig) FieldsFor(section string) []FieldDef {
	switch section {
	case "subjective":
		return c.Subjective.Fields
	case "objective":
		return c.Objective.Measurements
	case "assessment":
		return c.Assessment.Prompts
	case "plan":
		return c.Plan.Sections
	}
	return nil
}

func (c *CustomTemplateConfig) FieldCount() int {
	return len(c.Subjective.Fields) + len(c.Objective.Measurements) + len(c.Assessment.Prompts) + len(c.Plan.Sections)
}

// Validate checks that every field id is present, not reserved and unique
// within its section ignoring case, and that the template has at least one
// field.
func (c *CustomTemplateConfig) Validate() error {
	if c.FieldCount() == 0 {
		return fmt.Errorf("%w: template has no fields", ErrInvalidConfig)
	}
	for _, section := range sectionOrder {
		seen := map[string]bool{}
		for i, f := range c.FieldsFor(section) {
			id := strings.TrimSpace(f.ID)
			key := strings.ToLower(id)
			switch {
			case id == "":
				return fmt.Errorf("%w: %s[%d] has an empty id", ErrInvalidConfig, section, i)
			case reservedIDs[key]:
				return fmt.Errorf("%w: %s.%s uses a reserved id", ErrInvalidConfig, section, id)
			case seen[key]:
				return fmt.Errorf("%w: duplicate id %s.%s", ErrInvalidConfig, section, id)
			}
			seen[key] = true
		}
	}
	return nil
}
