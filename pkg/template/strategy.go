package template

import (
	"fmt"
	"strings"

	"physio-notes-be/pkg/soap"
)

var sectionOrder = soap.SectionNames

// Strategy builds the prompt for one template and decodes the model's answer.
type Strategy interface {
	Key() string
	BuildPrompt(transcript string) string
	Parse(raw string) (*soap.Document, []string, error)
}

type regionStrategy struct {
	region Region
}

func (s *regionStrategy) Key() string {
	return s.region.Key
}

func (s *regionStrategy) BuildPrompt(transcript string) string {
	var b strings.Builder

	if s.region.Key == GeneralKey {
		b.WriteString("Write a SOAP note for this physical therapy session.\n\n")
	} else {
		fmt.Fprintf(&b, "Write a SOAP note for this %s physical therapy session.\n\n", strings.ToLower(s.region.Label))
	}

	b.WriteString("Return a JSON object with exactly this shape:\n")
	b.WriteString(`{
  "subjective": {"content": "patient-reported history, symptoms, pain levels and goals"},
  "objective": {"categories": [{"name": "<category>", "rows": [{"test": "<test or measure>", "result": "<finding>", "notes": "<notes>"}]}]},
  "assessment": {"content": "clinical impression supported by the findings"},
  "plan": {"items": ["<treatment, exercise, frequency or follow-up>"]}
}`)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Group objective findings under these categories: %s.\n", strings.Join(s.region.Categories, ", "))
	if len(s.region.SpecialTests) > 0 {
		fmt.Fprintf(&b, "Special tests for this region include: %s. Record a test only if it was performed.\n", strings.Join(s.region.SpecialTests, ", "))
	}
	b.WriteString("Omit categories with no findings. Use an empty categories list if no objective findings were stated.\n\n")

	b.WriteString("TRANSCRIPT:\n")
	b.WriteString(strings.TrimSpace(transcript))
	return b.String()
}

func (s *regionStrategy) Parse(raw string) (*soap.Document, []string, error) {
	doc, warnings, err := soap.ParseDocument([]byte(raw))
	if err != nil {
		return nil, warnings, err
	}

	if doc.Objective.Kind == soap.KindTable {
		categories := make([]soap.Category, 0, len(doc.Objective.Categories))
		for _, c := range doc.Objective.Categories {
			rows := make([]soap.Row, 0, len(c.Rows))
			for _, r := range c.Rows {
				if strings.TrimSpace(r.Test) == "" && strings.TrimSpace(r.Result) == "" && strings.TrimSpace(r.Notes) == "" {
					continue
				}
				rows = append(rows, r)
			}
			if len(rows) > 0 {
				c.Rows = rows
				categories = append(categories, c)
			}
		}
		doc.Objective.Categories = categories
	}

	doc.RenderText()
	return doc, warnings, nil
}

type customStrategy struct {
	template *CustomTemplate
}

func (s *customStrategy) Key() string {
	return s.template.TemplateType()
}

func (s *customStrategy) BuildPrompt(transcript string) string {
	cfg := &s.template.Config
	var b strings.Builder

	fmt.Fprintf(&b, "Write a SOAP note for this physical therapy session using the %q template.\n", s.template.Name)
	if d := strings.TrimSpace(s.template.Description); d != "" {
		fmt.Fprintf(&b, "Template description: %s\n", d)
	}
	b.WriteString("\nReturn a JSON object with the four keys subjective, objective, assessment and plan. ")
	b.WriteString("Each key maps to an object whose keys are the field ids listed below and whose values are strings.\n")

	for _, section := range sectionOrder {
		fields := cfg.FieldsFor(section)
		fmt.Fprintf(&b, "\n%s:\n", section)
		if len(fields) == 0 {
			b.WriteString("  (no fields, return an empty object)\n")
			continue
		}
		for _, f := range fields {
			fmt.Fprintf(&b, "  - %q: %s", f.ID, f.Label)
			if f.Unit != "" {
				fmt.Fprintf(&b, " (%s)", f.Unit)
			}
			if f.Description != "" {
				fmt.Fprintf(&b, ". %s", f.Description)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nUse exactly these ids as keys. Use an empty string for any field not covered in the transcript.\n\n")
	b.WriteString("TRANSCRIPT:\n")
	b.WriteString(strings.TrimSpace(transcript))
	return b.String()
}

// Parse maps the model's keyed answer onto the configured fields in order.
// An exact key match wins over a case-insensitive one. Missing fields are
// left empty and reported as warnings; unknown keys are dropped.
func (s *customStrategy) Parse(raw string) (*soap.Document, []string, error) {
	doc, warnings, err := soap.ParseDocument([]byte(raw))
	if err != nil {
		return nil, warnings, err
	}

	cfg := &s.template.Config
	for _, name := range sectionOrder {
		section := doc.Section(name)
		defs := cfg.FieldsFor(name)

		exact := map[string]string{}
		folded := map[string]string{}
		switch section.Kind {
		case soap.KindFields:
			for _, f := range section.Fields {
				exact[f.ID] = f.Value
				folded[strings.ToLower(f.ID)] = f.Value
			}
		case soap.KindEmpty:
		default:
			if len(defs) > 0 {
				warnings = append(warnings, fmt.Sprintf("section %s: expected keyed fields, got %s", name, section.Kind))
				continue
			}
		}

		if len(defs) == 0 {
			continue
		}
		fields := make([]soap.Field, 0, len(defs))
		for _, def := range defs {
			value, ok := exact[def.ID]
			if !ok {
				value, ok = folded[strings.ToLower(def.ID)]
			}
			if !ok {
				warnings = append(warnings, fmt.Sprintf("missing field: %s.%s", name, def.ID))
			}
			fields = append(fields, soap.Field{ID: def.ID, Label: def.Label, Value: value})
		}
		*section = soap.FieldsSection(fields...)
	}

	return doc, warnings, nil
}
