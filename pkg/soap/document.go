package soap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Section names as they appear in the JSON document.
const (
	SectionSubjective = "subjective"
	SectionObjective  = "objective"
	SectionAssessment = "assessment"
	SectionPlan       = "plan"
)

// SectionNames lists the four SOAP sections in document order.
var SectionNames = []string{SectionSubjective, SectionObjective, SectionAssessment, SectionPlan}

var (
	ErrInvalidJSON = errors.New("soap: response is not valid JSON")
	ErrNoSections  = errors.New("soap: response contains none of the SOAP sections")
)

// SectionKind discriminates the shape a Section carries.
type SectionKind string

const (
	KindEmpty  SectionKind = "empty"
	KindText   SectionKind = "text"
	KindList   SectionKind = "list"
	KindTable  SectionKind = "table"
	KindFields SectionKind = "fields"
)

type Row struct {
	Test   string `json:"test"`
	Result string `json:"result"`
	Notes  string `json:"notes"`
}

// UnmarshalJSON accepts scalar members of any JSON type, so a model that
// writes "result": 120 still yields a row.
func (r *Row) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("soap: row: %w", err)
	}
	*r = Row{}
	for k, v := range obj {
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "test":
			r.Test = stringify(v)
		case "result":
			r.Result = stringify(v)
		case "notes":
			r.Notes = stringify(v)
		}
	}
	return nil
}

type Category struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Field is a keyed value produced by a custom template. ID matches the
// template field id.
type Field struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}

// Section is one of the four SOAP sections. Only the members matching Kind
// are meaningful.
type Section struct {
	Kind       SectionKind
	Content    string
	Items      []string
	Categories []Category
	Fields     []Field
}

func TextSection(content string) Section {
	return Section{Kind: KindText, Content: content}
}

func ListSection(items ...string) Section {
	return Section{Kind: KindList, Items: items}
}

func TableSection(categories ...Category) Section {
	return Section{Kind: KindTable, Categories: categories}
}

func FieldsSection(fields ...Field) Section {
	return Section{Kind: KindFields, Fields: fields}
}

// IsEmpty reports whether the section carries no clinical content. A table
// with no categories, or categories without rows, is empty.
func (s Section) IsEmpty() bool {
	switch s.Kind {
	case KindText:
		return strings.TrimSpace(s.Content) == ""
	case KindList:
		for _, item := range s.Items {
			if strings.TrimSpace(item) != "" {
				return false
			}
		}
		return true
	case KindTable:
		for _, c := range s.Categories {
			if len(c.Rows) > 0 {
				return false
			}
		}
		return true
	case KindFields:
		for _, f := range s.Fields {
			if strings.TrimSpace(f.Value) != "" {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// RowCount returns the number of table rows across all categories.
func (s Section) RowCount() int {
	n := 0
	for _, c := range s.Categories {
		n += len(c.Rows)
	}
	return n
}

func (s Section) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case KindText:
		return json.Marshal(struct {
			Content string `json:"content"`
		}{s.Content})
	case KindList:
		items := s.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(struct {
			Items []string `json:"items"`
		}{items})
	case KindTable:
		categories := s.Categories
		if categories == nil {
			categories = []Category{}
		}
		return json.Marshal(struct {
			Categories []Category `json:"categories"`
		}{categories})
	case KindFields:
		fields := s.Fields
		if fields == nil {
			fields = []Field{}
		}
		return json.Marshal(struct {
			Fields []Field `json:"fields"`
		}{fields})
	case KindEmpty, "":
		return []byte("{}"), nil
	default:
		return nil, fmt.Errorf("soap: unknown section kind %q", s.Kind)
	}
}

// UnmarshalJSON accepts every shape the notes have been stored in over time:
// a bare string, a string array, {content}, {items}, {categories}, legacy
// flat {rows}, {fields}, or a plain object of keyed values.
func (s *Section) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = Section{Kind: KindEmpty}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		if text != "" {
			*s = TextSection(text)
		}
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			items = append(items, stringify(r))
		}
		*s = ListSection(items...)
		return nil
	case '{':
		return s.unmarshalObject(data)
	default:
		return fmt.Errorf("soap: unsupported section value %s", truncate(string(data), 40))
	}
}

func (s *Section) unmarshalObject(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if len(obj) == 0 {
		return nil
	}

	if raw, ok := obj["content"]; ok {
		*s = TextSection(stringify(raw))
		return nil
	}

	if raw, ok := obj["items"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("soap: items: %w", err)
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			list = append(list, stringify(item))
		}
		*s = ListSection(list...)
		return nil
	}

	_, hasCategories := obj["categories"]
	_, hasRows := obj["rows"]
	if hasCategories || hasRows {
		table := Section{Kind: KindTable, Categories: []Category{}}
		if hasCategories {
			if err := json.Unmarshal(obj["categories"], &table.Categories); err != nil {
				return fmt.Errorf("soap: categories: %w", err)
			}
			if table.Categories == nil {
				table.Categories = []Category{}
			}
		}
		if hasRows {
			var rows []Row
			if err := json.Unmarshal(obj["rows"], &rows); err != nil {
				return fmt.Errorf("soap: rows: %w", err)
			}
			if len(rows) > 0 {
				table.Categories = append(table.Categories, Category{Rows: rows})
			}
		}
		*s = table
		return nil
	}

	if raw, ok := obj["fields"]; ok {
		var fields []Field
		if err := json.Unmarshal(raw, &fields); err == nil {
			*s = FieldsSection(fields...)
			return nil
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{ID: k, Value: stringify(obj[k])})
	}
	*s = FieldsSection(fields...)
	return nil
}

// Document is a SOAP note.
type Document struct {
	Subjective Section `json:"subjective"`
	Objective  Section `json:"objective"`
	Assessment Section `json:"assessment"`
	Plan       Section `json:"plan"`
}

// Section returns a pointer to the named section, or nil for an unknown name.
func (d *Document) Section(name string) *Section {
	switch name {
	case SectionSubjective:
		return &d.Subjective
	case SectionObjective:
		return &d.Objective
	case SectionAssessment:
		return &d.Assessment
	case SectionPlan:
		return &d.Plan
	}
	return nil
}

func (d *Document) IsEmpty() bool {
	return len(d.EmptySections()) == len(SectionNames)
}

// EmptySections lists the names of sections without content, in document order.
func (d *Document) EmptySections() []string {
	var empty []string
	for _, name := range SectionNames {
		if d.Section(name).IsEmpty() {
			empty = append(empty, name)
		}
	}
	return empty
}

// ParseDocument decodes a model response into a Document. Section keys are
// matched case-insensitively; unknown keys are ignored. Missing sections are
// left empty and reported as warnings.
func ParseDocument(raw []byte) (*Document, []string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	normalized := make(map[string]json.RawMessage, len(obj))
	for k, v := range obj {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}

	doc := &Document{}
	var warnings []string
	found := 0
	for _, name := range SectionNames {
		value, ok := normalized[name]
		if !ok {
			warnings = append(warnings, "missing section: "+name)
			*doc.Section(name) = Section{Kind: KindEmpty}
			continue
		}
		found++
		if err := json.Unmarshal(value, doc.Section(name)); err != nil {
			return nil, warnings, fmt.Errorf("%w: section %s: %v", ErrInvalidJSON, name, err)
		}
	}
	if found == 0 {
		return nil, warnings, ErrNoSections
	}

	return doc, warnings, nil
}

func stringify(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err == nil {
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if v := stringify(p); v != "" {
					out = append(out, v)
				}
			}
			return strings.Join(out, "\n")
		}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return strconv.FormatBool(b)
		}
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
