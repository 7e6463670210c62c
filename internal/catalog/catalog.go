// Package catalog defines the pages and actions an organization exposes to
// its copilot, along with the OpenAPI-style schemas that describe each
// action's inputs.
package catalog

import "encoding/json"

// ContentTypeJSON is the only request body content type rendered for the model.
const ContentTypeJSON = "application/json"

// OrgInfo identifies the organization the copilot speaks for.
type OrgInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog is an organization together with its ordered pages.
type Catalog struct {
	Org   OrgInfo `json:"organization"`
	Pages []Page  `json:"pages"`
}

// Page is a named scope that gates which actions are visible to the model.
type Page struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Actions     []Action `json:"actions"`
}

// Action is a single invocable operation, typically an HTTP endpoint.
type Action struct {
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	ActionType          ActionType           `json:"action_type,omitempty"`
	RequestMethod       RequestMethod        `json:"request_method,omitempty"`
	Path                string               `json:"path,omitempty"`
	Parameters          []Parameter          `json:"parameters,omitempty"`
	RequestBodyContents map[string]MediaType `json:"request_body_contents,omitempty"`
	Responses           json.RawMessage      `json:"responses,omitempty"`
}

// JSONBody returns the application/json request body schema, if the action
// declares one.
func (a Action) JSONBody() (*Schema, bool) {
	media, ok := a.RequestBodyContents[ContentTypeJSON]
	if !ok || media.Schema == nil {
		return nil, false
	}
	return media.Schema, true
}

// Parameter is an OpenAPI parameter object (path, query, header or cookie).
// Fields it does not model, such as style or example, are kept.
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in,omitempty"`
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`

	members members
}

// IsRequired reports whether the parameter itself or its schema is marked
// required.
func (p Parameter) IsRequired() bool {
	return p.Required || (p.Schema != nil && p.Schema.RequiredFlag)
}

func (p *Parameter) UnmarshalJSON(b []byte) error {
	var v Parameter
	m, err := decodeMembers(b, map[string]any{
		"name":        &v.Name,
		"in":          &v.In,
		"description": &v.Description,
		"required":    &v.Required,
		"schema":      &v.Schema,
	})
	if err != nil {
		return err
	}
	if m.raw == nil {
		return nil
	}
	v.members = m
	*p = v
	return nil
}

func (p Parameter) MarshalJSON() ([]byte, error) {
	return p.members.encode([]member{
		{key: "name", value: p.Name},
		{key: "in", value: p.In, omit: p.In == ""},
		{key: "description", value: p.Description, omit: p.Description == ""},
		{key: "required", value: p.Required, omit: !p.Required},
		{key: "schema", value: p.Schema, omit: p.Schema == nil},
	})
}

// MediaType is a request body entry for a single content type.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`

	members members
}

func (m *MediaType) UnmarshalJSON(b []byte) error {
	var v MediaType
	decoded, err := decodeMembers(b, map[string]any{"schema": &v.Schema})
	if err != nil {
		return err
	}
	if decoded.raw == nil {
		return nil
	}
	v.members = decoded
	*m = v
	return nil
}

func (m MediaType) MarshalJSON() ([]byte, error) {
	return m.members.encode([]member{
		{key: "schema", value: m.Schema, omit: m.Schema == nil},
	})
}

// Find returns the first page named name.
func Find(pages []Page, name string) (Page, bool) {
	for _, p := range pages {
		if p.Name == name {
			return p, true
		}
	}
	return Page{}, false
}

// Except returns every page not named name, in catalog order.
func Except(pages []Page, name string) []Page {
	out := make([]Page, 0, len(pages))
	for _, p := range pages {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return out
}
