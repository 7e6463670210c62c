package catalog

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind classifies a Schema for rendering.
type Kind int

const (
	// KindPrimitive is a scalar (or untyped) schema without allowed values.
	KindPrimitive Kind = iota
	// KindEnum is a schema restricted to an enumerated set of values.
	KindEnum
	// KindObject is a schema with named properties.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	default:
		return "primitive"
	}
}

// Properties holds object properties in declaration order.
type Properties = orderedmap.OrderedMap[string, *Schema]

// NewProperties returns an empty ordered property map.
func NewProperties() *Properties {
	return orderedmap.New[string, *Schema]()
}

// Schema is the subset of an OpenAPI 3.x schema object used to describe
// parameters and request bodies. Keywords it does not model are kept and
// written back unchanged.
type Schema struct {
	Type        TypeSet `json:"type,omitempty"`
	Description string  `json:"description,omitempty"`
	Enum        []any   `json:"enum,omitempty"`
	ReadOnly    bool    `json:"readOnly,omitempty"`
	// Required lists the required properties of an object schema.
	Required []string `json:"required,omitempty"`
	// RequiredFlag is set when a parameter's schema declares "required": true.
	RequiredFlag bool        `json:"-"`
	Properties   *Properties `json:"properties,omitempty"`
	Items        *Schema     `json:"items,omitempty"`

	members members
}

// Kind reports which variant s represents. A nil schema is primitive.
func (s *Schema) Kind() Kind {
	switch {
	case s == nil:
		return KindPrimitive
	// An empty list still counts, and renders as "(type: )".
	case s.Enum != nil:
		return KindEnum
	case s.Properties != nil:
		return KindObject
	default:
		return KindPrimitive
	}
}

// IsRequired reports whether property name appears in the schema's required list.
func (s *Schema) IsRequired(name string) bool {
	return s != nil && slices.Contains(s.Required, name)
}

func (s *Schema) UnmarshalJSON(b []byte) error {
	var v Schema
	m, err := decodeMembers(b, map[string]any{
		"type":        &v.Type,
		"description": &v.Description,
		"enum":        &v.Enum,
		"readOnly":    &v.ReadOnly,
		"required":    &requiredField{list: &v.Required, flag: &v.RequiredFlag},
		"properties":  &v.Properties,
		"items":       &v.Items,
	})
	if err != nil {
		return err
	}
	if m.raw == nil {
		return nil
	}
	v.members = m
	*s = v
	return nil
}

func (s Schema) MarshalJSON() ([]byte, error) {
	return s.members.encode([]member{
		{key: "type", value: s.Type, omit: len(s.Type) == 0},
		{key: "description", value: s.Description, omit: s.Description == ""},
		{key: "enum", value: s.Enum, omit: s.Enum == nil},
		{key: "readOnly", value: s.ReadOnly, omit: !s.ReadOnly},
		{key: "required", value: requiredField{list: &s.Required, flag: &s.RequiredFlag}, omit: s.Required == nil && !s.RequiredFlag},
		{key: "properties", value: s.Properties, omit: s.Properties == nil},
		{key: "items", value: s.Items, omit: s.Items == nil},
	})
}

// requiredField is the "required" keyword. OpenAPI defines it as a list of
// property names; parameter schemas in some catalogs set it to true instead.
type requiredField struct {
	list *[]string
	flag *bool
}

func (r requiredField) MarshalJSON() ([]byte, error) {
	if *r.list != nil {
		return json.Marshal(*r.list)
	}
	return json.Marshal(*r.flag)
}

func (r requiredField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '[':
		return json.Unmarshal(b, r.list)
	default:
		return json.Unmarshal(b, r.flag)
	}
}

// TypeSet is an OpenAPI type declaration. It decodes both the 3.0 form
// ("string") and the 3.1 form (["string", "null"]).
type TypeSet []string

// String joins the declared types with commas.
func (t TypeSet) String() string {
	return strings.Join(t, ",")
}

func (t *TypeSet) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = TypeSet{s}
		return nil
	}
	var types []string
	if err := json.Unmarshal(b, &types); err != nil {
		return err
	}
	*t = types
	return nil
}

func (t TypeSet) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}
