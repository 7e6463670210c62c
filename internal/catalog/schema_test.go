package catalog

import (
	"encoding/json"
	"testing"
)

func TestSchema_DecodeTypeForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "openapi 3.0 string", src: `{"type":"string"}`, want: "string"},
		{name: "openapi 3.1 array", src: `{"type":["integer","null"]}`, want: "integer,null"},
		{name: "missing", src: `{}`, want: ""},
		{name: "explicit null", src: `{"type":null}`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Schema
			if err := json.Unmarshal([]byte(tt.src), &s); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := s.Type.String(); got != tt.want {
				t.Errorf("Type = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSchema_PropertiesKeepDeclarationOrder(t *testing.T) {
	src := `{
		"type": "object",
		"required": ["zeta"],
		"properties": {
			"zeta":  {"type": "string"},
			"alpha": {"type": "integer", "readOnly": true},
			"mid":   {"type": "boolean", "description": "flag"}
		}
	}`
	var s Schema
	if err := json.Unmarshal([]byte(src), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Kind() != KindObject {
		t.Fatalf("Kind = %v, want object", s.Kind())
	}

	var keys []string
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	want := []string{"zeta", "alpha", "mid"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	alpha, _ := s.Properties.Get("alpha")
	if !alpha.ReadOnly {
		t.Error("alpha.ReadOnly = false, want true")
	}
	if !s.IsRequired("zeta") || s.IsRequired("mid") {
		t.Errorf("IsRequired mismatch: zeta=%v mid=%v", s.IsRequired("zeta"), s.IsRequired("mid"))
	}

	out, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again Schema
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if first := again.Properties.Oldest(); first == nil || first.Key != "zeta" {
		t.Errorf("order lost after re-encoding: %s", out)
	}
}

func TestSchema_Kind(t *testing.T) {
	var nilSchema *Schema
	if nilSchema.Kind() != KindPrimitive {
		t.Errorf("nil schema Kind = %v, want primitive", nilSchema.Kind())
	}
	if k := (&Schema{Type: TypeSet{"string"}, Enum: []any{"a"}}).Kind(); k != KindEnum {
		t.Errorf("enum schema Kind = %v, want enum", k)
	}
	if k := (&Schema{Type: TypeSet{"string"}}).Kind(); k != KindPrimitive {
		t.Errorf("string schema Kind = %v, want primitive", k)
	}
	if k := (&Schema{Properties: NewProperties()}).Kind(); k != KindObject {
		t.Errorf("object schema Kind = %v, want object", k)
	}
}

func TestAction_JSONBody(t *testing.T) {
	a := Action{RequestBodyContents: map[string]MediaType{
		"text/plain": {Schema: &Schema{Type: TypeSet{"string"}}},
	}}
	if _, ok := a.JSONBody(); ok {
		t.Error("JSONBody found a body for text/plain only")
	}

	a.RequestBodyContents[ContentTypeJSON] = MediaType{Schema: &Schema{Type: TypeSet{"object"}}}
	if s, ok := a.JSONBody(); !ok || s.Type.String() != "object" {
		t.Errorf("JSONBody = %v, %v", s, ok)
	}
}

func TestSchema_RequiredForms(t *testing.T) {
	var flagged Schema
	if err := json.Unmarshal([]byte(`{"type":"string","required":true}`), &flagged); err != nil {
		t.Fatalf("unmarshal bool: %v", err)
	}
	if !flagged.RequiredFlag || flagged.Required != nil {
		t.Errorf("bool form: flag=%v list=%v", flagged.RequiredFlag, flagged.Required)
	}
	if !(Parameter{Name: "q", Schema: &flagged}).IsRequired() {
		t.Error("parameter with required schema not reported required")
	}

	var listed Schema
	if err := json.Unmarshal([]byte(`{"type":"object","required":["a"]}`), &listed); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if listed.RequiredFlag || !listed.IsRequired("a") {
		t.Errorf("list form: flag=%v list=%v", listed.RequiredFlag, listed.Required)
	}

	out, err := json.Marshal(&flagged)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"type":"string","required":true}` {
		t.Errorf("re-encoded = %s", out)
	}
}

func TestParameter_KeepsUnmodeledFields(t *testing.T) {
	src := `{"name":"limit","in":"query","style":"form","example":25,` +
		`"schema":{"type":"integer","format":"int32","minimum":1,"maximum":1e3,"enum":[10,25,50]},"x-note":{"b":1,"a":2}}`
	var p Parameter
	if err := json.Unmarshal([]byte(src), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != src {
		t.Errorf("re-encoded =\n%s\nwant\n%s", out, src)
	}

	p.Description = "Page size"
	p.Schema.Enum = append(p.Schema.Enum, 100.0)
	out, err = json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"limit","in":"query","style":"form","example":25,` +
		`"schema":{"type":"integer","format":"int32","minimum":1,"maximum":1e3,"enum":[10,25,50,100]},"x-note":{"b":1,"a":2},` +
		`"description":"Page size"}`
	if string(out) != want {
		t.Errorf("edited =\n%s\nwant\n%s", out, want)
	}
}

func TestMediaType_KeepsUnmodeledFields(t *testing.T) {
	src := `{"application/json":{"schema":{"type":"object","additionalProperties":{"type":"string"},` +
		`"properties":{"zeta":{"type":"string","pattern":"^z"},"alpha":{"type":"number"}}},"example":{"zeta":"z"}}}`
	var body map[string]MediaType
	if err := json.Unmarshal([]byte(src), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != src {
		t.Errorf("re-encoded =\n%s\nwant\n%s", out, src)
	}
}
