package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// members remembers the JSON object a value was decoded from: every key in
// document order with its raw value, and the re-encoded form of the keys the
// Go type models. Encoding walks the document again, so keys the type does not
// model come back where they were, and modeled values that were not changed
// come back in their original spelling.
type members struct {
	raw   *orderedmap.OrderedMap[string, json.RawMessage]
	canon map[string][]byte
}

// member is one modeled key of an object. A member with omit set is left out
// unless the decoded document carried it.
type member struct {
	key   string
	value any
	omit  bool
}

// decodeMembers decodes the object b, unmarshaling each key found in targets
// into its target. A JSON null yields members with a nil raw map.
func decodeMembers(b []byte, targets map[string]any) (members, error) {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return members{}, nil
	}
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(b, raw); err != nil {
		return members{}, err
	}
	m := members{raw: raw, canon: make(map[string][]byte, len(targets))}
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		target, ok := targets[pair.Key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(pair.Value, target); err != nil {
			return members{}, fmt.Errorf("%s: %w", pair.Key, err)
		}
		canon, err := json.Marshal(target)
		if err != nil {
			return members{}, fmt.Errorf("%s: %w", pair.Key, err)
		}
		m.canon[pair.Key] = canon
	}
	return m, nil
}

// encode writes the object back: decoded keys first, in document order, then
// any modeled key that was set after decoding.
func (m members) encode(fields []member) ([]byte, error) {
	out := orderedmap.New[string, json.RawMessage]()
	byKey := make(map[string]member, len(fields))
	for _, f := range fields {
		byKey[f.key] = f
	}

	if m.raw != nil {
		for pair := m.raw.Oldest(); pair != nil; pair = pair.Next() {
			f, ok := byKey[pair.Key]
			if !ok {
				out.Set(pair.Key, pair.Value)
				continue
			}
			b, err := json.Marshal(f.value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.key, err)
			}
			if bytes.Equal(b, m.canon[f.key]) {
				b = pair.Value
			}
			out.Set(pair.Key, b)
		}
	}

	for _, f := range fields {
		if f.omit {
			continue
		}
		if _, ok := out.Get(f.key); ok {
			continue
		}
		b, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.key, err)
		}
		out.Set(f.key, b)
	}
	return json.Marshal(out)
}
