package props

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the value as its natural JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		if v.l == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.l)
	case KindMap:
		if v.m == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.m)
	default:
		return nil, fmt.Errorf("props: cannot marshal kind %s", v.kind)
	}
}

// UnmarshalJSON decodes any JSON value into the matching union arm.
// Numbers always decode as float64.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, err := fromDecoded(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// fromDecoded converts decoder output (with json.Number for numerics)
// into a Value.
func fromDecoded(raw any) (Value, error) {
	switch t := raw.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Null(), fmt.Errorf("props: invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case []any:
		l := make([]Value, len(t))
		for i, e := range t {
			ev, err := fromDecoded(e)
			if err != nil {
				return Null(), err
			}
			l[i] = ev
		}
		return ListOf(l...), nil
	case map[string]any:
		m := make(Map, len(t))
		for k, e := range t {
			ev, err := fromDecoded(e)
			if err != nil {
				return Null(), err
			}
			m[k] = ev
		}
		return MapVal(m), nil
	default:
		return FromAny(raw)
	}
}

// UnmarshalJSON decodes a JSON object into the mapping. JSON null
// decodes as a nil map.
func (m *Map) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	switch v.kind {
	case KindNull:
		*m = nil
		return nil
	case KindMap:
		*m = v.m
		return nil
	default:
		return fmt.Errorf("props: expected JSON object, got %s", v.kind)
	}
}
