package props

import (
	"fmt"
	"sort"
)

// Kind is the value type discriminator.
type Kind uint8

const (
	KindNull   Kind = iota // Absent/null value
	KindBool               // Boolean scalar
	KindNumber             // Numeric scalar (float64, JSON semantics)
	KindString             // String scalar
	KindList               // Ordered sequence of values
	KindMap                // Nested string-keyed mapping
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	default:
		return "Unknown"
	}
}

// Value is a single props value: one arm of the union is populated
// according to Kind. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	l    []Value
	m    Map
}

// Map is an open-ended props mapping from key to Value.
type Map map[string]Value

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// Int returns a numeric value from an int.
func Int(n int) Value {
	return Value{kind: KindNumber, n: float64(n)}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// ListOf returns an ordered list value. The elements are not copied;
// callers that need isolation should Clone.
func ListOf(elems ...Value) Value {
	return Value{kind: KindList, l: elems}
}

// MapVal returns a nested mapping value. The mapping is not copied;
// callers that need isolation should Clone.
func MapVal(m Map) Value {
	return Value{kind: KindMap, m: m}
}

// Kind returns the value's discriminator.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean arm. The second result is false if the
// value is not a Bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the numeric arm.
func (v Value) AsNumber() (float64, bool) {
	return v.n, v.kind == KindNumber
}

// AsString returns the string arm.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsList returns the list arm. The returned slice is the stored backing
// slice, not a copy.
func (v Value) AsList() ([]Value, bool) {
	return v.l, v.kind == KindList
}

// AsMap returns the mapping arm. The returned map is the stored backing
// map, not a copy.
func (v Value) AsMap() (Map, bool) {
	return v.m, v.kind == KindMap
}

// Equal reports deep structural equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.l) != len(o.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(o.l[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Equal(o.m)
	default:
		return false
	}
}

// Clone returns a deep copy of the value. Scalars are returned as-is;
// lists and mappings are copied recursively.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		if v.l == nil {
			return v
		}
		l := make([]Value, len(v.l))
		for i := range v.l {
			l[i] = v.l[i].Clone()
		}
		return Value{kind: KindList, l: l}
	case KindMap:
		return Value{kind: KindMap, m: v.m.Clone()}
	default:
		return v
	}
}

// GoString returns a debug representation of the value.
func (v Value) GoString() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindNumber:
		return fmt.Sprintf("%g", v.n)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindList:
		return fmt.Sprintf("list(%d)", len(v.l))
	case KindMap:
		return fmt.Sprintf("map(%d)", len(v.m))
	default:
		return "unknown"
	}
}

// Clone returns a deep copy of the mapping. A nil map clones to nil.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// Equal reports deep structural equality of two mappings.
func (m Map) Equal(o Map) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Keys returns the mapping's keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromAny converts a plain Go value (the shapes produced by
// encoding/json.Unmarshal into any, plus the common Go scalars) into a
// Value. It returns an error for types outside the union.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Int(t), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case string:
		return String(t), nil
	case []any:
		l := make([]Value, len(t))
		for i, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Null(), err
			}
			l[i] = ev
		}
		return ListOf(l...), nil
	case map[string]any:
		m, err := MapFromAny(t)
		if err != nil {
			return Null(), err
		}
		return MapVal(m), nil
	case Value:
		return t, nil
	case Map:
		return MapVal(t), nil
	default:
		return Null(), fmt.Errorf("props: unsupported value type %T", v)
	}
}

// MapFromAny converts a map[string]any into a Map.
func MapFromAny(in map[string]any) (Map, error) {
	if in == nil {
		return nil, nil
	}
	out := make(Map, len(in))
	for k, v := range in {
		val, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("props: key %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

// ToAny converts a Value back into the plain Go shape used by
// encoding/json (nil, bool, float64, string, []any, map[string]any).
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.l))
		for i, e := range v.l {
			out[i] = e.ToAny()
		}
		return out
	case KindMap:
		return v.m.ToAny()
	default:
		return nil
	}
}

// ToAny converts a Map into a map[string]any.
func (m Map) ToAny() map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.ToAny()
	}
	return out
}
