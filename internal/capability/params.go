package capability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// valueKind discriminates the Value variant type.
type valueKind int

const (
	kindNull valueKind = iota
	kindString
	kindInt
	kindFloat
	kindBool
	kindList
	kindMap
)

// Value is a closed dynamically-typed parameter value: one of string,
// integer, float, boolean, null, list, or map. Consumers read it through
// the As* accessors, each reporting whether the requested shape matched.
//
// The zero Value is null.
type Value struct {
	kind valueKind
	str  string
	i    int64
	f    float64
	b    bool
	list []Value
	obj  map[string]Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// String wraps a string.
func String(s string) Value { return Value{kind: kindString, str: s} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: kindInt, i: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: kindFloat, f: f} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// List wraps a list of values.
func List(vs ...Value) Value { return Value{kind: kindList, list: vs} }

// Map wraps a map of values.
func Map(m map[string]Value) Value { return Value{kind: kindMap, obj: m} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == kindNull }

// AsString returns the string form, ok only for string values.
func (v Value) AsString() (string, bool) {
	if v.kind != kindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the integer form. Floats with an exact integral value
// convert; everything else does not.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case kindInt:
		return v.i, true
	case kindFloat:
		if v.f == math.Trunc(v.f) {
			return int64(v.f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsFloat returns the float form; integers widen.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case kindFloat:
		return v.f, true
	case kindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsBool returns the boolean form, ok only for boolean values.
func (v Value) AsBool() (bool, bool) {
	if v.kind != kindBool {
		return false, false
	}
	return v.b, true
}

// AsList returns the list form, ok only for list values.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != kindList {
		return nil, false
	}
	return v.list, true
}

// AsMap returns the map form, ok only for map values.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != kindMap {
		return nil, false
	}
	return v.obj, true
}

// Interface returns the value as a plain Go value for JSON payloads.
func (v Value) Interface() any {
	switch v.kind {
	case kindString:
		return v.str
	case kindInt:
		return v.i
	case kindFloat:
		return v.f
	case kindBool:
		return v.b
	case kindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	case kindMap:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the value as its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON value. JSON numbers become integers when
// they carry no fractional part, floats otherwise.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	decoded, err := fromAny(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// fromAny converts a decoded JSON value into a Value.
func fromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("parameter value: invalid number %q", x.String())
		}
		return Float(f), nil
	case float64:
		if x == math.Trunc(x) {
			return Int(int64(x)), nil
		}
		return Float(x), nil
	case []any:
		list := make([]Value, len(x))
		for i, e := range x {
			v, err := fromAny(e)
			if err != nil {
				return Value{}, err
			}
			list[i] = v
		}
		return Value{kind: kindList, list: list}, nil
	case map[string]any:
		obj := make(map[string]Value, len(x))
		for k, e := range x {
			v, err := fromAny(e)
			if err != nil {
				return Value{}, err
			}
			obj[k] = v
		}
		return Value{kind: kindMap, obj: obj}, nil
	default:
		return Value{}, fmt.Errorf("parameter value: unsupported type %T", raw)
	}
}

// Params is the open parameter map passed to capability actions.
type Params map[string]Value

// Interface converts the map to plain Go values for JSON payloads.
func (p Params) Interface() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v.Interface()
	}
	return out
}
