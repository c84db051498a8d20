package codec

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind discriminates the variants of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// MapEntry is one key/value pair of an ordered map Value.
type MapEntry struct {
	Key   string
	Value Value
}

// Value is the JSON-safe interchange value the bridge moves between buses.
//
// It is a tagged union over null, bool, number, string, ordered list, ordered
// map, and binary. Binary data is always carried as base64 text (optionally a
// data URI), never as raw bytes, so every Value marshals to plain JSON.
type Value struct {
	kind    Kind
	boolVal bool
	numVal  float64
	intVal  int64
	isInt   bool
	strVal  string
	list    []Value
	entries []MapEntry
}

// Null returns the null Value.
func Null() Value {
	return Value{kind: KindNull}
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// IntValue wraps an integer, preserved exactly through JSON marshaling.
func IntValue(i int64) Value {
	return Value{kind: KindNumber, intVal: i, numVal: float64(i), isInt: true}
}

// FloatValue wraps a floating point number.
func FloatValue(f float64) Value {
	return Value{kind: KindNumber, numVal: f}
}

// StringValue wraps a string.
func StringValue(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// BinaryValue wraps already-encoded binary text (base64 or a data URI).
func BinaryValue(encoded string) Value {
	return Value{kind: KindBinary, strVal: encoded}
}

// ListValue wraps an ordered list of values.
func ListValue(items []Value) Value {
	return Value{kind: KindList, list: items}
}

// MapValue wraps ordered key/value entries; insertion order is preserved.
func MapValue(entries []MapEntry) Value {
	return Value{kind: KindMap, entries: entries}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; zero value for other kinds.
func (v Value) Bool() bool { return v.boolVal }

// Float returns the numeric payload as float64.
func (v Value) Float() float64 { return v.numVal }

// Int returns the numeric payload as int64 when it was stored as an integer.
func (v Value) Int() (int64, bool) { return v.intVal, v.isInt }

// Text returns the string or binary payload.
func (v Value) Text() string { return v.strVal }

// Items returns the list payload.
func (v Value) Items() []Value { return v.list }

// Entries returns the ordered map payload.
func (v Value) Entries() []MapEntry { return v.entries }

// Get looks up a map entry by key.
func (v Value) Get(key string) (Value, bool) {
	for _, entry := range v.entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// MarshalJSON renders the value as plain JSON, keeping map insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return strconv.AppendBool(nil, v.boolVal), nil
	case KindNumber:
		if v.isInt {
			return strconv.AppendInt(nil, v.intVal, 10), nil
		}
		return json.Marshal(v.numVal)
	case KindString, KindBinary:
		return json.Marshal(v.strVal)
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			encoded, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(encoded)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMap:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, entry := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(entry.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			encoded, err := entry.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(encoded)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}
