package rosmsg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CoercionError reports a value that cannot be represented in a target field.
type CoercionError struct {
	TypeName string
	Field    string
	Target   string
	Value    any
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %T into %s field %s.%s", e.Value, e.Target, e.TypeName, e.Field)
}

// FieldError reports an assignment to a field the message does not declare.
type FieldError struct {
	TypeName string
	Field    string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("message type %s has no field %q", e.TypeName, e.Field)
}

func coercionErr(msg Message, field, target string, value any) error {
	return &CoercionError{TypeName: msg.TypeName(), Field: field, Target: target, Value: value}
}

func noSuchField(msg Message, field string) error {
	return &FieldError{TypeName: msg.TypeName(), Field: field}
}

func coerceBool(v any) (bool, bool) {
	switch value := v.(type) {
	case bool:
		return value, true
	case float64:
		return value != 0, true
	case int64:
		return value != 0, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

func coerceFloat64(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case bool:
		if value {
			return 1, true
		}
		return 0, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func coerceInt64(v any) (int64, bool) {
	switch value := v.(type) {
	case int64:
		return value, true
	case int:
		return int64(value), true
	case float64:
		if value != math.Trunc(value) {
			return 0, false
		}
		return int64(value), true
	case bool:
		if value {
			return 1, true
		}
		return 0, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func coerceString(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case bool:
		return strconv.FormatBool(value), true
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64), true
	case int64:
		return strconv.FormatInt(value, 10), true
	case []byte:
		return string(value), true
	default:
		return "", false
	}
}

func coerceBytes(v any) ([]byte, bool) {
	switch value := v.(type) {
	case []byte:
		return value, true
	case string:
		return []byte(value), true
	default:
		return nil, false
	}
}
