package codec

import (
	"errors"
	"fmt"

	"rosmqtt/pkg/rosmsg"
)

const (
	ErrorFieldNotFound = "field_not_found"
	ErrorCodec         = "codec_error"
	ErrorPayloadDecode = "payload_decode"
	ErrorTypeCoercion  = "type_coercion"
)

// Error represents a stable, categorized transform failure.
type Error struct {
	Category string
	Detail   string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail == "" {
		return e.Category
	}

	return fmt.Sprintf("%s: %s", e.Category, e.Detail)
}

// NewError creates a categorized codec error.
func NewError(category string, detail string) error {
	return &Error{Category: category, Detail: detail}
}

// CategoryFromError returns the stable category for an error when available.
func CategoryFromError(err error) string {
	if err == nil {
		return ""
	}

	var categorized *Error
	if errors.As(err, &categorized) {
		return categorized.Category
	}

	var coercion *rosmsg.CoercionError
	if errors.As(err, &coercion) {
		return ErrorTypeCoercion
	}

	var missing *rosmsg.FieldError
	if errors.As(err, &missing) {
		return ErrorFieldNotFound
	}

	return ErrorCodec
}
