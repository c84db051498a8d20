package codec

import (
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"rosmqtt/pkg/rosmsg"
)

// DecodePayload interprets an inbound payload as a plain Go value.
//
// The payload is tried as JSON first. Valid JSON scalars are used directly;
// JSON objects prefer the "data" key and fall back to the whole object.
// Anything that is not valid JSON is treated as raw UTF-8 text.
func DecodePayload(payload []byte) (any, error) {
	if !utf8.Valid(payload) {
		return nil, NewError(ErrorPayloadDecode, "payload is not valid UTF-8")
	}

	if !gjson.ValidBytes(payload) {
		return string(payload), nil
	}

	parsed := gjson.ParseBytes(payload)
	switch parsed.Type {
	case gjson.True, gjson.False:
		return parsed.Bool(), nil
	case gjson.Number:
		return parsed.Num, nil
	case gjson.String:
		return parsed.Str, nil
	case gjson.Null:
		return nil, nil
	default:
		if parsed.IsObject() {
			if data := parsed.Get("data"); data.Exists() {
				return data.Value(), nil
			}
		}
		return parsed.Value(), nil
	}
}

// DecodeInto decodes the payload and coerces the result into the named field
// of a freshly constructed target record.
//
// Failures are categorized: payload_decode when the payload cannot be read,
// type_coercion or field_not_found when the target field rejects the value.
func DecodeInto(msg rosmsg.Message, field string, payload []byte) error {
	value, err := DecodePayload(payload)
	if err != nil {
		return err
	}

	return msg.SetField(field, value)
}
