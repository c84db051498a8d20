package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"

	"rosmqtt/pkg/rosmsg"
)

const defaultImageFormat = "jpeg"

// DefaultImageKinds are the record kinds whose "data" field carries image
// bytes and gets the data-URI wrapping.
var DefaultImageKinds = []string{"sensor_msgs/Image", "sensor_msgs/CompressedImage"}

// Encoder converts typed field values into generic Values.
type Encoder struct {
	imageKinds map[string]struct{}
	log        *slog.Logger
}

// NewEncoder creates an encoder. A nil imageKinds slice selects
// DefaultImageKinds; a nil logger selects slog.Default.
func NewEncoder(log *slog.Logger, imageKinds []string) *Encoder {
	if log == nil {
		log = slog.Default()
	}
	if imageKinds == nil {
		imageKinds = DefaultImageKinds
	}

	kinds := make(map[string]struct{}, len(imageKinds))
	for _, kind := range imageKinds {
		kinds[kind] = struct{}{}
	}

	return &Encoder{
		imageKinds: kinds,
		log:        log.With("component", "codec.encoder"),
	}
}

// EncodeSelection resolves a selector against a record and encodes the
// result: a single value for single-path selectors, an ordered map keyed by
// full path string for multi-path selectors.
func (e *Encoder) EncodeSelection(msg rosmsg.Message, sel *Selector) (Value, error) {
	resolved, err := sel.Resolve(msg)
	if err != nil {
		return Value{}, err
	}

	kind := msg.TypeName()
	if !sel.Multi() {
		return e.Encode(resolved[0].Value, resolved[0].Path, kind, msg), nil
	}

	entries := make([]MapEntry, 0, len(resolved))
	for _, field := range resolved {
		entries = append(entries, MapEntry{
			Key:   field.Path,
			Value: e.Encode(field.Value, field.Path, kind, msg),
		})
	}
	return MapValue(entries), nil
}

// Encode converts one typed field value into a generic Value.
//
// fieldName and recordKind are the dispatch context for the image heuristic;
// sibling is the record asked for the "format" field when sniffing the image
// format. Encode never fails: an unexpected internal error degrades the field
// to null so a single corrupt field cannot drop the whole envelope.
func (e *Encoder) Encode(value any, fieldName, recordKind string, sibling rosmsg.Message) (result Value) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Field encoding failed", "field", fieldName, "message_type", recordKind, "error", r)
			result = Null()
		}
	}()

	return e.encode(value, fieldName, recordKind, sibling)
}

func (e *Encoder) encode(value any, fieldName, recordKind string, sibling rosmsg.Message) Value {
	if value == nil {
		return Null()
	}

	if raw, ok := bufferBytes(value); ok {
		encoded := base64.StdEncoding.EncodeToString(raw)
		if fieldName == "data" && e.isImageKind(recordKind) {
			return BinaryValue(fmt.Sprintf("data:image/%s;base64,%s", sniffImageFormat(sibling), encoded))
		}
		return BinaryValue(encoded)
	}

	if record, ok := value.(rosmsg.Message); ok {
		fields := record.Fields()
		entries := make([]MapEntry, 0, len(fields))
		for _, field := range fields {
			entries = append(entries, MapEntry{
				Key:   field.Name,
				Value: e.encode(field.Value, field.Name, record.TypeName(), record),
			})
		}
		return MapValue(entries)
	}

	// Sequence elements intentionally reuse the parent field/kind context,
	// image heuristic included.
	switch seq := value.(type) {
	case []string:
		items := make([]Value, 0, len(seq))
		for _, item := range seq {
			items = append(items, StringValue(item))
		}
		return ListValue(items)
	case []rosmsg.Message:
		items := make([]Value, 0, len(seq))
		for _, item := range seq {
			items = append(items, e.encode(item, fieldName, recordKind, sibling))
		}
		return ListValue(items)
	case []any:
		items := make([]Value, 0, len(seq))
		for _, item := range seq {
			items = append(items, e.encode(item, fieldName, recordKind, sibling))
		}
		return ListValue(items)
	}

	switch scalar := value.(type) {
	case bool:
		return BoolValue(scalar)
	case string:
		return StringValue(scalar)
	case int:
		return IntValue(int64(scalar))
	case int8:
		return IntValue(int64(scalar))
	case int16:
		return IntValue(int64(scalar))
	case int32:
		return IntValue(int64(scalar))
	case int64:
		return IntValue(scalar)
	case uint8:
		return IntValue(int64(scalar))
	case uint16:
		return IntValue(int64(scalar))
	case uint32:
		return IntValue(int64(scalar))
	case uint64:
		return IntValue(int64(scalar))
	case float32:
		return FloatValue(float64(scalar))
	case float64:
		return FloatValue(scalar)
	}

	// Best-effort fallback for shapes the dispatch does not know.
	return StringValue(fmt.Sprintf("%v", value))
}

func (e *Encoder) isImageKind(recordKind string) bool {
	_, ok := e.imageKinds[recordKind]
	return ok
}

// sniffImageFormat asks the sibling record for a "format" field and matches
// it case-insensitively; anything unrecognized defaults to jpeg.
func sniffImageFormat(sibling rosmsg.Message) string {
	if sibling == nil {
		return defaultImageFormat
	}
	value, ok := sibling.Field("format")
	if !ok {
		return defaultImageFormat
	}
	format, ok := value.(string)
	if !ok {
		return defaultImageFormat
	}

	format = strings.ToLower(format)
	switch {
	case strings.Contains(format, "png"):
		return "png"
	case strings.Contains(format, "jpeg"), strings.Contains(format, "jpg"):
		return "jpeg"
	default:
		return defaultImageFormat
	}
}

// bufferBytes flattens binary buffers (raw bytes or fixed-width numeric
// slices) into their little-endian byte representation.
func bufferBytes(value any) ([]byte, bool) {
	switch buf := value.(type) {
	case []byte:
		return buf, true
	case []int8, []int16, []int32, []int64, []uint16, []uint32, []uint64, []float32, []float64:
		var out bytes.Buffer
		if err := binary.Write(&out, binary.LittleEndian, buf); err != nil {
			return nil, false
		}
		return out.Bytes(), true
	default:
		return nil, false
	}
}
