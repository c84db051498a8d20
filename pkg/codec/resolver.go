package codec

import (
	"fmt"
	"strings"

	"rosmqtt/pkg/rosmsg"
)

// Selector is a parsed field selector.
//
// A selector is either a single dotted path ("pose.position.x") or a
// comma-separated set of paths ("linear.x,angular.z"). Parsing happens once;
// the same Selector is reused for every message of a session.
type Selector struct {
	raw   string
	paths []selectorPath
}

type selectorPath struct {
	raw      string
	segments []string
}

// ParseSelector parses a selector expression. Empty path components are kept
// and fail at resolve time, so a stray comma surfaces as an error instead of
// silently changing the shape of the output.
func ParseSelector(raw string) *Selector {
	parts := strings.Split(raw, ",")
	paths := make([]selectorPath, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		paths = append(paths, selectorPath{raw: trimmed, segments: strings.Split(trimmed, ".")})
	}

	return &Selector{raw: raw, paths: paths}
}

// Raw returns the original selector expression.
func (s *Selector) Raw() string { return s.raw }

// Multi reports whether the selector names more than one path.
func (s *Selector) Multi() bool { return len(s.paths) > 1 }

// Resolved is one raw field value pulled out of a record.
type Resolved struct {
	// Path is the full dotted path string; multi-path results are keyed by
	// it so overlapping leaf names from different paths never collide.
	Path  string
	Value any
}

// Resolve walks every path of the selector against a record.
//
// A missing segment anywhere aborts with a field_not_found error naming the
// offending segment. Resolved values are never cached across messages.
func (s *Selector) Resolve(msg rosmsg.Message) ([]Resolved, error) {
	results := make([]Resolved, 0, len(s.paths))
	for _, path := range s.paths {
		if path.raw == "" {
			return nil, NewError(ErrorFieldNotFound, fmt.Sprintf("empty path component in selector %q", s.raw))
		}
		value, err := resolvePath(msg, path)
		if err != nil {
			return nil, err
		}
		results = append(results, Resolved{Path: path.raw, Value: value})
	}

	return results, nil
}

func resolvePath(msg rosmsg.Message, path selectorPath) (any, error) {
	var current any = msg
	for _, segment := range path.segments {
		record, ok := current.(rosmsg.Message)
		if !ok {
			return nil, NewError(ErrorFieldNotFound,
				fmt.Sprintf("segment %q of %q is not a record", segment, path.raw))
		}
		value, ok := record.Field(segment)
		if !ok {
			return nil, NewError(ErrorFieldNotFound,
				fmt.Sprintf("message has no field %q (path %q)", segment, path.raw))
		}
		current = value
	}

	return current, nil
}
