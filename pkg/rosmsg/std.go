package rosmsg

import "math"

func init() {
	register("std_msgs/String", func() Message { return &String{} })
	register("std_msgs/Bool", func() Message { return &Bool{} })
	register("std_msgs/Int32", func() Message { return &Int32{} })
	register("std_msgs/Int64", func() Message { return &Int64{} })
	register("std_msgs/Float32", func() Message { return &Float32{} })
	register("std_msgs/Float64", func() Message { return &Float64{} })
	register("std_msgs/Header", func() Message { return &Header{} })
	register("builtin_interfaces/Time", func() Message { return &Time{} })
}

// String mirrors std_msgs/String.
type String struct {
	Data string
}

func (m *String) TypeName() string { return "std_msgs/String" }

func (m *String) Fields() []Field {
	return []Field{{Name: "data", Value: m.Data}}
}

func (m *String) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *String) SetField(name string, value any) error {
	if name != "data" {
		return noSuchField(m, name)
	}
	data, ok := coerceString(value)
	if !ok {
		return coercionErr(m, name, "string", value)
	}
	m.Data = data
	return nil
}

// Bool mirrors std_msgs/Bool.
type Bool struct {
	Data bool
}

func (m *Bool) TypeName() string { return "std_msgs/Bool" }

func (m *Bool) Fields() []Field {
	return []Field{{Name: "data", Value: m.Data}}
}

func (m *Bool) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Bool) SetField(name string, value any) error {
	if name != "data" {
		return noSuchField(m, name)
	}
	data, ok := coerceBool(value)
	if !ok {
		return coercionErr(m, name, "bool", value)
	}
	m.Data = data
	return nil
}

// Int32 mirrors std_msgs/Int32.
type Int32 struct {
	Data int32
}

func (m *Int32) TypeName() string { return "std_msgs/Int32" }

func (m *Int32) Fields() []Field {
	return []Field{{Name: "data", Value: m.Data}}
}

func (m *Int32) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Int32) SetField(name string, value any) error {
	if name != "data" {
		return noSuchField(m, name)
	}
	data, ok := coerceInt64(value)
	if !ok || data < math.MinInt32 || data > math.MaxInt32 {
		return coercionErr(m, name, "int32", value)
	}
	m.Data = int32(data)
	return nil
}

// Int64 mirrors std_msgs/Int64.
type Int64 struct {
	Data int64
}

func (m *Int64) TypeName() string { return "std_msgs/Int64" }

func (m *Int64) Fields() []Field {
	return []Field{{Name: "data", Value: m.Data}}
}

func (m *Int64) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Int64) SetField(name string, value any) error {
	if name != "data" {
		return noSuchField(m, name)
	}
	data, ok := coerceInt64(value)
	if !ok {
		return coercionErr(m, name, "int64", value)
	}
	m.Data = data
	return nil
}

// Float32 mirrors std_msgs/Float32.
type Float32 struct {
	Data float32
}

func (m *Float32) TypeName() string { return "std_msgs/Float32" }

func (m *Float32) Fields() []Field {
	return []Field{{Name: "data", Value: m.Data}}
}

func (m *Float32) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Float32) SetField(name string, value any) error {
	if name != "data" {
		return noSuchField(m, name)
	}
	data, ok := coerceFloat64(value)
	if !ok {
		return coercionErr(m, name, "float32", value)
	}
	m.Data = float32(data)
	return nil
}

// Float64 mirrors std_msgs/Float64.
type Float64 struct {
	Data float64
}

func (m *Float64) TypeName() string { return "std_msgs/Float64" }

func (m *Float64) Fields() []Field {
	return []Field{{Name: "data", Value: m.Data}}
}

func (m *Float64) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Float64) SetField(name string, value any) error {
	if name != "data" {
		return noSuchField(m, name)
	}
	data, ok := coerceFloat64(value)
	if !ok {
		return coercionErr(m, name, "float64", value)
	}
	m.Data = data
	return nil
}

// Time mirrors builtin_interfaces/Time.
type Time struct {
	Sec     int32
	Nanosec uint32
}

func (m *Time) TypeName() string { return "builtin_interfaces/Time" }

func (m *Time) Fields() []Field {
	return []Field{
		{Name: "sec", Value: m.Sec},
		{Name: "nanosec", Value: m.Nanosec},
	}
}

func (m *Time) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Time) SetField(name string, value any) error {
	data, ok := coerceInt64(value)
	if !ok {
		return coercionErr(m, name, "integer", value)
	}
	switch name {
	case "sec":
		m.Sec = int32(data)
	case "nanosec":
		m.Nanosec = uint32(data)
	default:
		return noSuchField(m, name)
	}
	return nil
}

// Header mirrors std_msgs/Header.
type Header struct {
	Stamp   Time
	FrameID string
}

func (m *Header) TypeName() string { return "std_msgs/Header" }

func (m *Header) Fields() []Field {
	return []Field{
		{Name: "stamp", Value: &m.Stamp},
		{Name: "frame_id", Value: m.FrameID},
	}
}

func (m *Header) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Header) SetField(name string, value any) error {
	switch name {
	case "stamp":
		stamp, ok := value.(*Time)
		if !ok {
			return coercionErr(m, name, "builtin_interfaces/Time", value)
		}
		m.Stamp = *stamp
	case "frame_id":
		frameID, ok := coerceString(value)
		if !ok {
			return coercionErr(m, name, "string", value)
		}
		m.FrameID = frameID
	default:
		return noSuchField(m, name)
	}
	return nil
}
