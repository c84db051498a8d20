package rosmsg

func init() {
	register("geometry_msgs/Vector3", func() Message { return &Vector3{} })
	register("geometry_msgs/Point", func() Message { return &Point{} })
	register("geometry_msgs/Quaternion", func() Message { return &Quaternion{} })
	register("geometry_msgs/Twist", func() Message { return &Twist{} })
	register("geometry_msgs/Pose", func() Message { return &Pose{} })
	register("geometry_msgs/PoseStamped", func() Message { return &PoseStamped{} })
}

// Vector3 mirrors geometry_msgs/Vector3.
type Vector3 struct {
	X, Y, Z float64
}

func (m *Vector3) TypeName() string { return "geometry_msgs/Vector3" }

func (m *Vector3) Fields() []Field {
	return []Field{
		{Name: "x", Value: m.X},
		{Name: "y", Value: m.Y},
		{Name: "z", Value: m.Z},
	}
}

func (m *Vector3) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Vector3) SetField(name string, value any) error {
	data, ok := coerceFloat64(value)
	if !ok {
		return coercionErr(m, name, "float64", value)
	}
	switch name {
	case "x":
		m.X = data
	case "y":
		m.Y = data
	case "z":
		m.Z = data
	default:
		return noSuchField(m, name)
	}
	return nil
}

// Point mirrors geometry_msgs/Point.
type Point struct {
	X, Y, Z float64
}

func (m *Point) TypeName() string { return "geometry_msgs/Point" }

func (m *Point) Fields() []Field {
	return []Field{
		{Name: "x", Value: m.X},
		{Name: "y", Value: m.Y},
		{Name: "z", Value: m.Z},
	}
}

func (m *Point) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Point) SetField(name string, value any) error {
	data, ok := coerceFloat64(value)
	if !ok {
		return coercionErr(m, name, "float64", value)
	}
	switch name {
	case "x":
		m.X = data
	case "y":
		m.Y = data
	case "z":
		m.Z = data
	default:
		return noSuchField(m, name)
	}
	return nil
}

// Quaternion mirrors geometry_msgs/Quaternion.
type Quaternion struct {
	X, Y, Z, W float64
}

func (m *Quaternion) TypeName() string { return "geometry_msgs/Quaternion" }

func (m *Quaternion) Fields() []Field {
	return []Field{
		{Name: "x", Value: m.X},
		{Name: "y", Value: m.Y},
		{Name: "z", Value: m.Z},
		{Name: "w", Value: m.W},
	}
}

func (m *Quaternion) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Quaternion) SetField(name string, value any) error {
	data, ok := coerceFloat64(value)
	if !ok {
		return coercionErr(m, name, "float64", value)
	}
	switch name {
	case "x":
		m.X = data
	case "y":
		m.Y = data
	case "z":
		m.Z = data
	case "w":
		m.W = data
	default:
		return noSuchField(m, name)
	}
	return nil
}

// Twist mirrors geometry_msgs/Twist.
type Twist struct {
	Linear  Vector3
	Angular Vector3
}

func (m *Twist) TypeName() string { return "geometry_msgs/Twist" }

func (m *Twist) Fields() []Field {
	return []Field{
		{Name: "linear", Value: &m.Linear},
		{Name: "angular", Value: &m.Angular},
	}
}

func (m *Twist) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Twist) SetField(name string, value any) error {
	vec, ok := value.(*Vector3)
	if !ok {
		return coercionErr(m, name, "geometry_msgs/Vector3", value)
	}
	switch name {
	case "linear":
		m.Linear = *vec
	case "angular":
		m.Angular = *vec
	default:
		return noSuchField(m, name)
	}
	return nil
}

// Pose mirrors geometry_msgs/Pose.
type Pose struct {
	Position    Point
	Orientation Quaternion
}

func (m *Pose) TypeName() string { return "geometry_msgs/Pose" }

func (m *Pose) Fields() []Field {
	return []Field{
		{Name: "position", Value: &m.Position},
		{Name: "orientation", Value: &m.Orientation},
	}
}

func (m *Pose) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Pose) SetField(name string, value any) error {
	switch name {
	case "position":
		point, ok := value.(*Point)
		if !ok {
			return coercionErr(m, name, "geometry_msgs/Point", value)
		}
		m.Position = *point
	case "orientation":
		quat, ok := value.(*Quaternion)
		if !ok {
			return coercionErr(m, name, "geometry_msgs/Quaternion", value)
		}
		m.Orientation = *quat
	default:
		return noSuchField(m, name)
	}
	return nil
}

// PoseStamped mirrors geometry_msgs/PoseStamped.
type PoseStamped struct {
	Header Header
	Pose   Pose
}

func (m *PoseStamped) TypeName() string { return "geometry_msgs/PoseStamped" }

func (m *PoseStamped) Fields() []Field {
	return []Field{
		{Name: "header", Value: &m.Header},
		{Name: "pose", Value: &m.Pose},
	}
}

func (m *PoseStamped) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *PoseStamped) SetField(name string, value any) error {
	switch name {
	case "header":
		header, ok := value.(*Header)
		if !ok {
			return coercionErr(m, name, "std_msgs/Header", value)
		}
		m.Header = *header
	case "pose":
		pose, ok := value.(*Pose)
		if !ok {
			return coercionErr(m, name, "geometry_msgs/Pose", value)
		}
		m.Pose = *pose
	default:
		return noSuchField(m, name)
	}
	return nil
}
