package rosmsg

func init() {
	register("sensor_msgs/Image", func() Message { return &Image{} })
	register("sensor_msgs/CompressedImage", func() Message { return &CompressedImage{} })
	register("sensor_msgs/LaserScan", func() Message { return &LaserScan{} })
}

// CompressedImage mirrors sensor_msgs/CompressedImage.
type CompressedImage struct {
	Header Header
	Format string
	Data   []byte
}

func (m *CompressedImage) TypeName() string { return "sensor_msgs/CompressedImage" }

func (m *CompressedImage) Fields() []Field {
	return []Field{
		{Name: "header", Value: &m.Header},
		{Name: "format", Value: m.Format},
		{Name: "data", Value: m.Data},
	}
}

func (m *CompressedImage) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *CompressedImage) SetField(name string, value any) error {
	switch name {
	case "header":
		header, ok := value.(*Header)
		if !ok {
			return coercionErr(m, name, "std_msgs/Header", value)
		}
		m.Header = *header
	case "format":
		format, ok := coerceString(value)
		if !ok {
			return coercionErr(m, name, "string", value)
		}
		m.Format = format
	case "data":
		data, ok := coerceBytes(value)
		if !ok {
			return coercionErr(m, name, "bytes", value)
		}
		m.Data = data
	default:
		return noSuchField(m, name)
	}
	return nil
}

// Image mirrors sensor_msgs/Image.
type Image struct {
	Header      Header
	Height      uint32
	Width       uint32
	Encoding    string
	IsBigendian uint8
	Step        uint32
	Data        []byte
}

func (m *Image) TypeName() string { return "sensor_msgs/Image" }

func (m *Image) Fields() []Field {
	return []Field{
		{Name: "header", Value: &m.Header},
		{Name: "height", Value: m.Height},
		{Name: "width", Value: m.Width},
		{Name: "encoding", Value: m.Encoding},
		{Name: "is_bigendian", Value: m.IsBigendian},
		{Name: "step", Value: m.Step},
		{Name: "data", Value: m.Data},
	}
}

func (m *Image) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *Image) SetField(name string, value any) error {
	switch name {
	case "header":
		header, ok := value.(*Header)
		if !ok {
			return coercionErr(m, name, "std_msgs/Header", value)
		}
		m.Header = *header
	case "height", "width", "step", "is_bigendian":
		data, ok := coerceInt64(value)
		if !ok {
			return coercionErr(m, name, "integer", value)
		}
		switch name {
		case "height":
			m.Height = uint32(data)
		case "width":
			m.Width = uint32(data)
		case "step":
			m.Step = uint32(data)
		case "is_bigendian":
			m.IsBigendian = uint8(data)
		}
	case "encoding":
		encoding, ok := coerceString(value)
		if !ok {
			return coercionErr(m, name, "string", value)
		}
		m.Encoding = encoding
	case "data":
		data, ok := coerceBytes(value)
		if !ok {
			return coercionErr(m, name, "bytes", value)
		}
		m.Data = data
	default:
		return noSuchField(m, name)
	}
	return nil
}

// LaserScan mirrors sensor_msgs/LaserScan.
type LaserScan struct {
	Header         Header
	AngleMin       float32
	AngleMax       float32
	AngleIncrement float32
	TimeIncrement  float32
	ScanTime       float32
	RangeMin       float32
	RangeMax       float32
	Ranges         []float32
	Intensities    []float32
}

func (m *LaserScan) TypeName() string { return "sensor_msgs/LaserScan" }

func (m *LaserScan) Fields() []Field {
	return []Field{
		{Name: "header", Value: &m.Header},
		{Name: "angle_min", Value: m.AngleMin},
		{Name: "angle_max", Value: m.AngleMax},
		{Name: "angle_increment", Value: m.AngleIncrement},
		{Name: "time_increment", Value: m.TimeIncrement},
		{Name: "scan_time", Value: m.ScanTime},
		{Name: "range_min", Value: m.RangeMin},
		{Name: "range_max", Value: m.RangeMax},
		{Name: "ranges", Value: m.Ranges},
		{Name: "intensities", Value: m.Intensities},
	}
}

func (m *LaserScan) Field(name string) (any, bool) {
	return fieldByName(m.Fields(), name)
}

func (m *LaserScan) SetField(name string, value any) error {
	switch name {
	case "header":
		header, ok := value.(*Header)
		if !ok {
			return coercionErr(m, name, "std_msgs/Header", value)
		}
		m.Header = *header
	case "angle_min", "angle_max", "angle_increment", "time_increment", "scan_time", "range_min", "range_max":
		data, ok := coerceFloat64(value)
		if !ok {
			return coercionErr(m, name, "float32", value)
		}
		switch name {
		case "angle_min":
			m.AngleMin = float32(data)
		case "angle_max":
			m.AngleMax = float32(data)
		case "angle_increment":
			m.AngleIncrement = float32(data)
		case "time_increment":
			m.TimeIncrement = float32(data)
		case "scan_time":
			m.ScanTime = float32(data)
		case "range_min":
			m.RangeMin = float32(data)
		case "range_max":
			m.RangeMax = float32(data)
		}
	case "ranges", "intensities":
		data, ok := value.([]float32)
		if !ok {
			return coercionErr(m, name, "float32 array", value)
		}
		if name == "ranges" {
			m.Ranges = data
		} else {
			m.Intensities = data
		}
	default:
		return noSuchField(m, name)
	}
	return nil
}
