package bridge

import (
	"time"

	"rosmqtt/pkg/codec"
	"rosmqtt/pkg/rosmsg"
)

// Envelope is the generic payload published to MQTT for one forwarded record.
type Envelope struct {
	SourceNode          string           `json:"source_node"`
	SourceTopic         string           `json:"source_topic"`
	Data                codec.Value      `json:"data"`
	MessageID           uint64           `json:"message_id"`
	FrameID             string           `json:"frame_id"`
	BridgeName          string           `json:"bridge_name"`
	BridgeMessageCount  uint64           `json:"bridge_message_count"`
	BridgeUptimeSeconds float64          `json:"bridge_uptime_seconds"`
	BridgeConfig        EnvelopeConfig   `json:"bridge_config"`
	HeaderTimestamp     *HeaderTimestamp `json:"header_timestamp,omitempty"`
}

// EnvelopeConfig is the bridge configuration summary embedded per message.
type EnvelopeConfig struct {
	ROSTopic    string `json:"ros_topic"`
	MessageType string `json:"message_type"`
	DataField   string `json:"data_field"`
}

// HeaderTimestamp is the record's own header stamp, when extraction is
// enabled and the record carries one.
type HeaderTimestamp struct {
	Secs      int64   `json:"secs"`
	Nsecs     int64   `json:"nsecs"`
	Timestamp float64 `json:"timestamp"`
	ISOTime   string  `json:"iso_time"`
}

// ExtractHeaderTimestamp reads header.stamp.{sec,nanosec} from a record.
// Records without a header or stamp yield nil, never an error.
func ExtractHeaderTimestamp(msg rosmsg.Message) *HeaderTimestamp {
	headerValue, ok := msg.Field("header")
	if !ok {
		return nil
	}
	header, ok := headerValue.(rosmsg.Message)
	if !ok {
		return nil
	}

	stampValue, ok := header.Field("stamp")
	if !ok {
		return nil
	}
	stamp, ok := stampValue.(rosmsg.Message)
	if !ok {
		return nil
	}

	secs := intField(stamp, "sec")
	nsecs := intField(stamp, "nanosec")
	total := float64(secs) + float64(nsecs)*1e-9

	return &HeaderTimestamp{
		Secs:      secs,
		Nsecs:     nsecs,
		Timestamp: total,
		ISOTime:   time.Unix(secs, nsecs).UTC().Format(time.RFC3339Nano),
	}
}

func intField(msg rosmsg.Message, name string) int64 {
	value, ok := msg.Field(name)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case int32:
		return int64(v)
	case uint32:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
