package bridge

import (
	"sync"
	"time"

	"rosmqtt/pkg/config"
)

// Stats tracks per-bridge counters. Safe for concurrent use: delivery
// callbacks write while the status endpoint reads.
type Stats struct {
	mu           sync.Mutex
	startTime    time.Time
	messageCount uint64
	lastMessage  time.Time
}

// NewStats starts tracking from now.
func NewStats(now time.Time) *Stats {
	return &Stats{startTime: now}
}

// RecordMessage counts one message at now and returns the new total.
func (s *Stats) RecordMessage(now time.Time) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageCount++
	s.lastMessage = now
	return s.messageCount
}

// MessageCount returns the current total.
func (s *Stats) MessageCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageCount
}

// Uptime returns the elapsed time since tracking started.
func (s *Stats) Uptime(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.startTime)
}

// IsActive reports whether a message has been seen within the timeout.
func (s *Stats) IsActive(now time.Time, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastMessage.IsZero() {
		return false
	}
	return now.Sub(s.lastMessage) < timeout
}

// Snapshot is the externally visible statistics of one bridge.
type Snapshot struct {
	BridgeName      string                  `json:"bridge_name"`
	Enabled         bool                    `json:"enabled"`
	MessageCount    uint64                  `json:"message_count"`
	UptimeSeconds   float64                 `json:"uptime_seconds"`
	LastMessageTime string                  `json:"last_message_time,omitempty"`
	MessageRate     float64                 `json:"message_rate"`
	ROSConfig       config.ROSConfig        `json:"ros_config"`
	MQTTConfig      config.BridgeMQTTConfig `json:"mqtt_config"`
	Metadata        config.MetadataConfig   `json:"metadata"`
}

// SnapshotAt assembles the snapshot for one bridge configuration at now.
func (s *Stats) SnapshotAt(now time.Time, cfg config.BridgeConfig) Snapshot {
	s.mu.Lock()
	count := s.messageCount
	last := s.lastMessage
	uptime := now.Sub(s.startTime).Seconds()
	s.mu.Unlock()

	rate := 0.0
	if uptime > 0 {
		rate = float64(count) / uptime
	}

	snapshot := Snapshot{
		BridgeName:    cfg.Name,
		Enabled:       cfg.IsEnabled(),
		MessageCount:  count,
		UptimeSeconds: uptime,
		MessageRate:   rate,
		ROSConfig:     cfg.ROS,
		MQTTConfig:    cfg.MQTT,
		Metadata:      cfg.Metadata,
	}
	if !last.IsZero() {
		snapshot.LastMessageTime = last.UTC().Format(time.RFC3339Nano)
	}

	return snapshot
}
