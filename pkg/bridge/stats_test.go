package bridge

import (
	"testing"
	"time"

	"rosmqtt/pkg/config"
)

func TestStatsCounting(t *testing.T) {
	base := time.Unix(1700000000, 0)
	stats := NewStats(base)

	if stats.MessageCount() != 0 {
		t.Fatal("fresh stats should start at zero")
	}
	if got := stats.RecordMessage(base.Add(time.Second)); got != 1 {
		t.Fatalf("first record = %d, want 1", got)
	}
	if got := stats.RecordMessage(base.Add(2 * time.Second)); got != 2 {
		t.Fatalf("second record = %d, want 2", got)
	}
	if stats.MessageCount() != 2 {
		t.Fatalf("count = %d, want 2", stats.MessageCount())
	}
}

func TestStatsActivity(t *testing.T) {
	base := time.Unix(1700000000, 0)
	stats := NewStats(base)

	if stats.IsActive(base, time.Minute) {
		t.Fatal("no messages yet, should be inactive")
	}

	stats.RecordMessage(base.Add(time.Second))
	if !stats.IsActive(base.Add(5*time.Second), 10*time.Second) {
		t.Fatal("recent message should count as active")
	}
	if stats.IsActive(base.Add(time.Hour), 10*time.Second) {
		t.Fatal("stale message should count as inactive")
	}
}

func TestStatsSnapshot(t *testing.T) {
	base := time.Unix(1700000000, 0)
	stats := NewStats(base)
	stats.RecordMessage(base.Add(2 * time.Second))
	stats.RecordMessage(base.Add(4 * time.Second))

	cfg := config.BridgeConfig{
		Name: "pose",
		Type: config.BridgeTypeROSToMQTT,
		ROS: config.ROSConfig{
			Topic:       "/robot/pose",
			MessageType: "geometry_msgs/PoseStamped",
		},
		MQTT: config.BridgeMQTTConfig{TopicName: "pose"},
	}

	snapshot := stats.SnapshotAt(base.Add(10*time.Second), cfg)
	if snapshot.BridgeName != "pose" {
		t.Fatalf("bridge name = %q", snapshot.BridgeName)
	}
	if !snapshot.Enabled {
		t.Fatal("default enabled should be true")
	}
	if snapshot.MessageCount != 2 {
		t.Fatalf("count = %d", snapshot.MessageCount)
	}
	if snapshot.UptimeSeconds != 10 {
		t.Fatalf("uptime = %v", snapshot.UptimeSeconds)
	}
	if snapshot.MessageRate != 0.2 {
		t.Fatalf("rate = %v", snapshot.MessageRate)
	}
	if snapshot.ROSConfig.Topic != "/robot/pose" {
		t.Fatalf("ros topic = %q", snapshot.ROSConfig.Topic)
	}
	wantLast := base.Add(4 * time.Second).UTC().Format(time.RFC3339Nano)
	if snapshot.LastMessageTime != wantLast {
		t.Fatalf("last message = %q, want %q", snapshot.LastMessageTime, wantLast)
	}
}

func TestStatsSnapshotWithoutMessages(t *testing.T) {
	base := time.Unix(1700000000, 0)
	stats := NewStats(base)

	snapshot := stats.SnapshotAt(base, config.BridgeConfig{Name: "idle"})
	if snapshot.MessageRate != 0 {
		t.Fatalf("rate = %v, want 0", snapshot.MessageRate)
	}
	if snapshot.LastMessageTime != "" {
		t.Fatalf("last message = %q, want empty", snapshot.LastMessageTime)
	}
}
