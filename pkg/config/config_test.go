package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleConfig = `
mqtt:
  broker_url: tcp://broker.local:1883
  client_id: bridge-1
  topic_prefix: robots
bridges:
  - name: pose
    ros_config:
      topic: /robot/pose
      message_type: geometry_msgs/PoseStamped
      data_field: pose.position
      publish_interval: 0.5
      extract_header_timestamp: true
    mqtt_config:
      topic_name: robot_pose
      qos: 2
      retain: true
    metadata:
      source_node: nav_stack
      frame_id: map
  - name: cmd
    type: mqtt_to_ros
    enabled: false
    ros_config:
      topic: /cmd_vel
      message_type: std_msgs/Bool
    mqtt_config:
      topic_name: cmd
`

func TestLoadConfigFile(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MQTT.BrokerURL != "tcp://broker.local:1883" {
		t.Fatalf("broker url = %q", cfg.MQTT.BrokerURL)
	}
	if cfg.MQTT.TopicPrefix != "robots" {
		t.Fatalf("topic prefix = %q", cfg.MQTT.TopicPrefix)
	}
	if len(cfg.Bridges) != 2 {
		t.Fatalf("bridges = %d", len(cfg.Bridges))
	}

	pose := cfg.Bridges[0]
	if pose.Type != BridgeTypeROSToMQTT {
		t.Fatalf("default type = %q", pose.Type)
	}
	if !pose.IsEnabled() {
		t.Fatal("enabled should default to true")
	}
	if pose.ROS.DataField != "pose.position" {
		t.Fatalf("data field = %q", pose.ROS.DataField)
	}
	if pose.ROS.PublishInterval != 0.5 {
		t.Fatalf("publish interval = %v", pose.ROS.PublishInterval)
	}
	if !pose.ROS.ExtractHeaderTimestamp {
		t.Fatal("extract_header_timestamp should be set")
	}
	if pose.MQTT.QoSLevel() != 2 {
		t.Fatalf("qos = %d", pose.MQTT.QoSLevel())
	}
	if !pose.MQTT.Retain {
		t.Fatal("retain should be set")
	}
	if pose.Metadata.SourceNode != "nav_stack" || pose.Metadata.FrameID != "map" {
		t.Fatalf("metadata = %+v", pose.Metadata)
	}

	cmd := cfg.Bridges[1]
	if cmd.Type != BridgeTypeMQTTToROS {
		t.Fatalf("type = %q", cmd.Type)
	}
	if cmd.IsEnabled() {
		t.Fatal("explicit enabled: false should stick")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfig(t, `
bridges:
  - name: chatter
    ros_config:
      topic: /chatter
      message_type: std_msgs/String
    mqtt_config:
      topic_name: chatter
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MQTT.TopicPrefix != "ros2" {
		t.Fatalf("topic prefix = %q", cfg.MQTT.TopicPrefix)
	}
	if cfg.MQTT.KeepAliveSeconds != 30 {
		t.Fatalf("keep alive = %d", cfg.MQTT.KeepAliveSeconds)
	}
	if cfg.MQTT.ConnectTimeoutSeconds != 10 {
		t.Fatalf("connect timeout = %d", cfg.MQTT.ConnectTimeoutSeconds)
	}
	if cfg.Status.Host != "0.0.0.0" || cfg.Status.Port != 18830 {
		t.Fatalf("status = %+v", cfg.Status)
	}

	bridge := cfg.Bridges[0]
	if bridge.ROS.QueueSize != 10 {
		t.Fatalf("queue size = %d", bridge.ROS.QueueSize)
	}
	if bridge.ROS.DataField != "data" {
		t.Fatalf("data field = %q", bridge.ROS.DataField)
	}
	if bridge.MQTT.TopicSuffix != "data" {
		t.Fatalf("topic suffix = %q", bridge.MQTT.TopicSuffix)
	}
	if bridge.MQTT.QoSLevel() != 1 {
		t.Fatalf("qos = %d", bridge.MQTT.QoSLevel())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ROSMQTT_MQTT_BROKER_URL", "tcp://override:1883")
	t.Setenv("ROSMQTT_MQTT_USERNAME", "bridge")
	t.Setenv("ROSMQTT_MQTT_PASSWORD", "secret")

	cfg, err := LoadConfigFile(writeConfig(t, `
mqtt:
  broker_url: tcp://file:1883
  username: from_file
bridges: []
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MQTT.BrokerURL != "tcp://override:1883" {
		t.Fatalf("broker url = %q", cfg.MQTT.BrokerURL)
	}
	if cfg.MQTT.Username != "bridge" {
		t.Fatalf("username = %q", cfg.MQTT.Username)
	}
	if cfg.MQTT.Password != "secret" {
		t.Fatalf("password = %q", cfg.MQTT.Password)
	}
}

func TestValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing bridge name",
			content: `
bridges:
  - ros_config: {topic: /a, message_type: std_msgs/String}
    mqtt_config: {topic_name: a}
`,
			wantErr: "without a name",
		},
		{
			name: "duplicate bridge name",
			content: `
bridges:
  - name: dup
    ros_config: {topic: /a, message_type: std_msgs/String}
    mqtt_config: {topic_name: a}
  - name: dup
    ros_config: {topic: /b, message_type: std_msgs/String}
    mqtt_config: {topic_name: b}
`,
			wantErr: "duplicate bridge name",
		},
		{
			name: "unsupported type",
			content: `
bridges:
  - name: odd
    type: sideways
    ros_config: {topic: /a, message_type: std_msgs/String}
    mqtt_config: {topic_name: a}
`,
			wantErr: "unsupported type",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfigFile(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	path := writeConfig(t, "bridges: []\n")
	t.Setenv("ROSMQTT_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Bridges) != 0 {
		t.Fatalf("bridges = %d", len(cfg.Bridges))
	}
}

func TestLoadConfigEnvPathMissing(t *testing.T) {
	t.Setenv("ROSMQTT_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected missing env path to fail")
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	if _, err := LoadConfigFile(writeConfig(t, "bridges: [")); err == nil {
		t.Fatal("expected parse error")
	}
}
