package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	envConfigPath   = "ROSMQTT_CONFIG"
	envMQTTBroker   = "ROSMQTT_MQTT_BROKER_URL"
	envMQTTUsername = "ROSMQTT_MQTT_USERNAME"
	envMQTTPassword = "ROSMQTT_MQTT_PASSWORD"
)

const (
	// BridgeTypeROSToMQTT forwards typed records out to MQTT.
	BridgeTypeROSToMQTT = "ros_to_mqtt"
	// BridgeTypeMQTTToROS coerces MQTT payloads back into typed records.
	BridgeTypeMQTTToROS = "mqtt_to_ros"
)

// Config is the root runtime configuration loaded from config.yaml.
type Config struct {
	MQTT    MQTTConfig     `yaml:"mqtt"`
	Bridges []BridgeConfig `yaml:"bridges"`
	Codec   CodecConfig    `yaml:"codec,omitempty"`
	Logging LoggingConfig  `yaml:"logging,omitempty"`
	Status  StatusConfig   `yaml:"status,omitempty"`
}

// MQTTConfig configures the shared broker connection.
type MQTTConfig struct {
	BrokerURL             string `yaml:"broker_url"`
	ClientID              string `yaml:"client_id"`
	Username              string `yaml:"username"`
	Password              string `yaml:"password"`
	TopicPrefix           string `yaml:"topic_prefix"`
	KeepAliveSeconds      int    `yaml:"keep_alive_seconds"`
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds"`
}

// CodecConfig tunes the transform engine.
type CodecConfig struct {
	// ImageMessageTypes overrides the record kinds whose "data" field is
	// wrapped as an image data URI. Empty keeps the builtin defaults.
	ImageMessageTypes []string `yaml:"image_message_types,omitempty"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `yaml:"format,omitempty"`
	Level     string `yaml:"level,omitempty"`
	AddSource bool   `yaml:"add_source,omitempty"`
}

// StatusConfig configures the HTTP status endpoint.
type StatusConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BridgeConfig declares one bridge between a ROS topic and an MQTT topic.
// It is read-only after loading.
type BridgeConfig struct {
	Name     string           `yaml:"name"`
	Enabled  *bool            `yaml:"enabled,omitempty"`
	Type     string           `yaml:"type,omitempty"`
	ROS      ROSConfig        `yaml:"ros_config"`
	MQTT     BridgeMQTTConfig `yaml:"mqtt_config"`
	Metadata MetadataConfig   `yaml:"metadata,omitempty"`
}

// IsEnabled reports the enabled flag, defaulting to true when unset.
func (b BridgeConfig) IsEnabled() bool {
	return b.Enabled == nil || *b.Enabled
}

// ROSConfig is the ROS side of one bridge.
type ROSConfig struct {
	Topic                  string  `yaml:"topic" json:"topic"`
	MessageType            string  `yaml:"message_type" json:"message_type"`
	QueueSize              int     `yaml:"queue_size,omitempty" json:"queue_size"`
	DataField              string  `yaml:"data_field,omitempty" json:"data_field"`
	PublishInterval        float64 `yaml:"publish_interval,omitempty" json:"publish_interval,omitempty"`
	ExtractHeaderTimestamp bool    `yaml:"extract_header_timestamp,omitempty" json:"extract_header_timestamp"`
}

// BridgeMQTTConfig is the MQTT side of one bridge.
type BridgeMQTTConfig struct {
	TopicName   string `yaml:"topic_name" json:"topic_name"`
	TopicSuffix string `yaml:"topic_suffix,omitempty" json:"topic_suffix"`
	QoS         *int   `yaml:"qos,omitempty" json:"qos"`
	Retain      bool   `yaml:"retain,omitempty" json:"retain"`
}

// QoSLevel returns the configured QoS, defaulting to 1.
func (m BridgeMQTTConfig) QoSLevel() byte {
	if m.QoS == nil {
		return 1
	}
	return byte(*m.QoS)
}

// MetadataConfig carries envelope metadata for one bridge.
type MetadataConfig struct {
	SourceNode string `yaml:"source_node,omitempty" json:"source_node"`
	FrameID    string `yaml:"frame_id,omitempty" json:"frame_id"`
}

// LoadConfig resolves config.yaml, unmarshals it, applies defaults, and
// applies environment overrides.
func LoadConfig() (*Config, error) {
	configPath, err := findConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(configPath)
}

// LoadConfigFile loads one explicit config file.
func LoadConfigFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = "ros2"
	}
	if cfg.MQTT.KeepAliveSeconds <= 0 {
		cfg.MQTT.KeepAliveSeconds = 30
	}
	if cfg.MQTT.ConnectTimeoutSeconds <= 0 {
		cfg.MQTT.ConnectTimeoutSeconds = 10
	}
	if cfg.Status.Host == "" {
		cfg.Status.Host = "0.0.0.0"
	}
	if cfg.Status.Port == 0 {
		cfg.Status.Port = 18830
	}

	for i := range cfg.Bridges {
		bridge := &cfg.Bridges[i]
		if bridge.Type == "" {
			bridge.Type = BridgeTypeROSToMQTT
		}
		if bridge.ROS.QueueSize <= 0 {
			bridge.ROS.QueueSize = 10
		}
		if bridge.ROS.DataField == "" {
			bridge.ROS.DataField = "data"
		}
		if bridge.MQTT.TopicSuffix == "" {
			bridge.MQTT.TopicSuffix = "data"
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if broker := strings.TrimSpace(os.Getenv(envMQTTBroker)); broker != "" {
		cfg.MQTT.BrokerURL = broker
	}
	if username := strings.TrimSpace(os.Getenv(envMQTTUsername)); username != "" {
		cfg.MQTT.Username = username
	}
	if password := os.Getenv(envMQTTPassword); password != "" {
		cfg.MQTT.Password = password
	}
}

func validate(cfg *Config) error {
	seen := make(map[string]struct{}, len(cfg.Bridges))
	for _, bridge := range cfg.Bridges {
		if strings.TrimSpace(bridge.Name) == "" {
			return fmt.Errorf("bridge without a name")
		}
		if _, dup := seen[bridge.Name]; dup {
			return fmt.Errorf("duplicate bridge name %q", bridge.Name)
		}
		seen[bridge.Name] = struct{}{}

		switch bridge.Type {
		case BridgeTypeROSToMQTT, BridgeTypeMQTTToROS:
		default:
			return fmt.Errorf("bridge %q has unsupported type %q", bridge.Name, bridge.Type)
		}
	}

	return nil
}

// findConfigPath resolves the active config file location.
//
// Precedence is ROSMQTT_CONFIG first, then cwd-local fallback paths.
func findConfigPath() (string, error) {
	if value := strings.TrimSpace(os.Getenv(envConfigPath)); value != "" {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return value, nil
		}
		return "", fmt.Errorf("%s does not point to a file: %s", envConfigPath, value)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current working directory: %w", err)
	}

	candidates := []string{
		filepath.Join(cwd, "config.yaml"),
		filepath.Join(cwd, "config", "config.yaml"),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("config.yaml not found (checked %s and %s)", candidates[0], candidates[1])
}
