package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"rosmqtt/pkg/codec"
	"rosmqtt/pkg/config"
	"rosmqtt/pkg/mqttbus"
	"rosmqtt/pkg/rosbus"
	"rosmqtt/pkg/rosmsg"
)

// State is the lifecycle state of a session.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

const (
	defaultSourceNode = "unknown_node"
	defaultFrameID    = "unknown_frame"
)

// Session runs one configured bridge in either direction.
//
// The per-message pipeline is invoked from the owning bus's delivery
// goroutine, which serializes events for one subscription; different sessions
// may run their pipelines concurrently.
type Session struct {
	cfg      config.BridgeConfig
	node     rosbus.Node
	mqtt     mqttbus.Client
	registry *rosmsg.Registry
	encoder  *codec.Encoder
	selector *codec.Selector
	log      *slog.Logger

	limiter *RateLimiter
	stats   *Stats

	mqttTopic string

	mu             sync.RWMutex
	state          State
	startErr       error
	construct      rosmsg.Constructor
	sub            rosbus.Subscription
	pub            rosbus.Publisher
	mqttSubscribed bool
}

// NewSession wires one bridge configuration against the two bus
// collaborators. The field selector is parsed here and reused per message.
func NewSession(cfg config.BridgeConfig, node rosbus.Node, client mqttbus.Client, registry *rosmsg.Registry, encoder *codec.Encoder, log *slog.Logger) *Session {
	if registry == nil {
		registry = rosmsg.Default
	}
	if log == nil {
		log = slog.Default()
	}
	if encoder == nil {
		encoder = codec.NewEncoder(log, nil)
	}

	return &Session{
		cfg:       cfg,
		node:      node,
		mqtt:      client,
		registry:  registry,
		encoder:   encoder,
		selector:  codec.ParseSelector(cfg.ROS.DataField),
		limiter:   NewRateLimiter(cfg.ROS.PublishInterval),
		stats:     NewStats(time.Now()),
		mqttTopic: TopicPath(client.TopicPrefix(), cfg.MQTT.TopicName, cfg.MQTT.TopicSuffix),
		state:     StateStopped,
		log:       log.With("component", "bridge.session", "bridge", cfg.Name),
	}
}

// TopicPath builds the MQTT topic {prefix}/{name}/{suffix}.
func TopicPath(prefix, name, suffix string) string {
	return fmt.Sprintf("%s/%s/%s", prefix, name, suffix)
}

// Name returns the bridge name.
func (s *Session) Name() string { return s.cfg.Name }

// MQTTTopic returns the derived MQTT topic.
func (s *Session) MQTTTopic() string { return s.mqttTopic }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the start failure, if the session stopped with one.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startErr
}

// Start validates the configuration, resolves the message schema, and arms
// the subscription for the configured direction. A disabled bridge
// short-circuits to a clean stop without side effects.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.state != StateStopped {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStarting
	s.startErr = nil
	s.mu.Unlock()

	if !s.cfg.IsEnabled() {
		s.log.Info("Bridge disabled, skipping start")
		s.setState(StateStopped, nil)
		return nil
	}

	if err := s.begin(); err != nil {
		s.log.Error("Failed to start bridge", "error", err, "category", CategoryFromError(err))
		s.setState(StateStopped, err)
		return err
	}

	s.setState(StateRunning, nil)
	s.log.Info("Bridge started",
		"direction", s.cfg.Type,
		"ros_topic", s.cfg.ROS.Topic,
		"message_type", s.cfg.ROS.MessageType,
		"mqtt_topic", s.mqttTopic,
		"queue_size", s.cfg.ROS.QueueSize)
	return nil
}

func (s *Session) begin() error {
	if strings.TrimSpace(s.cfg.ROS.Topic) == "" {
		return NewError(ErrorConfig, "ros_config.topic is required")
	}
	messageType := strings.TrimSpace(s.cfg.ROS.MessageType)
	if messageType == "" {
		return NewError(ErrorConfig, "ros_config.message_type is required")
	}
	if strings.Count(messageType, "/") != 1 {
		return NewError(ErrorConfig, fmt.Sprintf("invalid message type format %q", messageType))
	}
	if strings.TrimSpace(s.cfg.MQTT.TopicName) == "" {
		return NewError(ErrorConfig, "mqtt_config.topic_name is required")
	}

	construct, ok := s.registry.Resolve(messageType)
	if !ok {
		return NewError(ErrorSchemaLoad, fmt.Sprintf("message type %q is not registered", messageType))
	}
	s.mu.Lock()
	s.construct = construct
	s.mu.Unlock()

	switch s.cfg.Type {
	case config.BridgeTypeMQTTToROS:
		// The publisher must exist before the subscription is armed, or an
		// early inbound message would have no publish target.
		pub, err := s.node.CreatePublisher(s.cfg.ROS.Topic, messageType, s.cfg.ROS.QueueSize)
		if err != nil {
			return fmt.Errorf("create ROS publisher: %w", err)
		}
		s.mu.Lock()
		s.pub = pub
		s.mu.Unlock()

		if err := s.mqtt.Subscribe(s.mqttTopic, s.cfg.MQTT.QoSLevel(), s.handleMQTTMessage); err != nil {
			s.mu.Lock()
			s.pub = nil
			s.mu.Unlock()
			pub.Close()
			return fmt.Errorf("subscribe to MQTT topic %s: %w", s.mqttTopic, err)
		}
		s.mu.Lock()
		s.mqttSubscribed = true
		s.mu.Unlock()
	default:
		sub, err := s.node.CreateSubscription(s.cfg.ROS.Topic, messageType, s.cfg.ROS.QueueSize, s.handleROSMessage)
		if err != nil {
			return fmt.Errorf("create ROS subscription: %w", err)
		}
		s.mu.Lock()
		s.sub = sub
		s.mu.Unlock()
	}

	return nil
}

// Stop releases the subscription and, when present, the publisher. The
// subscription goes first so no pipeline invocation can land on a released
// publish target. Idempotent; must not be called from the delivery callback.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.state = StateStopping
	sub := s.sub
	pub := s.pub
	subscribed := s.mqttSubscribed
	s.sub = nil
	s.pub = nil
	s.mqttSubscribed = false
	s.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	if subscribed {
		if err := s.mqtt.Unsubscribe(s.mqttTopic); err != nil {
			s.log.Warn("Failed to unsubscribe from MQTT topic", "topic", s.mqttTopic, "error", err)
		}
	}
	if pub != nil {
		pub.Close()
	}

	s.setState(StateStopped, nil)
	s.log.Info("Bridge stopped")
}

// handleROSMessage is the typed-to-generic pipeline for one delivered record.
func (s *Session) handleROSMessage(msg rosmsg.Message) {
	if !s.accepting() {
		return
	}

	now := time.Now()
	if !s.limiter.Allow(now) {
		s.log.Debug("Skipping message inside publish interval",
			"elapsed", s.limiter.Elapsed(now), "interval", s.cfg.ROS.PublishInterval)
		return
	}

	count := s.stats.RecordMessage(now)
	s.limiter.MarkForwarded(now)

	var headerTS *HeaderTimestamp
	if s.cfg.ROS.ExtractHeaderTimestamp {
		headerTS = ExtractHeaderTimestamp(msg)
	}

	data, err := s.encoder.EncodeSelection(msg, s.selector)
	if err != nil {
		s.log.Warn("Failed to extract message data",
			"error", err, "data_field", s.cfg.ROS.DataField, "message_type", s.cfg.ROS.MessageType)
		return
	}

	envelope := s.buildEnvelope(data, count, now, headerTS)
	payload, err := json.Marshal(envelope)
	if err != nil {
		s.log.Error("Failed to marshal envelope", "error", err)
		return
	}

	if err := s.mqtt.Publish(s.mqttTopic, payload, s.cfg.MQTT.QoSLevel(), s.cfg.MQTT.Retain); err != nil {
		s.log.Error("MQTT publish failed", "topic", s.mqttTopic, "error", err, "category", ErrorPublish)
		return
	}

	s.log.Debug("Message forwarded", "topic", s.mqttTopic, "message_id", count)
}

// handleMQTTMessage is the generic-to-typed pipeline for one inbound payload.
func (s *Session) handleMQTTMessage(topic string, payload []byte) {
	if !s.accepting() {
		return
	}

	s.stats.RecordMessage(time.Now())

	s.mu.RLock()
	construct := s.construct
	pub := s.pub
	s.mu.RUnlock()
	if construct == nil || pub == nil {
		return
	}

	msg := construct()
	if err := codec.DecodeInto(msg, s.cfg.ROS.DataField, payload); err != nil {
		s.log.Error("Failed to decode inbound payload",
			"topic", topic, "error", err, "category", codec.CategoryFromError(err))
		return
	}

	if err := pub.Publish(msg); err != nil {
		s.log.Error("ROS publish failed", "topic", s.cfg.ROS.Topic, "error", err, "category", ErrorPublish)
		return
	}

	s.log.Debug("Published to ROS topic", "topic", s.cfg.ROS.Topic)
}

func (s *Session) buildEnvelope(data codec.Value, count uint64, now time.Time, headerTS *HeaderTimestamp) Envelope {
	sourceNode := s.cfg.Metadata.SourceNode
	if sourceNode == "" {
		sourceNode = defaultSourceNode
	}
	frameID := s.cfg.Metadata.FrameID
	if frameID == "" {
		frameID = defaultFrameID
	}

	return Envelope{
		SourceNode:          sourceNode,
		SourceTopic:         s.cfg.ROS.Topic,
		Data:                data,
		MessageID:           count,
		FrameID:             frameID,
		BridgeName:          s.cfg.Name,
		BridgeMessageCount:  count,
		BridgeUptimeSeconds: s.stats.Uptime(now).Seconds(),
		BridgeConfig: EnvelopeConfig{
			ROSTopic:    s.cfg.ROS.Topic,
			MessageType: s.cfg.ROS.MessageType,
			DataField:   s.cfg.ROS.DataField,
		},
		HeaderTimestamp: headerTS,
	}
}

// Statistics returns the current snapshot for this bridge.
func (s *Session) Statistics() Snapshot {
	return s.stats.SnapshotAt(time.Now(), s.cfg)
}

// IsActive reports whether a message was seen within the timeout.
func (s *Session) IsActive(timeout time.Duration) bool {
	return s.stats.IsActive(time.Now(), timeout)
}

func (s *Session) accepting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateRunning || s.state == StateStarting
}

func (s *Session) setState(state State, err error) {
	s.mu.Lock()
	s.state = state
	s.startErr = err
	s.mu.Unlock()
}
