package bridge

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rosmqtt/pkg/config"
	"rosmqtt/pkg/mqttbus"
	"rosmqtt/pkg/rosbus"
	"rosmqtt/pkg/rosmsg"
)

type fakePublish struct {
	topic   string
	payload []byte
	qos     byte
	retain  bool
}

type fakeMQTT struct {
	mu           sync.Mutex
	publishes    []fakePublish
	handlers     map[string]mqttbus.MessageHandler
	unsubscribed []string
	subscribeErr error
}

func newFakeMQTT() *fakeMQTT {
	return &fakeMQTT{handlers: make(map[string]mqttbus.MessageHandler)}
}

func (f *fakeMQTT) Publish(topic string, payload []byte, qos byte, retain bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishes = append(f.publishes, fakePublish{topic: topic, payload: payload, qos: qos, retain: retain})
	return nil
}

func (f *fakeMQTT) Subscribe(topic string, qos byte, handler mqttbus.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return f.subscribeErr
	}
	f.handlers[topic] = handler
	return nil
}

func (f *fakeMQTT) Unsubscribe(topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, topic)
	delete(f.handlers, topic)
	return nil
}

func (f *fakeMQTT) TopicPrefix() string { return "ros2" }

func (f *fakeMQTT) published() []fakePublish {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakePublish(nil), f.publishes...)
}

func (f *fakeMQTT) deliver(topic string, payload []byte) bool {
	f.mu.Lock()
	handler, ok := f.handlers[topic]
	f.mu.Unlock()
	if !ok {
		return false
	}
	handler(topic, payload)
	return true
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func forwardConfig() config.BridgeConfig {
	qos := 1
	return config.BridgeConfig{
		Name: "chatter",
		Type: config.BridgeTypeROSToMQTT,
		ROS: config.ROSConfig{
			Topic:       "/chatter",
			MessageType: "std_msgs/String",
			QueueSize:   10,
			DataField:   "data",
		},
		MQTT: config.BridgeMQTTConfig{
			TopicName:   "chatter",
			TopicSuffix: "data",
			QoS:         &qos,
		},
		Metadata: config.MetadataConfig{SourceNode: "talker", FrameID: "base_link"},
	}
}

func TestSessionForwardsROSToMQTT(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()

	session := NewSession(forwardConfig(), node, client, nil, nil, quietLogger())
	require.NoError(t, session.Start())
	defer session.Stop()
	require.Equal(t, StateRunning, session.State())
	require.Equal(t, "ros2/chatter/data", session.MQTTTopic())

	pub, err := node.CreatePublisher("/chatter", "std_msgs/String", 10)
	require.NoError(t, err)
	require.NoError(t, pub.Publish(&rosmsg.String{Data: "hello"}))

	require.Eventually(t, func() bool {
		return len(client.published()) == 1
	}, time.Second, 5*time.Millisecond)

	got := client.published()[0]
	require.Equal(t, "ros2/chatter/data", got.topic)
	require.Equal(t, byte(1), got.qos)
	require.False(t, got.retain)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(got.payload, &envelope))
	require.Equal(t, "hello", envelope["data"])
	require.Equal(t, "talker", envelope["source_node"])
	require.Equal(t, "/chatter", envelope["source_topic"])
	require.Equal(t, "base_link", envelope["frame_id"])
	require.Equal(t, "chatter", envelope["bridge_name"])
	require.Equal(t, float64(1), envelope["message_id"])
	require.Equal(t, float64(1), envelope["bridge_message_count"])
	require.NotContains(t, envelope, "header_timestamp")

	bridgeCfg, ok := envelope["bridge_config"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "/chatter", bridgeCfg["ros_topic"])
	require.Equal(t, "std_msgs/String", bridgeCfg["message_type"])
	require.Equal(t, "data", bridgeCfg["data_field"])
}

func TestSessionDefaultMetadata(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()

	cfg := forwardConfig()
	cfg.Metadata = config.MetadataConfig{}
	session := NewSession(cfg, node, client, nil, nil, quietLogger())
	require.NoError(t, session.Start())
	defer session.Stop()

	pub, err := node.CreatePublisher("/chatter", "std_msgs/String", 10)
	require.NoError(t, err)
	require.NoError(t, pub.Publish(&rosmsg.String{Data: "x"}))

	require.Eventually(t, func() bool {
		return len(client.published()) == 1
	}, time.Second, 5*time.Millisecond)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(client.published()[0].payload, &envelope))
	require.Equal(t, "unknown_node", envelope["source_node"])
	require.Equal(t, "unknown_frame", envelope["frame_id"])
}

func TestSessionHeaderTimestamp(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()

	cfg := forwardConfig()
	cfg.ROS.MessageType = "geometry_msgs/PoseStamped"
	cfg.ROS.DataField = "pose.position.x"
	cfg.ROS.ExtractHeaderTimestamp = true
	session := NewSession(cfg, node, client, nil, nil, quietLogger())
	require.NoError(t, session.Start())
	defer session.Stop()

	msg := &rosmsg.PoseStamped{}
	msg.Header.Stamp = rosmsg.Time{Sec: 1700000000, Nanosec: 500000000}
	msg.Pose.Position.X = 4.5

	pub, err := node.CreatePublisher("/chatter", "geometry_msgs/PoseStamped", 10)
	require.NoError(t, err)
	require.NoError(t, pub.Publish(msg))

	require.Eventually(t, func() bool {
		return len(client.published()) == 1
	}, time.Second, 5*time.Millisecond)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(client.published()[0].payload, &envelope))
	require.Equal(t, 4.5, envelope["data"])

	stamp, ok := envelope["header_timestamp"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(1700000000), stamp["secs"])
	require.Equal(t, float64(500000000), stamp["nsecs"])
	require.Equal(t, 1700000000.5, stamp["timestamp"])
}

func TestSessionCountsUnresolvableField(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()

	cfg := forwardConfig()
	cfg.ROS.DataField = "missing"
	session := NewSession(cfg, node, client, nil, nil, quietLogger())
	require.NoError(t, session.Start())
	defer session.Stop()

	pub, err := node.CreatePublisher("/chatter", "std_msgs/String", 10)
	require.NoError(t, err)
	require.NoError(t, pub.Publish(&rosmsg.String{Data: "x"}))

	// The failed extraction is counted but nothing is published.
	require.Eventually(t, func() bool {
		return session.Statistics().MessageCount == 1
	}, time.Second, 5*time.Millisecond)
	require.Empty(t, client.published())
}

func TestSessionRecoversAfterUnresolvableField(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()

	cfg := forwardConfig()
	cfg.ROS.MessageType = "geometry_msgs/PoseStamped"
	cfg.ROS.DataField = "pose.position.x"
	session := NewSession(cfg, node, client, nil, nil, quietLogger())
	require.NoError(t, session.Start())
	defer session.Stop()

	pub, err := node.CreatePublisher("/chatter", "geometry_msgs/PoseStamped", 10)
	require.NoError(t, err)

	// A record the selector cannot resolve is dropped, then the next valid
	// record on the same session still forwards.
	require.NoError(t, pub.Publish(&rosmsg.String{Data: "wrong shape"}))

	valid := &rosmsg.PoseStamped{}
	valid.Pose.Position.X = 2.25
	require.NoError(t, pub.Publish(valid))

	require.Eventually(t, func() bool {
		return len(client.published()) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, StateRunning, session.State())
	require.Equal(t, uint64(2), session.Statistics().MessageCount)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(client.published()[0].payload, &envelope))
	require.Equal(t, 2.25, envelope["data"])
	require.Equal(t, float64(2), envelope["message_id"])
}

func TestSessionMQTTToROS(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()

	received := make(chan rosmsg.Message, 1)
	sub, err := node.CreateSubscription("/cmd", "std_msgs/Bool", 10, func(msg rosmsg.Message) {
		received <- msg
	})
	require.NoError(t, err)
	defer sub.Close()

	cfg := forwardConfig()
	cfg.Name = "cmd"
	cfg.Type = config.BridgeTypeMQTTToROS
	cfg.ROS.Topic = "/cmd"
	cfg.ROS.MessageType = "std_msgs/Bool"
	cfg.MQTT.TopicName = "cmd"
	session := NewSession(cfg, node, client, nil, nil, quietLogger())
	require.NoError(t, session.Start())
	defer session.Stop()

	require.True(t, client.deliver("ros2/cmd/data", []byte(`{"data": true}`)))

	select {
	case msg := <-received:
		value, ok := msg.Field("data")
		require.True(t, ok)
		require.Equal(t, true, value)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the ROS-side message")
	}
	require.Equal(t, uint64(1), session.Statistics().MessageCount)
}

func TestSessionMQTTToROSBadPayloadCounted(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()

	received := make(chan rosmsg.Message, 1)
	sub, err := node.CreateSubscription("/cmd", "std_msgs/Bool", 10, func(msg rosmsg.Message) {
		received <- msg
	})
	require.NoError(t, err)
	defer sub.Close()

	cfg := forwardConfig()
	cfg.Type = config.BridgeTypeMQTTToROS
	cfg.ROS.Topic = "/cmd"
	cfg.ROS.MessageType = "std_msgs/Bool"
	cfg.MQTT.TopicName = "cmd"
	session := NewSession(cfg, node, client, nil, nil, quietLogger())
	require.NoError(t, session.Start())
	defer session.Stop()

	require.True(t, client.deliver("ros2/cmd/data", []byte(`{"data": "not a bool"}`)))

	require.Equal(t, uint64(1), session.Statistics().MessageCount)
	select {
	case msg := <-received:
		t.Fatalf("undecodable payload reached the node: %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSessionSchemaLoadFailure(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()

	cfg := forwardConfig()
	cfg.ROS.MessageType = "custom_msgs/Unknown"
	session := NewSession(cfg, node, newFakeMQTT(), nil, nil, quietLogger())

	err := session.Start()
	require.Error(t, err)
	require.Equal(t, ErrorSchemaLoad, CategoryFromError(err))
	require.Equal(t, StateStopped, session.State())
	require.ErrorIs(t, session.Err(), err)
}

func TestSessionConfigValidation(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()

	cases := []struct {
		name   string
		mutate func(*config.BridgeConfig)
	}{
		{"missing topic", func(c *config.BridgeConfig) { c.ROS.Topic = "" }},
		{"missing message type", func(c *config.BridgeConfig) { c.ROS.MessageType = "" }},
		{"bad message type format", func(c *config.BridgeConfig) { c.ROS.MessageType = "String" }},
		{"missing mqtt topic", func(c *config.BridgeConfig) { c.MQTT.TopicName = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := forwardConfig()
			tc.mutate(&cfg)
			session := NewSession(cfg, node, newFakeMQTT(), nil, nil, quietLogger())
			err := session.Start()
			require.Error(t, err)
			require.Equal(t, ErrorConfig, CategoryFromError(err))
			require.Equal(t, StateStopped, session.State())
		})
	}
}

func TestSessionSubscribeFailureReleasesPublisher(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()
	client.subscribeErr = errors.New("broker refused")

	cfg := forwardConfig()
	cfg.Type = config.BridgeTypeMQTTToROS
	session := NewSession(cfg, node, client, nil, nil, quietLogger())

	require.Error(t, session.Start())
	require.Equal(t, StateStopped, session.State())
}

func TestSessionDisabled(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()

	disabled := false
	cfg := forwardConfig()
	cfg.Enabled = &disabled
	session := NewSession(cfg, node, client, nil, nil, quietLogger())

	require.NoError(t, session.Start())
	require.Equal(t, StateStopped, session.State())
	require.Empty(t, client.handlers)
}

func TestSessionStop(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()

	session := NewSession(forwardConfig(), node, client, nil, nil, quietLogger())
	require.NoError(t, session.Start())

	session.Stop()
	require.Equal(t, StateStopped, session.State())
	session.Stop()

	pub, err := node.CreatePublisher("/chatter", "std_msgs/String", 10)
	require.NoError(t, err)
	require.NoError(t, pub.Publish(&rosmsg.String{Data: "late"}))

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, client.published())
}

func TestSessionStopUnsubscribesMQTT(t *testing.T) {
	node := rosbus.NewInMemoryNode()
	defer node.Close()
	client := newFakeMQTT()

	cfg := forwardConfig()
	cfg.Type = config.BridgeTypeMQTTToROS
	session := NewSession(cfg, node, client, nil, nil, quietLogger())
	require.NoError(t, session.Start())

	session.Stop()
	require.Equal(t, []string{"ros2/chatter/data"}, client.unsubscribed)
}
