package mqttbus

// MessageHandler consumes one raw payload delivered on a subscribed topic.
type MessageHandler func(topic string, payload []byte)

// Client is the payload-bus collaborator the bridge publishes to and
// subscribes on. Implementations are expected to serialize handler
// invocations per subscription.
type Client interface {
	Publish(topic string, payload []byte, qos byte, retain bool) error
	Subscribe(topic string, qos byte, handler MessageHandler) error
	Unsubscribe(topic string) error
	TopicPrefix() string
}
