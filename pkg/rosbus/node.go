package rosbus

import "rosmqtt/pkg/rosmsg"

// MessageHandler consumes one delivered record. A node serializes handler
// invocations per subscription.
type MessageHandler func(rosmsg.Message)

// Subscription is one armed topic consumer.
//
// Close releases the subscription and guarantees that no handler invocation
// is in flight or will start after it returns.
type Subscription interface {
	Topic() string
	Close()
}

// Publisher is one registered topic producer.
type Publisher interface {
	Topic() string
	Publish(msg rosmsg.Message) error
	Close()
}

// Node is the typed-bus collaborator the bridge runs against. Real
// deployments back it with a ROS 2 client; tests and local runs use the
// in-memory implementation.
type Node interface {
	CreateSubscription(topic string, typeName string, queueSize int, handler MessageHandler) (Subscription, error)
	CreatePublisher(topic string, typeName string, queueSize int) (Publisher, error)
}
