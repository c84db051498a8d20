package rosbus

import (
	"errors"
	"fmt"
	"sync"

	"rosmqtt/pkg/rosmsg"
)

const defaultQueueSize = 10

// InMemoryNode is a loopback Node: publishers deliver directly to the
// subscriptions of the same topic. Slow subscribers drop messages instead of
// blocking the publisher.
type InMemoryNode struct {
	mu   sync.RWMutex
	subs map[string][]*memSubscription

	done      chan struct{}
	closeOnce sync.Once
}

// NewInMemoryNode creates an empty loopback node.
func NewInMemoryNode() *InMemoryNode {
	return &InMemoryNode{
		subs: make(map[string][]*memSubscription),
		done: make(chan struct{}),
	}
}

// CreateSubscription arms a handler for a topic. Dispatch is serialized per
// subscription through a dedicated goroutine.
func (n *InMemoryNode) CreateSubscription(topic string, typeName string, queueSize int, handler MessageHandler) (Subscription, error) {
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	sub := &memSubscription{
		node:     n,
		topic:    topic,
		typeName: typeName,
		queue:    make(chan rosmsg.Message, queueSize),
		quit:     make(chan struct{}),
	}

	n.mu.Lock()
	select {
	case <-n.done:
		n.mu.Unlock()
		return nil, errors.New("node is closed")
	default:
	}
	n.subs[topic] = append(n.subs[topic], sub)
	n.mu.Unlock()

	sub.wg.Add(1)
	go sub.dispatch(handler)

	return sub, nil
}

// CreatePublisher registers a producer for a topic.
func (n *InMemoryNode) CreatePublisher(topic string, typeName string, queueSize int) (Publisher, error) {
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	_ = queueSize

	select {
	case <-n.done:
		return nil, errors.New("node is closed")
	default:
	}

	return &memPublisher{node: n, topic: topic, typeName: typeName}, nil
}

// Close shuts the node down and releases every subscription.
func (n *InMemoryNode) Close() {
	n.closeOnce.Do(func() {
		close(n.done)

		n.mu.Lock()
		subs := make([]*memSubscription, 0)
		for _, topicSubs := range n.subs {
			subs = append(subs, topicSubs...)
		}
		n.subs = make(map[string][]*memSubscription)
		n.mu.Unlock()

		for _, sub := range subs {
			sub.stop()
		}
	})
}

func (n *InMemoryNode) deliver(topic string, msg rosmsg.Message) {
	n.mu.RLock()
	subs := append([]*memSubscription(nil), n.subs[topic]...)
	n.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.queue <- msg:
		default:
			// Queue full, drop rather than block the publisher.
		}
	}
}

func (n *InMemoryNode) remove(target *memSubscription) {
	n.mu.Lock()
	defer n.mu.Unlock()

	topicSubs := n.subs[target.topic]
	for i, sub := range topicSubs {
		if sub == target {
			n.subs[target.topic] = append(topicSubs[:i], topicSubs[i+1:]...)
			break
		}
	}
	if len(n.subs[target.topic]) == 0 {
		delete(n.subs, target.topic)
	}
}

type memSubscription struct {
	node     *InMemoryNode
	topic    string
	typeName string
	queue    chan rosmsg.Message
	quit     chan struct{}

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func (s *memSubscription) Topic() string { return s.topic }

// Close unregisters the subscription and waits for the dispatch goroutine to
// exit, so no handler runs after it returns. Must not be called from the
// handler itself.
func (s *memSubscription) Close() {
	s.node.remove(s)
	s.stop()
}

func (s *memSubscription) stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}

func (s *memSubscription) dispatch(handler MessageHandler) {
	defer s.wg.Done()

	for {
		select {
		case <-s.quit:
			return
		case msg := <-s.queue:
			select {
			case <-s.quit:
				return
			default:
			}
			handler(msg)
		}
	}
}

type memPublisher struct {
	node     *InMemoryNode
	topic    string
	typeName string

	mu     sync.Mutex
	closed bool
}

func (p *memPublisher) Topic() string { return p.topic }

func (p *memPublisher) Publish(msg rosmsg.Message) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return fmt.Errorf("publisher for %s is closed", p.topic)
	}

	select {
	case <-p.node.done:
		return errors.New("node is closed")
	default:
	}

	p.node.deliver(p.topic, msg)
	return nil
}

func (p *memPublisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
