package mqttbus

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"rosmqtt/pkg/config"
)

// PahoClient is the broker-backed Client implementation.
type PahoClient struct {
	cli         mqtt.Client
	topicPrefix string
	log         *slog.Logger
}

// Connect dials the configured broker and blocks until the connection is
// established or the connect timeout expires.
func Connect(cfg config.MQTTConfig, log *slog.Logger) (*PahoClient, error) {
	if cfg.BrokerURL == "" {
		return nil, errors.New("mqtt.broker_url is required")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "mqttbus.paho")

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "rosmqtt-" + uuid.NewString()[:8]
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(clientID).
		SetKeepAlive(time.Duration(cfg.KeepAliveSeconds) * time.Second).
		SetConnectTimeout(time.Duration(cfg.ConnectTimeoutSeconds) * time.Second).
		SetAutoReconnect(true).
		SetOrderMatters(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("Broker connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		log.Info("Connected to broker", "broker", cfg.BrokerURL, "client_id", clientID)
	})

	cli := mqtt.NewClient(opts)
	token := cli.Connect()
	if !token.WaitTimeout(time.Duration(cfg.ConnectTimeoutSeconds) * time.Second) {
		return nil, fmt.Errorf("connect to %s: timeout", cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.BrokerURL, err)
	}

	return &PahoClient{cli: cli, topicPrefix: cfg.TopicPrefix, log: log}, nil
}

// Publish sends one payload and waits for broker acknowledgement.
func (c *PahoClient) Publish(topic string, payload []byte, qos byte, retain bool) error {
	token := c.cli.Publish(topic, qos, retain, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe arms a handler for a topic.
func (c *PahoClient) Subscribe(topic string, qos byte, handler MessageHandler) error {
	if handler == nil {
		return errors.New("handler is required")
	}

	token := c.cli.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	return nil
}

// Unsubscribe releases a topic subscription.
func (c *PahoClient) Unsubscribe(topic string) error {
	token := c.cli.Unsubscribe(topic)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("unsubscribe from %s: %w", topic, err)
	}
	return nil
}

// TopicPrefix returns the broker-wide topic prefix.
func (c *PahoClient) TopicPrefix() string { return c.topicPrefix }

// Disconnect closes the broker connection, allowing a short drain window.
func (c *PahoClient) Disconnect() {
	c.cli.Disconnect(250)
}
