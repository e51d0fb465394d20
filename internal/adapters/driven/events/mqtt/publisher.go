// Package mqtt publishes dataset events to an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/logger"
)

// Ensure Publisher implements the interface.
var _ driven.EventPublisher = (*Publisher)(nil)

const (
	// ConnectTimeout bounds the initial broker handshake.
	ConnectTimeout = 10 * time.Second

	// qos 1: the broker acknowledges every event at least once.
	qos byte = 1

	// disconnectQuiesce is how long Close waits for in-flight work, in ms.
	disconnectQuiesce uint = 250
)

// client is the part of paho.Client the publisher uses.
type client interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload any) paho.Token
	Disconnect(quiesce uint)
}

// Publisher sends one JSON message per dataset append.
type Publisher struct {
	client client
	topic  string
}

// New connects to the configured broker.
func New(cfg domain.MQTTSettings) (*Publisher, error) {
	if strings.TrimSpace(cfg.Broker) == "" {
		return nil, &domain.ValidationError{Field: "mqtt.broker", Message: "broker is required"}
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(ConnectTimeout)

	p := newWithClient(paho.NewClient(opts), cfg.Topic)
	if err := p.connect(cfg.Broker, ConnectTimeout); err != nil {
		return nil, err
	}
	logger.Debug("mqtt: connected to %s, topic %s", cfg.Broker, cfg.Topic)
	return p, nil
}

// connect waits for the handshake. On failure the client is disconnected
// so its reconnect loop does not outlive the publisher.
func (p *Publisher) connect(broker string, timeout time.Duration) error {
	token := p.client.Connect()
	if !token.WaitTimeout(timeout) {
		p.client.Disconnect(disconnectQuiesce)
		return fmt.Errorf("connecting to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		p.client.Disconnect(disconnectQuiesce)
		return fmt.Errorf("connecting to %s: %w", broker, err)
	}
	return nil
}

func newWithClient(c client, topic string) *Publisher {
	return &Publisher{client: c, topic: topic}
}

// Publish sends event and waits for the broker acknowledgement or ctx.
func (p *Publisher) Publish(ctx context.Context, event driven.DatasetEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	token := p.client.Publish(p.topic, qos, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publishing to %s: %w", p.topic, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() error {
	p.client.Disconnect(disconnectQuiesce)
	return nil
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

var _ driven.EventPublisher = Noop{}

// Publish does nothing.
func (Noop) Publish(context.Context, driven.DatasetEvent) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }

// FromSettings returns a connected Publisher when a broker is configured
// and Noop otherwise.
func FromSettings(cfg domain.MQTTSettings) (driven.EventPublisher, error) {
	if strings.TrimSpace(cfg.Broker) == "" {
		return Noop{}, nil
	}
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

