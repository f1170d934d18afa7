// Package mqtt publishes relay commands to an MQTT broker.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Client is the subset of the paho client the publisher uses.
type Client interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Options configures the broker connection.
type Options struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	QoS            byte
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
}

// ErrTimeout is returned when the broker does not acknowledge in time.
var ErrTimeout = errors.New("mqtt operation timed out")

// Publisher sends retained-free messages with a fixed QoS.
type Publisher struct {
	client         Client
	qos            byte
	connectTimeout time.Duration
	publishTimeout time.Duration
	logger         *slog.Logger
}

// NewPublisher builds a paho client for opts. The client id gets a random
// suffix so several replicas can share one broker.
func NewPublisher(opts Options, logger *slog.Logger) *Publisher {
	clientOpts := paho.NewClientOptions()
	clientOpts.AddBroker(opts.Broker)
	clientOpts.SetClientID(clientID(opts.ClientID))
	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
		clientOpts.SetPassword(opts.Password)
	}
	clientOpts.SetAutoReconnect(true)
	clientOpts.SetConnectRetry(true)
	clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	return newPublisher(paho.NewClient(clientOpts), opts, logger)
}

func newPublisher(client Client, opts Options, logger *slog.Logger) *Publisher {
	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	publishTimeout := opts.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	return &Publisher{
		client:         client,
		qos:            opts.QoS,
		connectTimeout: connectTimeout,
		publishTimeout: publishTimeout,
		logger:         logger.With("component", "mqtt.publisher"),
	}
}

// Connect dials the broker.
func (p *Publisher) Connect(ctx context.Context) error {
	if p.client.IsConnected() {
		return nil
	}
	if err := p.await(ctx, p.client.Connect(), p.connectTimeout); err != nil {
		return fmt.Errorf("connect mqtt broker: %w", err)
	}
	p.logger.Info("mqtt broker connected")
	return nil
}

// Publish sends payload on topic and waits for the broker acknowledgement.
func (p *Publisher) Publish(ctx context.Context, topic, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.await(ctx, p.client.Publish(topic, p.qos, false, payload), p.publishTimeout); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	p.logger.Debug("mqtt message published", "topic", topic, "payload", payload)
	return nil
}

// Close disconnects after letting in-flight work finish for up to 250ms.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

func (p *Publisher) await(ctx context.Context, token paho.Token, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !token.WaitTimeout(timeout) {
		return ErrTimeout
	}
	return token.Error()
}

func clientID(base string) string {
	if base == "" {
		base = "prayer-api"
	}
	return base + "-" + uuid.NewString()[:8]
}
