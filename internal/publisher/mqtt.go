package publisher

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"weather-dashboard-go/internal/config"
	"weather-dashboard-go/internal/types"
)

const connectTimeout = 15 * time.Second

var (
	// ErrConnectTimeout is returned by New when the broker does not accept
	// the connection within connectTimeout.
	ErrConnectTimeout = errors.New("timed out connecting to MQTT broker")
	// ErrPublishFailed is returned by PublishPending when some rows stay pending.
	ErrPublishFailed = errors.New("forecasts failed to publish")
)

// publishClient is the slice of mqtt.Client we use.
type publishClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher sends daily forecasts to an MQTT broker.
type Publisher struct {
	client      publishClient
	conn        mqtt.Client
	topicPrefix string
	initialWait time.Duration
	maxElapsed  time.Duration
	waitTimeout time.Duration
	log         *logrus.Entry
}

// New connects to the broker described by cfg.
func New(cfg config.MQTTConfig, log *logrus.Entry) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if err := waitConnected(client.Connect(), connectTimeout); err != nil {
		client.Disconnect(0)
		return nil, err
	}

	p := newPublisher(client, cfg.TopicPrefix, log)
	p.conn = client
	return p, nil
}

func newPublisher(c publishClient, prefix string, log *logrus.Entry) *Publisher {
	if prefix == "" {
		prefix = "weather"
	}
	return &Publisher{
		client:      c,
		topicPrefix: prefix,
		initialWait: 500 * time.Millisecond,
		maxElapsed:  10 * time.Second,
		waitTimeout: 5 * time.Second,
		log:         log.WithField("component", "publisher"),
	}
}

// Topic returns the topic a forecast for date is published on.
func (p *Publisher) Topic(date string) string {
	return fmt.Sprintf("%s/daily/%s", p.topicPrefix, date)
}

// Publish sends one forecast as retained JSON, retrying with exponential
// backoff until maxElapsed.
func (p *Publisher) Publish(f types.Forecast) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	topic := p.Topic(f.Date)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.initialWait
	bo.MaxElapsedTime = p.maxElapsed

	attempt := 0
	op := func() error {
		attempt++
		token := p.client.Publish(topic, 1, true, payload)
		if !token.WaitTimeout(p.waitTimeout) {
			return fmt.Errorf("publish to %s timed out", topic)
		}
		if err := token.Error(); err != nil {
			p.log.WithError(err).WithFields(logrus.Fields{"topic": topic, "attempt": attempt}).Warn("publish failed")
			return err
		}
		return nil
	}
	if err := backoff.Retry(op, bo); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.conn != nil && p.conn.IsConnected() {
		p.conn.Disconnect(250)
	}
}

// PendingStore is the store surface PublishPending needs.
type PendingStore interface {
	ListUnpublished() ([]types.Forecast, error)
	MarkPublished(id int) error
}

// PublishPending publishes every unpublished row and marks it. A row that
// fails to publish stays pending for the next run; if any do, the returned
// error wraps ErrPublishFailed with the count.
func PublishPending(store PendingStore, p *Publisher) (int, error) {
	rows, err := store.ListUnpublished()
	if err != nil {
		return 0, fmt.Errorf("listing unpublished forecasts: %w", err)
	}

	published, failed := 0, 0
	for _, f := range rows {
		if err := p.Publish(f); err != nil {
			p.log.WithError(err).WithField("date", f.Date).Error("giving up on forecast")
			failed++
			continue
		}
		if err := store.MarkPublished(f.ID); err != nil {
			return published, err
		}
		published++
	}
	if failed > 0 {
		return published, fmt.Errorf("%w: %d of %d", ErrPublishFailed, failed, len(rows))
	}
	return published, nil
}

func waitConnected(token mqtt.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return ErrConnectTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	return nil
}
