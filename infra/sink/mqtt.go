package sink

import (
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	coresink "github.com/gridpilot/gridpilot/core/sink"
	"github.com/gridpilot/gridpilot/infra/logger"
)

// MQTTConfig defines the connection parameters for the tick publisher.
type MQTTConfig struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	Username string `json:"username"`
	Password string `json:"password"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies fallback values for optional fields.
func (c *MQTTConfig) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "gridpilot"
	}
	if c.Topic == "" {
		c.Topic = "gridpilot/ticks"
	}
}

// Validate checks mandatory fields when the sink is enabled.
func (c MQTTConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	return nil
}

// MQTTSink publishes each committed tick as a JSON payload.
type MQTTSink struct {
	cli   paho.Client
	topic string
	qos   byte
	log   logger.Logger
}

// NewMQTTSink connects to the broker. Connection failures are returned so
// the caller can decide whether to run without the sink.
func NewMQTTSink(cfg MQTTConfig) (*MQTTSink, error) {
	log := logger.New("mqtt-sink")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &MQTTSink{cli: cli, topic: cfg.Topic, qos: cfg.QoS, log: log}, nil
}

// Record publishes the tick and waits for the broker to take it, keeping
// publish order aligned with commit order.
func (s *MQTTSink) Record(rec coresink.TickRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal tick: %w", err)
	}
	token := s.cli.Publish(s.topic, s.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish tick %d: %w", rec.Tick, token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() error {
	s.cli.Disconnect(250)
	return nil
}
