package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

const (
	DefaultTopic   = "vitaledge/alerts"
	connectTimeout = 10 * time.Second
)

type MQTTOptions struct {
	BrokerURL string
	ClientID  string
	Topic     string
	QoS       byte
}

// MQTTNotifier publishes every alert as JSON to one topic.
type MQTTNotifier struct {
	client mqtt.Client
	topic  string
	qos    byte
}

func NewMQTTNotifier(opts MQTTOptions) (*MQTTNotifier, error) {
	if opts.Topic == "" {
		opts.Topic = DefaultTopic
	}

	o := mqtt.NewClientOptions()
	o.AddBroker(opts.BrokerURL)
	o.SetClientID(opts.ClientID)
	o.SetAutoReconnect(true)
	o.SetConnectRetry(true)
	o.SetConnectRetryInterval(2 * time.Second)
	c := mqtt.NewClient(o)

	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timed out", opts.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", opts.BrokerURL, err)
	}

	common.GetLoggerWith(common.LoggerNameNotifier).Info("Connected to alert broker",
		zap.String("broker", opts.BrokerURL), zap.String("topic", opts.Topic))

	return &MQTTNotifier{client: c, topic: opts.Topic, qos: opts.QoS}, nil
}

func (n *MQTTNotifier) Notify(ctx context.Context, alert models.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	token := n.client.Publish(n.topic, n.qos, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *MQTTNotifier) Close() {
	n.client.Disconnect(250)
}
