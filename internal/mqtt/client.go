package mqtt

import (
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/matbott/spritmonitor-hass/internal/config"
)

// Client wraps the paho MQTT client with the topic conventions of this
// bridge. Both WebSocket and plain MQTT broker URLs are supported.
type Client struct {
	client   mqtt.Client
	deviceID string
	logger   *logrus.Logger
}

// NewClient connects to the broker and returns a ready client.
func NewClient(mqttURL, deviceID string, logger *logrus.Logger) (*Client, error) {
	parsedURL, err := url.Parse(mqttURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MQTT URL: %w", err)
	}

	opts := mqtt.NewClientOptions()

	var brokerURL string
	switch parsedURL.Scheme {
	case "ws":
		brokerURL = mqttURL
	case "wss":
		brokerURL = mqttURL
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	case "mqtt":
		brokerURL = strings.Replace(mqttURL, "mqtt://", "tcp://", 1)
	case "mqtts":
		brokerURL = strings.Replace(mqttURL, "mqtts://", "ssl://", 1)
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	default:
		return nil, fmt.Errorf("unsupported protocol scheme: %s (supported: ws, wss, mqtt, mqtts)", parsedURL.Scheme)
	}

	opts.AddBroker(brokerURL)
	opts.SetClientID(fmt.Sprintf("spritmonitor-hass-%s", deviceID))
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(config.MQTTTimeout)

	if parsedURL.User != nil {
		username := parsedURL.User.Username()
		password, _ := parsedURL.User.Password()
		opts.SetUsername(username)
		opts.SetPassword(password)
	}

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.WithError(err).Warn("MQTT connection lost")
	})
	opts.SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
		logger.Debug("MQTT reconnecting...")
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	logger.WithFields(logrus.Fields{
		"broker":   cleanURL(mqttURL),
		"protocol": parsedURL.Scheme,
	}).Info("MQTT client connected")

	return &Client{client: client, deviceID: deviceID, logger: logger}, nil
}

// Publish publishes a message with at-least-once delivery, waiting at most
// the configured MQTT timeout for the broker ack.
func (c *Client) Publish(topic string, payload []byte, retained bool) error {
	token := c.client.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(config.MQTTTimeout) {
		return fmt.Errorf("publish to topic %s timed out after %s", topic, config.MQTTTimeout)
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}

	c.logger.WithFields(logrus.Fields{
		"topic":    topic,
		"size":     len(payload),
		"retained": retained,
	}).Debug("Published MQTT message")

	return nil
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

// Disconnect disconnects the client.
func (c *Client) Disconnect(quiesce uint) {
	c.client.Disconnect(quiesce)
	c.logger.Debug("MQTT client disconnected")
}

// BaseTopic returns the state topic root for this device.
func (c *Client) BaseTopic() string {
	return fmt.Sprintf("spritmonitor/%s", c.deviceID)
}

// cleanURL removes credentials from a URL for logging.
func cleanURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if parsed.User != nil {
		parsed.User = url.UserPassword("***", "***")
	}
	return parsed.String()
}
