package transmission

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/matbott/spritmonitor-hass/internal/domain"
	"github.com/matbott/spritmonitor-hass/internal/mqtt"
	"github.com/matbott/spritmonitor-hass/internal/sensors"
)

// MQTTTransmitter exposes the metric catalog to Home Assistant over MQTT
// discovery. Each metric gets one retained discovery config; values travel
// in a single JSON state payload read through value templates.
type MQTTTransmitter struct {
	client          *mqtt.Client
	defs            []sensors.Definition
	deviceID        string
	discoveryPrefix string
	logger          *logrus.Logger
	published       map[string]bool // discovery configs already sent
}

// HADiscoveryConfig is the Home Assistant MQTT discovery payload.
type HADiscoveryConfig struct {
	Name              string   `json:"name"`
	UniqueID          string   `json:"unique_id"`
	StateTopic        string   `json:"state_topic"`
	ValueTemplate     string   `json:"value_template,omitempty"`
	DeviceClass       string   `json:"device_class,omitempty"`
	StateClass        string   `json:"state_class,omitempty"`
	UnitOfMeasurement string   `json:"unit_of_measurement,omitempty"`
	Icon              string   `json:"icon,omitempty"`
	AvailabilityTopic string   `json:"availability_topic"`
	Device            HADevice `json:"device"`
}

// HADevice groups all metrics under one Home Assistant device.
type HADevice struct {
	Identifiers      []string `json:"identifiers"`
	Name             string   `json:"name"`
	Model            string   `json:"model,omitempty"`
	Manufacturer     string   `json:"manufacturer"`
	ConfigurationURL string   `json:"configuration_url,omitempty"`
}

// NewMQTTTransmitter creates a transmitter for the given catalog.
func NewMQTTTransmitter(client *mqtt.Client, defs []sensors.Definition, deviceID, discoveryPrefix string, logger *logrus.Logger) *MQTTTransmitter {
	return &MQTTTransmitter{
		client:          client,
		defs:            defs,
		deviceID:        deviceID,
		discoveryPrefix: discoveryPrefix,
		logger:          logger,
		published:       make(map[string]bool),
	}
}

// deviceInfo builds the shared HA device block from the snapshot's vehicle.
func (t *MQTTTransmitter) deviceInfo(snap *domain.Snapshot) HADevice {
	device := HADevice{
		Identifiers:  []string{fmt.Sprintf("spritmonitor_%s", t.deviceID)},
		Name:         "Spritmonitor Vehicle",
		Manufacturer: "Spritmonitor",
	}
	if snap.Valid() {
		v := snap.Vehicle
		if name := strings.TrimSpace(v.Make + " " + v.Model); name != "" {
			device.Name = name
			device.Model = v.Model
		}
		device.ConfigurationURL = fmt.Sprintf("https://www.spritmonitor.de/en/detail/%d.html", v.ID)
	}
	return device
}

// publishDiscoveryConfigs sends the retained discovery config for every
// catalog metric once per process lifetime. Units are resolved against the
// current snapshot because currency and quantity symbols come from the API.
func (t *MQTTTransmitter) publishDiscoveryConfigs(snap *domain.Snapshot) error {
	device := t.deviceInfo(snap)
	baseTopic := t.client.BaseTopic()

	for _, def := range t.defs {
		uniqueID := fmt.Sprintf("spritmonitor_%s_%s", t.deviceID, def.ID)
		if t.published[uniqueID] {
			continue
		}

		cfg := HADiscoveryConfig{
			Name:              def.Name,
			UniqueID:          uniqueID,
			StateTopic:        fmt.Sprintf("%s/state", baseTopic),
			ValueTemplate:     fmt.Sprintf("{{ value_json.%s | default(None) }}", def.ID),
			DeviceClass:       def.DeviceClass,
			StateClass:        def.StateClass,
			Icon:              def.Icon,
			AvailabilityTopic: fmt.Sprintf("%s/availability", baseTopic),
			Device:            device,
		}
		if def.Unit != nil {
			cfg.UnitOfMeasurement = def.Unit(snap)
		}

		topic := fmt.Sprintf("%s/sensor/spritmonitor_%s/%s/config",
			t.discoveryPrefix, t.deviceID, def.ID)

		payload, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal discovery config for %s: %w", def.ID, err)
		}
		if err := t.client.Publish(topic, payload, true); err != nil {
			return fmt.Errorf("failed to publish discovery config for %s: %w", def.ID, err)
		}

		t.logger.WithFields(logrus.Fields{
			"metric": def.ID,
			"topic":  topic,
		}).Debug("Published metric discovery config")

		t.published[uniqueID] = true
	}
	return nil
}

// Transmit publishes discovery configs, the state payload and availability
// for one snapshot.
func (t *MQTTTransmitter) Transmit(snap *domain.Snapshot) error {
	if !t.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	if err := t.publishDiscoveryConfigs(snap); err != nil {
		// Discovery hiccups should not block state updates.
		t.logger.WithError(err).Warn("Failed to publish Home Assistant discovery configs")
	}

	state := sensors.Values(t.defs, snap)
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state payload: %w", err)
	}

	stateTopic := fmt.Sprintf("%s/state", t.client.BaseTopic())
	if err := t.client.Publish(stateTopic, payload, true); err != nil {
		return fmt.Errorf("failed to publish state: %w", err)
	}

	if err := t.PublishAvailability(true); err != nil {
		return fmt.Errorf("failed to publish availability: %w", err)
	}

	t.logger.WithFields(logrus.Fields{
		"topic":   stateTopic,
		"metrics": len(state),
	}).Info("Published metric state")

	return nil
}

// PublishAvailability marks every discovered entity online or offline.
func (t *MQTTTransmitter) PublishAvailability(online bool) error {
	payload := "online"
	if !online {
		payload = "offline"
	}
	topic := fmt.Sprintf("%s/availability", t.client.BaseTopic())
	return t.client.Publish(topic, []byte(payload), true)
}
