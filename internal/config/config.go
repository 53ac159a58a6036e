package config

import (
	"fmt"
	"strings"
	"time"
)

// VehicleType selects which metric sets the catalog exposes.
type VehicleType string

const (
	VehicleCombustion VehicleType = "combustion"
	VehicleElectric   VehicleType = "electric"
	VehicleHybrid     VehicleType = "hybrid"
)

// Combustion reports whether combustion-only metrics apply.
func (t VehicleType) Combustion() bool {
	return t == VehicleCombustion || t == VehicleHybrid
}

// Electric reports whether electric-only metrics apply.
func (t VehicleType) Electric() bool {
	return t == VehicleElectric || t == VehicleHybrid
}

// Config holds all configuration options for the bridge.
type Config struct {
	// Spritmonitor API
	APIBaseURL  string `json:"api_base_url"`
	AppID       string `json:"app_id"`       // Application-Id header
	BearerToken string `json:"bearer_token"` // Authorization header
	VehicleID   int64  `json:"vehicle_id"`

	// Vehicle & display preferences
	VehicleType     VehicleType `json:"vehicle_type"`
	Currency        string      `json:"currency"`         // display fallback when the API has no table
	QuantityUnit    string      `json:"quantity_unit"`    // same, e.g. "L"
	TripUnit        string      `json:"trip_unit"`        // e.g. "km"
	ConsumptionUnit string      `json:"consumption_unit"` // e.g. "km/L" or "L/100km"

	// Refresh scheduling
	UpdateInterval      time.Duration `json:"update_interval"`       // bounded 1-24h
	ForceUpdateInterval time.Duration `json:"force_update_interval"` // republish even if unchanged, 0 = off

	// MQTT / Home Assistant
	MQTTUrl         string `json:"mqtt_url"`
	DiscoveryPrefix string `json:"discovery_prefix"`
	DeviceID        string `json:"device_id"`

	Verbose bool `json:"verbose"`
}

// GetDefaultConfig returns a configuration with sensible defaults.
func GetDefaultConfig() *Config {
	return &Config{
		APIBaseURL:      DefaultAPIBaseURL,
		VehicleType:     VehicleCombustion,
		Currency:        DefaultCurrency,
		QuantityUnit:    DefaultQuantityUnit,
		TripUnit:        DefaultTripUnit,
		ConsumptionUnit: DefaultConsumptionUnit,
		UpdateInterval:  DefaultUpdateInterval,
		DiscoveryPrefix: "homeassistant",
	}
}

// Validate checks the configuration and clamps the refresh interval into its
// permitted 1-24h window.
func (c *Config) Validate() error {
	if c.AppID == "" {
		return fmt.Errorf("application id is required")
	}
	if c.BearerToken == "" {
		return fmt.Errorf("bearer token is required")
	}
	if c.VehicleID <= 0 {
		return fmt.Errorf("vehicle id is required")
	}

	switch c.VehicleType {
	case VehicleCombustion, VehicleElectric, VehicleHybrid:
	default:
		return fmt.Errorf("vehicle type must be combustion, electric or hybrid (got %q)", c.VehicleType)
	}

	if c.MQTTUrl != "" {
		if !strings.HasPrefix(c.MQTTUrl, "ws://") &&
			!strings.HasPrefix(c.MQTTUrl, "wss://") &&
			!strings.HasPrefix(c.MQTTUrl, "mqtt://") &&
			!strings.HasPrefix(c.MQTTUrl, "mqtts://") {
			return fmt.Errorf("MQTT URL must use supported protocol (ws://, wss://, mqtt://, or mqtts://)")
		}
	}

	if c.UpdateInterval < MinUpdateInterval {
		c.UpdateInterval = MinUpdateInterval
	}
	if c.UpdateInterval > MaxUpdateInterval {
		c.UpdateInterval = MaxUpdateInterval
	}

	if c.DeviceID == "" {
		c.DeviceID = fmt.Sprintf("spritmonitor_%d", c.VehicleID)
	}

	return nil
}

// HasMQTT returns true if MQTT is configured.
func (c *Config) HasMQTT() bool {
	return c.MQTTUrl != ""
}
