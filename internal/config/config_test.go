package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := GetDefaultConfig()
	cfg.AppID = "app-id"
	cfg.BearerToken = "token"
	cfg.VehicleID = 42
	return cfg
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, VehicleCombustion, cfg.VehicleType)
	assert.Equal(t, DefaultUpdateInterval, cfg.UpdateInterval)
	assert.Equal(t, "homeassistant", cfg.DiscoveryPrefix)
	assert.False(t, cfg.HasMQTT())
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing app id", func(c *Config) { c.AppID = "" }, "application id"},
		{"missing bearer token", func(c *Config) { c.BearerToken = "" }, "bearer token"},
		{"missing vehicle id", func(c *Config) { c.VehicleID = 0 }, "vehicle id"},
		{"negative vehicle id", func(c *Config) { c.VehicleID = -1 }, "vehicle id"},
		{"bad vehicle type", func(c *Config) { c.VehicleType = "diesel" }, "vehicle type"},
		{"bad mqtt scheme", func(c *Config) { c.MQTTUrl = "http://broker:1883" }, "MQTT URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_mqttSchemes(t *testing.T) {
	for _, url := range []string{
		"mqtt://broker:1883",
		"mqtts://broker:8883",
		"ws://broker:9001/mqtt",
		"wss://broker:9001/mqtt",
	} {
		cfg := validConfig()
		cfg.MQTTUrl = url
		assert.NoError(t, cfg.Validate(), url)
		assert.True(t, cfg.HasMQTT())
	}
}

func TestValidate_clampsUpdateInterval(t *testing.T) {
	cfg := validConfig()
	cfg.UpdateInterval = 10 * time.Minute
	require.NoError(t, cfg.Validate())
	assert.Equal(t, MinUpdateInterval, cfg.UpdateInterval)

	cfg = validConfig()
	cfg.UpdateInterval = 48 * time.Hour
	require.NoError(t, cfg.Validate())
	assert.Equal(t, MaxUpdateInterval, cfg.UpdateInterval)

	cfg = validConfig()
	cfg.UpdateInterval = 12 * time.Hour
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 12*time.Hour, cfg.UpdateInterval)
}

func TestValidate_defaultsDeviceID(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "spritmonitor_42", cfg.DeviceID)

	cfg = validConfig()
	cfg.DeviceID = "garage_car"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "garage_car", cfg.DeviceID)
}

func TestVehicleType(t *testing.T) {
	assert.True(t, VehicleCombustion.Combustion())
	assert.False(t, VehicleCombustion.Electric())
	assert.True(t, VehicleElectric.Electric())
	assert.False(t, VehicleElectric.Combustion())
	assert.True(t, VehicleHybrid.Combustion())
	assert.True(t, VehicleHybrid.Electric())
}
