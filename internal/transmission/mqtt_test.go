package transmission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matbott/spritmonitor-hass/internal/domain"
)

func TestDeviceInfo(t *testing.T) {
	tx := &MQTTTransmitter{deviceID: "spritmonitor_42"}

	device := tx.deviceInfo(testSnapshot())
	assert.Equal(t, []string{"spritmonitor_spritmonitor_42"}, device.Identifiers)
	assert.Equal(t, "Skoda Octavia", device.Name)
	assert.Equal(t, "Octavia", device.Model)
	assert.Equal(t, "Spritmonitor", device.Manufacturer)
	assert.Equal(t, "https://www.spritmonitor.de/en/detail/42.html", device.ConfigurationURL)
}

func TestDeviceInfo_noVehicle(t *testing.T) {
	tx := &MQTTTransmitter{deviceID: "spritmonitor_42"}

	device := tx.deviceInfo(&domain.Snapshot{})
	assert.Equal(t, "Spritmonitor Vehicle", device.Name)
	assert.Empty(t, device.Model)
	assert.Empty(t, device.ConfigurationURL)
}
