package transmission

import (
	"github.com/sirupsen/logrus"

	"github.com/matbott/spritmonitor-hass/internal/domain"
	"github.com/matbott/spritmonitor-hass/internal/sensors"
)

// LogTransmitter is the fallback host when no MQTT broker is configured: it
// renders every available metric through the provider and writes one log line
// per refresh. Values are read back through the provider rather than the
// snapshot so the output matches exactly what any other host would see.
type LogTransmitter struct {
	provider *sensors.Provider
	logger   *logrus.Logger
}

// NewLogTransmitter creates a transmitter that logs metric values.
func NewLogTransmitter(provider *sensors.Provider, logger *logrus.Logger) *LogTransmitter {
	return &LogTransmitter{provider: provider, logger: logger}
}

// Transmit logs the current value of every available metric.
func (t *LogTransmitter) Transmit(*domain.Snapshot) error {
	if !t.provider.IsAvailable() {
		t.logger.Warn("Metrics unavailable, nothing to log")
		return nil
	}

	fields := logrus.Fields{}
	for _, def := range t.provider.Definitions() {
		v := t.provider.Value(def.ID)
		if v == nil {
			continue
		}
		if unit := t.provider.Unit(def.ID); unit != "" {
			fields[def.ID] = logrus.Fields{"value": v, "unit": unit}
			continue
		}
		fields[def.ID] = v
	}

	t.logger.WithFields(fields).Info("Metric state")
	return nil
}
