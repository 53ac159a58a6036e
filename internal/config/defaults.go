package config

import "time"

// Central place for all application-wide timing constants and other defaults.
// Changing a value here immediately affects all components that import
// github.com/matbott/spritmonitor-hass/internal/config.

const (
	DefaultAPIBaseURL = "https://api.spritmonitor.de/v1"

	// Refresh scheduling. The remote data changes at human pace (one fill-up
	// every few days), so the polling window is bounded in hours.
	DefaultUpdateInterval = 6 * time.Hour
	MinUpdateInterval     = 1 * time.Hour
	MaxUpdateInterval     = 24 * time.Hour

	// Operation time-outs (to avoid blocking goroutines)
	DataTimeout  = 30 * time.Second // data endpoint call
	ProbeTimeout = 10 * time.Second // credential-validation call
	MQTTTimeout  = 5 * time.Second  // MQTT publish

	// How many fueling events one snapshot carries and how the derived
	// statistics window them. The fetch limit covers the widest window.
	FuelingsLimit         = 10
	StatsWindow           = 5
	CostPerDistanceWindow = 10

	// Display fallbacks when the API exposes no lookup tables.
	DefaultCurrency        = "EUR"
	DefaultQuantityUnit    = "L"
	DefaultTripUnit        = "km"
	DefaultConsumptionUnit = "km/L"
)
