package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/matbott/spritmonitor-hass/internal/api"
	"github.com/matbott/spritmonitor-hass/internal/app"
	"github.com/matbott/spritmonitor-hass/internal/cache"
	"github.com/matbott/spritmonitor-hass/internal/config"
	"github.com/matbott/spritmonitor-hass/internal/mqtt"
	"github.com/matbott/spritmonitor-hass/internal/sensors"
	"github.com/matbott/spritmonitor-hass/internal/transmission"
	"github.com/matbott/spritmonitor-hass/internal/units"
)

// version is injected at build time via ldflags
var version = "dev"

func main() {
	cfg := parseFlags()
	logger := setupLogger(cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	logger.WithFields(logrus.Fields{
		"version":      version,
		"vehicle_id":   cfg.VehicleID,
		"vehicle_type": cfg.VehicleType,
		"interval":     cfg.UpdateInterval,
	}).Info("Starting spritmonitor-hass")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("Shutdown signal received")
		cancel()
	}()

	// Core clients ---------------------------------------------------------------
	client := api.NewClient(cfg.APIBaseURL, cfg.AppID, cfg.BearerToken, logger)

	if err := client.Probe(ctx, cfg.VehicleID); err != nil {
		logger.WithError(err).Fatal("Credential validation failed")
	}
	logger.Info("Credentials validated")

	prefs := units.PreferencesFromConfig(cfg)
	catalog := sensors.Catalog(cfg.VehicleType, prefs)
	store := cache.New()
	provider := sensors.NewProvider(catalog, store)

	// Transmitter ----------------------------------------------------------------
	var tx transmission.Transmitter
	var mqttClient *mqtt.Client
	if cfg.HasMQTT() {
		var err error
		mqttClient, err = mqtt.NewClient(cfg.MQTTUrl, cfg.DeviceID, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create MQTT client")
		}
		tx = transmission.NewMQTTTransmitter(mqttClient, catalog, cfg.DeviceID, cfg.DiscoveryPrefix, logger)
		logger.WithField("metrics", len(catalog)).Info("MQTT transmitter ready")
	} else {
		tx = transmission.NewLogTransmitter(provider, logger)
		logger.Warn("No MQTT broker configured; data will only be logged")
	}

	// Run application ------------------------------------------------------------
	bridge := app.New(cfg, client, store, tx, logger)
	defer func() {
		bridge.Close()
		if mqttClient != nil {
			mqttClient.Disconnect(250)
		}
	}()

	if err := bridge.Run(ctx); err != nil && err != context.Canceled {
		logger.WithError(err).Fatal("Bridge exited")
	}
	logger.Info("spritmonitor-hass stopped")
}

// -----------------------------------------------------------------------------
// Helpers & Flags
// -----------------------------------------------------------------------------

func parseFlags() *config.Config {
	// A .env file is optional; real deployments set environment variables.
	_ = godotenv.Load()

	cfg := config.GetDefaultConfig()

	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.StringVar(&cfg.APIBaseURL, "api-url", getEnv("SPRITMONITOR_HASS_API_URL", cfg.APIBaseURL), "Spritmonitor API base URL")
	flag.StringVar(&cfg.AppID, "app-id", getEnv("SPRITMONITOR_HASS_APP_ID", cfg.AppID), "Spritmonitor application id header")
	flag.StringVar(&cfg.BearerToken, "bearer-token", getEnv("SPRITMONITOR_HASS_BEARER_TOKEN", cfg.BearerToken), "Spritmonitor bearer token")
	flag.Int64Var(&cfg.VehicleID, "vehicle-id", getEnvInt64("SPRITMONITOR_HASS_VEHICLE_ID", cfg.VehicleID), "Spritmonitor vehicle id")

	vehicleType := flag.String("vehicle-type", getEnv("SPRITMONITOR_HASS_VEHICLE_TYPE", string(cfg.VehicleType)), "Vehicle energy type (combustion, electric, hybrid)")

	flag.StringVar(&cfg.Currency, "currency", getEnv("SPRITMONITOR_HASS_CURRENCY", cfg.Currency), "Display currency fallback")
	flag.StringVar(&cfg.QuantityUnit, "quantity-unit", getEnv("SPRITMONITOR_HASS_QUANTITY_UNIT", cfg.QuantityUnit), "Display quantity unit fallback")
	flag.StringVar(&cfg.TripUnit, "trip-unit", getEnv("SPRITMONITOR_HASS_TRIP_UNIT", cfg.TripUnit), "Display distance unit")
	flag.StringVar(&cfg.ConsumptionUnit, "consumption-unit", getEnv("SPRITMONITOR_HASS_CONSUMPTION_UNIT", cfg.ConsumptionUnit), "Display consumption unit")

	flag.StringVar(&cfg.MQTTUrl, "mqtt-url", getEnv("SPRITMONITOR_HASS_MQTT_URL", cfg.MQTTUrl), "MQTT URL")
	flag.StringVar(&cfg.DiscoveryPrefix, "discovery-prefix", getEnv("SPRITMONITOR_HASS_DISCOVERY_PREFIX", cfg.DiscoveryPrefix), "HA discovery prefix")
	flag.StringVar(&cfg.DeviceID, "device-id", getEnv("SPRITMONITOR_HASS_DEVICE_ID", cfg.DeviceID), "Device identifier")
	flag.BoolVar(&cfg.Verbose, "verbose", getEnv("SPRITMONITOR_HASS_VERBOSE", "false") == "true", "Verbose logging")

	updateIntervalStr := flag.String("update-interval", getEnv("SPRITMONITOR_HASS_UPDATE_INTERVAL", ""), "Refresh interval, 1h-24h (e.g. 6h)")
	forceUpdateIntervalStr := flag.String("force-update-interval", getEnv("SPRITMONITOR_HASS_FORCE_UPDATE_INTERVAL", ""), "Republish all metrics at this interval even if unchanged (0 = disabled)")

	flag.Parse()

	if *showVersion {
		fmt.Printf("spritmonitor-hass %s\n", version)
		os.Exit(0)
	}

	cfg.VehicleType = config.VehicleType(*vehicleType)

	// Duration overrides accept both Go durations ("6h") and plain hours ("6").
	if *updateIntervalStr != "" {
		if d, err := time.ParseDuration(*updateIntervalStr); err == nil && d > 0 {
			cfg.UpdateInterval = d
		} else if v, err2 := strconv.Atoi(*updateIntervalStr); err2 == nil && v > 0 {
			cfg.UpdateInterval = time.Duration(v) * time.Hour
		}
	}
	if *forceUpdateIntervalStr != "" {
		if d, err := time.ParseDuration(*forceUpdateIntervalStr); err == nil && d >= 0 {
			cfg.ForceUpdateInterval = d
		} else if v, err2 := strconv.Atoi(*forceUpdateIntervalStr); err2 == nil && v >= 0 {
			cfg.ForceUpdateInterval = time.Duration(v) * time.Hour
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func setupLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
