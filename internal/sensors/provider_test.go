package sensors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matbott/spritmonitor-hass/internal/cache"
	"github.com/matbott/spritmonitor-hass/internal/config"
)

func TestProvider(t *testing.T) {
	store := cache.New()
	provider := NewProvider(Catalog(config.VehicleCombustion, testPrefs()), store)

	// Empty store: nothing available, nothing panics. Units backed by
	// static preferences still resolve.
	assert.False(t, provider.IsAvailable())
	assert.Nil(t, provider.Value("brand_model"))
	assert.Equal(t, "km", provider.Unit("total_distance"))

	store.Update(testSnapshot(), nil)
	assert.True(t, provider.IsAvailable())
	assert.Equal(t, "Skoda Octavia", provider.Value("brand_model"))
	assert.Equal(t, 48200.0, provider.Value("total_distance"))
	assert.Equal(t, "km", provider.Unit("total_distance"))

	// Unknown metric ids resolve to unavailable, not an error.
	assert.Nil(t, provider.Value("no_such_metric"))
	assert.Equal(t, "", provider.Unit("no_such_metric"))

	// Unitless metrics report an empty unit.
	assert.Equal(t, "", provider.Unit("brand_model"))

	// A failed refresh flips every metric back to unavailable.
	store.Update(nil, errors.New("connection refused"))
	assert.False(t, provider.IsAvailable())
	assert.Nil(t, provider.Value("brand_model"))
}

func TestProvider_recomputesPerRead(t *testing.T) {
	store := cache.New()
	provider := NewProvider(Catalog(config.VehicleCombustion, testPrefs()), store)

	first := testSnapshot()
	store.Update(first, nil)
	assert.Equal(t, 48200.0, provider.Value("total_distance"))

	second := testSnapshot()
	second.Vehicle.TripSum = flex(48712)
	store.Update(second, nil)
	assert.Equal(t, 48712.0, provider.Value("total_distance"))
}
