package sensors

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matbott/spritmonitor-hass/internal/config"
	"github.com/matbott/spritmonitor-hass/internal/domain"
	"github.com/matbott/spritmonitor-hass/internal/units"
)

func flex(v float64) *domain.FlexFloat {
	f := domain.FlexFloat(v)
	return &f
}

func testPrefs() units.Preferences {
	return units.Preferences{
		Currency:        "EUR",
		QuantityUnit:    "L",
		TripUnit:        "km",
		ConsumptionUnit: "km/L",
	}
}

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Vehicle: &domain.Vehicle{
			ID:          42,
			Make:        "Skoda",
			Model:       "Octavia",
			Sign:        "AB-12345",
			Capacity:    flex(45),
			TripSum:     flex(48200),
			QuantitySum: flex(3460),
			Consumption: flex(13.9),
			RankingInfo: &domain.RankingInfo{
				Rank:  flex(120),
				Total: flex(4000),
				Min:   flex(18.1),
				Avg:   flex(13.2),
			},
		},
		Fuelings: []domain.Fueling{
			{Date: "20.01.2025", Odometer: flex(48200), Trip: flex(512), Quantity: flex(40.2), Cost: flex(62.5), Consumption: flex(12.7), Location: "Oslo", Country: "NO", Type: "full"},
			{Date: "05.01.2025", Odometer: flex(47688), Trip: flex(498), Quantity: flex(38.9), Cost: flex(60.1), Consumption: flex(12.8)},
			{Date: "20.12.2024", Odometer: flex(47190), Trip: flex(505), Quantity: flex(39.5), Cost: flex(58.4), Consumption: flex(12.8)},
		},
		Reminders: []domain.Reminder{
			{ID: 1, VehicleID: 42, Completed: 0, NextOdometer: flex(50000), NextDate: "2025-03-01", Note: "oil change"},
		},
	}
}

func TestCatalog_vehicleTypeSets(t *testing.T) {
	prefs := testPrefs()

	ids := func(defs []Definition) []string {
		return lo.Map(defs, func(d Definition, _ int) string { return d.ID })
	}

	combustion := ids(Catalog(config.VehicleCombustion, prefs))
	electric := ids(Catalog(config.VehicleElectric, prefs))
	hybrid := ids(Catalog(config.VehicleHybrid, prefs))

	assert.Contains(t, combustion, "fuel_capacity")
	assert.Contains(t, combustion, "range_estimate")
	assert.NotContains(t, combustion, "battery_capacity")

	assert.Contains(t, electric, "battery_capacity")
	assert.Contains(t, electric, "full_battery_range_estimate")
	assert.NotContains(t, electric, "fuel_capacity")

	// Hybrids carry both metric families.
	assert.Contains(t, hybrid, "fuel_capacity")
	assert.Contains(t, hybrid, "battery_capacity")

	// The common set is identical across vehicle types.
	for _, id := range []string{
		"brand_model", "license_plate", "total_distance",
		"last_refuel_date", "last_refuel_cost",
		"ranking_position", "next_service_date", "km_to_next_service",
		"consumption_trend", "eco_driving_index", "cost_per_distance",
	} {
		assert.Contains(t, combustion, id)
		assert.Contains(t, electric, id)
	}
}

func TestCatalog_uniqueIDs(t *testing.T) {
	defs := Catalog(config.VehicleHybrid, testPrefs())
	seen := map[string]bool{}
	for _, def := range defs {
		require.NotEmpty(t, def.ID)
		require.False(t, seen[def.ID], "duplicate metric id %q", def.ID)
		seen[def.ID] = true
		require.NotNil(t, def.Value, "metric %q has no value accessor", def.ID)
	}
}

func TestCatalog_valuesFromSnapshot(t *testing.T) {
	defs := Catalog(config.VehicleCombustion, testPrefs())
	snap := testSnapshot()
	state := Values(defs, snap)

	assert.Equal(t, "Skoda Octavia", state["brand_model"])
	assert.Equal(t, "AB-12345", state["license_plate"])
	assert.Equal(t, 48200.0, state["total_distance"])
	assert.Equal(t, "20.01.2025", state["last_refuel_date"])
	assert.Equal(t, 62.5, state["last_refuel_cost"])
	assert.Equal(t, 40.2, state["last_refuel_quantity"])
	assert.Equal(t, 120.0, state["ranking_position"])
	assert.Equal(t, 50000.0, state["next_service_km"])
	assert.Equal(t, "oil change", state["next_service_note"])
	assert.Equal(t, "2025-03-01", state["next_service_date"])
	assert.Equal(t, 1800.0, state["km_to_next_service"])
	assert.Equal(t, 40.2, state["fuel_level_estimate"])

	// Consumption barely moves across the window.
	assert.Equal(t, "stable", state["consumption_trend"])
}

func TestCatalog_nilVehicleSuppressesEverything(t *testing.T) {
	defs := Catalog(config.VehicleHybrid, testPrefs())

	for _, snap := range []*domain.Snapshot{nil, {}} {
		state := Values(defs, snap)
		assert.Empty(t, state)
		for _, def := range defs {
			assert.NotPanics(t, func() { def.Value(snap) })
			assert.Nil(t, def.Value(snap), "metric %q should be unavailable", def.ID)
		}
	}
}

func TestCatalog_emptyHistory(t *testing.T) {
	defs := Catalog(config.VehicleCombustion, testPrefs())
	snap := &domain.Snapshot{Vehicle: &domain.Vehicle{ID: 42, Make: "Skoda", Model: "Octavia"}}

	state := Values(defs, snap)
	assert.Equal(t, "Skoda Octavia", state["brand_model"])
	assert.NotContains(t, state, "last_refuel_date")
	assert.NotContains(t, state, "consumption_trend")
	assert.NotContains(t, state, "fuel_level_estimate")
	assert.NotContains(t, state, "ranking_position")
}

func TestCatalog_unitResolution(t *testing.T) {
	defs := Catalog(config.VehicleCombustion, testPrefs())
	snap := testSnapshot()
	snap.Currencies = map[int64]domain.Currency{5: {ID: 5, Symbol: "NOK"}}
	snap.QuantityUnits = map[int64]domain.QuantityUnit{3: {ID: 3, Unit: "gal"}}
	snap.Fuelings[0].CurrencyID = lo.ToPtr(int64(5))
	snap.Fuelings[0].QuantityUnitID = lo.ToPtr(int64(3))

	cost, ok := ByID(defs, "last_refuel_cost")
	require.True(t, ok)
	assert.Equal(t, "NOK", cost.Unit(snap))

	price, ok := ByID(defs, "last_refuel_price_per_liter")
	require.True(t, ok)
	assert.Equal(t, "NOK/gal", price.Unit(snap))

	quantity, ok := ByID(defs, "avg_refuel_quantity")
	require.True(t, ok)
	assert.Equal(t, "gal", quantity.Unit(snap))

	distance, ok := ByID(defs, "total_distance")
	require.True(t, ok)
	assert.Equal(t, "km", distance.Unit(snap))
}

func TestByID(t *testing.T) {
	defs := Catalog(config.VehicleCombustion, testPrefs())
	_, ok := ByID(defs, "brand_model")
	assert.True(t, ok)
	_, ok = ByID(defs, "does_not_exist")
	assert.False(t, ok)
}
