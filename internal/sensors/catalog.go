package sensors

import (
	"strings"

	"github.com/matbott/spritmonitor-hass/internal/config"
	"github.com/matbott/spritmonitor-hass/internal/domain"
	"github.com/matbott/spritmonitor-hass/internal/stats"
	"github.com/matbott/spritmonitor-hass/internal/units"
)

// Catalog builds the ordered metric table for a vehicle. The common set is
// always present; tank/fuel metrics are added for combustion vehicles,
// battery/energy metrics for electric ones, and hybrids get both.
func Catalog(vehicleType config.VehicleType, prefs units.Preferences) []Definition {
	tripUnit := func(*domain.Snapshot) string { return prefs.TripUnit }
	consumptionUnit := func(*domain.Snapshot) string { return prefs.ConsumptionUnit }
	quantityUnit := func(s *domain.Snapshot) string {
		return units.ResolveQuantityUnit(s, s.LastFueling(), prefs)
	}
	currency := func(s *domain.Snapshot) string {
		return units.ResolveCurrency(s, s.LastFueling(), prefs)
	}
	pricePerUnit := func(s *domain.Snapshot) string {
		return currency(s) + "/" + quantityUnit(s)
	}
	costPerTrip := func(s *domain.Snapshot) string {
		return currency(s) + "/" + prefs.TripUnit
	}
	pricePerKWh := func(s *domain.Snapshot) string {
		return currency(s) + "/kWh"
	}
	kWh := func(*domain.Snapshot) string { return "kWh" }

	defs := []Definition{
		// Vehicle identity
		{
			ID: "brand_model", Name: "Vehicle", Icon: "mdi:car",
			Value: vehicleVal(func(v *domain.Vehicle) any {
				return nonEmpty(strings.TrimSpace(v.Make + " " + v.Model))
			}),
		},
		{
			ID: "license_plate", Name: "License Plate", Icon: "mdi:card-text",
			Value: vehicleVal(func(v *domain.Vehicle) any { return nonEmpty(v.Sign) }),
		},
		{
			ID: "total_distance", Name: "Total Distance", Category: CategoryDistance,
			DeviceClass: "distance", StateClass: "total", Icon: "mdi:speedometer", Unit: tripUnit,
			Value: vehicleVal(func(v *domain.Vehicle) any { return flexOrNil(v.TripSum) }),
		},

		// Last fueling/charging event
		{
			ID: "last_refuel_date", Name: "Last Refuel Date", Icon: "mdi:calendar",
			Value: lastFuelingVal(func(f *domain.Fueling) any { return nonEmpty(f.Date) }),
		},
		{
			ID: "last_refuel_odometer", Name: "Last Refuel Odometer", Category: CategoryDistance,
			DeviceClass: "distance", StateClass: "total", Icon: "mdi:speedometer", Unit: tripUnit,
			Value: lastFuelingVal(func(f *domain.Fueling) any { return flexOrNil(f.Odometer) }),
		},
		{
			ID: "last_refuel_trip", Name: "Last Refuel Trip", Category: CategoryDistance,
			DeviceClass: "distance", StateClass: "measurement", Icon: "mdi:map-marker-distance", Unit: tripUnit,
			Value: lastFuelingVal(func(f *domain.Fueling) any { return flexOrNil(f.Trip) }),
		},
		{
			ID: "last_refuel_cost", Name: "Last Refuel Cost", Category: CategoryMonetary,
			DeviceClass: "monetary", Icon: "mdi:currency-usd", Unit: currency,
			Value: lastFuelingVal(func(f *domain.Fueling) any { return floatOrNil(stats.FormatCost(f.Cost)) }),
		},
		{
			ID: "last_refuel_type", Name: "Last Refuel Type", Icon: "mdi:gas-station-outline",
			Value: lastFuelingVal(func(f *domain.Fueling) any { return nonEmpty(f.Type) }),
		},
		{
			ID: "last_refuel_location", Name: "Last Refuel Location", Icon: "mdi:map-marker",
			Value: lastFuelingVal(func(f *domain.Fueling) any { return nonEmpty(f.Location) }),
		},
		{
			ID: "last_refuel_country", Name: "Last Refuel Country", Icon: "mdi:flag",
			Value: lastFuelingVal(func(f *domain.Fueling) any { return nonEmpty(f.Country) }),
		},

		// Community ranking
		{
			ID: "ranking_position", Name: "Ranking Position", StateClass: "measurement", Icon: "mdi:trophy",
			Value: rankingVal(func(r *domain.RankingInfo) any { return flexOrNil(r.Rank) }),
		},
		{
			ID: "ranking_total", Name: "Ranking Total", Icon: "mdi:account-group",
			Value: rankingVal(func(r *domain.RankingInfo) any { return flexOrNil(r.Total) }),
		},
		{
			ID: "ranking_min_consumption", Name: "Ranking Best Consumption",
			StateClass: "measurement", Icon: "mdi:trophy-award", Unit: consumptionUnit,
			Value: rankingVal(func(r *domain.RankingInfo) any { return flexOrNil(r.Min) }),
		},
		{
			ID: "ranking_avg_consumption", Name: "Ranking Average Consumption",
			StateClass: "measurement", Icon: "mdi:chart-bar", Unit: consumptionUnit,
			Value: rankingVal(func(r *domain.RankingInfo) any { return flexOrNil(r.Avg) }),
		},

		// Maintenance
		{
			ID: "next_service_km", Name: "Next Service Odometer", Category: CategoryDistance,
			DeviceClass: "distance", Icon: "mdi:wrench", Unit: tripUnit,
			Value: snapshotVal(func(s *domain.Snapshot) any {
				if r := stats.NextServiceReminder(s.Reminders); r != nil {
					return flexOrNil(r.NextOdometer)
				}
				return nil
			}),
		},
		{
			ID: "next_service_note", Name: "Next Service Note", Icon: "mdi:note-text",
			Value: snapshotVal(func(s *domain.Snapshot) any {
				if r := stats.NextServiceReminder(s.Reminders); r != nil {
					return nonEmpty(r.Note)
				}
				return nil
			}),
		},
		{
			ID: "next_service_date", Name: "Next Service Date", DeviceClass: "date", Icon: "mdi:calendar-clock",
			Value: snapshotVal(func(s *domain.Snapshot) any {
				return dateOrNil(stats.NextServiceDate(s.Reminders))
			}),
		},
		{
			ID: "km_to_next_service", Name: "Distance To Next Service", Category: CategoryDistance,
			DeviceClass: "distance", StateClass: "measurement", Icon: "mdi:car-wrench", Unit: tripUnit,
			Value: snapshotVal(func(s *domain.Snapshot) any {
				return floatOrNil(stats.KmToNextService(s))
			}),
		},

		// Derived statistics
		{
			ID: "consumption_trend", Name: "Consumption Trend", Icon: "mdi:trending-up",
			Value: fuelingsVal(func(fs []domain.Fueling) any {
				return stringOrNil(stats.ConsumptionTrend(fs))
			}),
		},
		{
			ID: "consumption_consistency", Name: "Consumption Consistency",
			StateClass: "measurement", Icon: "mdi:chart-bell-curve", Unit: consumptionUnit,
			Value: fuelingsVal(func(fs []domain.Fueling) any {
				return floatOrNil(stats.ConsumptionConsistency(fs))
			}),
		},
		{
			ID: "avg_refuel_quantity", Name: "Average Refuel Quantity", Category: CategoryVolume,
			StateClass: "measurement", Icon: "mdi:gas-station-outline", Unit: quantityUnit,
			Value: fuelingsVal(func(fs []domain.Fueling) any {
				return floatOrNil(stats.AvgRefuelQuantity(fs))
			}),
		},
		{
			ID: "avg_days_between_refuels", Name: "Average Days Between Refuels",
			StateClass: "measurement", Icon: "mdi:calendar-range",
			Unit:  func(*domain.Snapshot) string { return "days" },
			Value: fuelingsVal(func(fs []domain.Fueling) any { return floatOrNil(stats.AvgDaysBetweenRefuels(fs)) }),
		},
		{
			ID: "price_variability", Name: "Price Variability", Category: CategoryMonetary,
			StateClass: "measurement", Icon: "mdi:chart-line-variant", Unit: pricePerUnit,
			Value: fuelingsVal(func(fs []domain.Fueling) any { return floatOrNil(stats.PriceVariability(fs)) }),
		},
		{
			ID: "eco_driving_index", Name: "Eco Driving Index", Category: CategoryDimensionless,
			StateClass: "measurement", Icon: "mdi:leaf",
			Unit: func(*domain.Snapshot) string { return "/10" },
			Value: snapshotVal(func(s *domain.Snapshot) any {
				return floatOrNil(stats.EcoDrivingIndex(s.Fuelings, s.Vehicle.Consumption))
			}),
		},
		{
			ID: "cost_per_distance", Name: "Cost Per Distance", Category: CategoryMonetary,
			StateClass: "measurement", Icon: "mdi:cash-multiple", Unit: costPerTrip,
			Value: fuelingsVal(func(fs []domain.Fueling) any { return floatOrNil(stats.CostPerDistance(fs)) }),
		},
	}

	if vehicleType.Combustion() {
		defs = append(defs,
			Definition{
				ID: "fuel_capacity", Name: "Fuel Capacity", Category: CategoryVolume,
				DeviceClass: "volume", Icon: "mdi:gas-station", Unit: quantityUnit,
				Value: vehicleVal(func(v *domain.Vehicle) any { return flexOrNil(v.Capacity) }),
			},
			Definition{
				ID: "total_fuel", Name: "Total Fuel", Category: CategoryVolume,
				DeviceClass: "volume", StateClass: "total_increasing", Icon: "mdi:gas-station", Unit: quantityUnit,
				Value: vehicleVal(func(v *domain.Vehicle) any { return flexOrNil(v.QuantitySum) }),
			},
			Definition{
				ID: "avg_consumption", Name: "Average Consumption",
				StateClass: "measurement", Icon: "mdi:chart-line", Unit: consumptionUnit,
				Value: vehicleVal(func(v *domain.Vehicle) any { return flexOrNil(v.Consumption) }),
			},
			Definition{
				ID: "last_refuel_quantity", Name: "Last Refuel Quantity", Category: CategoryVolume,
				StateClass: "measurement", Icon: "mdi:gas-station", Unit: quantityUnit,
				Value: lastFuelingVal(func(f *domain.Fueling) any { return flexOrNil(f.Quantity) }),
			},
			Definition{
				ID: "last_refuel_price_per_liter", Name: "Last Refuel Price Per Liter", Category: CategoryMonetary,
				StateClass: "measurement", Icon: "mdi:currency-usd", Unit: pricePerUnit,
				Value: lastFuelingVal(func(f *domain.Fueling) any {
					return floatOrNil(stats.PricePerUnit(f.Cost, f.Quantity))
				}),
			},
			Definition{
				ID: "last_refuel_consumption", Name: "Last Refuel Consumption",
				StateClass: "measurement", Icon: "mdi:car-speed-limiter", Unit: consumptionUnit,
				Value: lastFuelingVal(func(f *domain.Fueling) any { return flexOrNil(f.Consumption) }),
			},
			Definition{
				ID: "fuel_level_estimate", Name: "Fuel Level Estimate", Category: CategoryVolume,
				StateClass: "measurement", Icon: "mdi:gauge", Unit: quantityUnit,
				Value: snapshotVal(func(s *domain.Snapshot) any { return floatOrNil(stats.FuelLevelEstimate(s)) }),
			},
			Definition{
				ID: "range_estimate", Name: "Range Estimate", Category: CategoryDistance,
				DeviceClass: "distance", StateClass: "measurement", Icon: "mdi:gas-station-off", Unit: tripUnit,
				Value: snapshotVal(func(s *domain.Snapshot) any {
					return floatOrNil(stats.RangeEstimate(s, prefs.ConsumptionUnit))
				}),
			},
		)
	}

	if vehicleType.Electric() {
		defs = append(defs,
			Definition{
				ID: "battery_capacity", Name: "Battery Capacity", Category: CategoryEnergy,
				DeviceClass: "energy_storage", Icon: "mdi:battery", Unit: kWh,
				Value: vehicleVal(func(v *domain.Vehicle) any { return flexOrNil(v.Capacity) }),
			},
			Definition{
				ID: "total_energy_charged", Name: "Total Energy Charged", Category: CategoryEnergy,
				DeviceClass: "energy", StateClass: "total_increasing", Icon: "mdi:lightning-bolt", Unit: kWh,
				Value: vehicleVal(func(v *domain.Vehicle) any { return flexOrNil(v.QuantitySum) }),
			},
			Definition{
				ID: "avg_energy_consumption", Name: "Average Energy Consumption",
				StateClass: "measurement", Icon: "mdi:chart-line", Unit: consumptionUnit,
				Value: vehicleVal(func(v *domain.Vehicle) any { return flexOrNil(v.Consumption) }),
			},
			Definition{
				ID: "last_charge_energy", Name: "Last Charge Energy", Category: CategoryEnergy,
				DeviceClass: "energy", Icon: "mdi:ev-station", Unit: kWh,
				Value: lastFuelingVal(func(f *domain.Fueling) any { return flexOrNil(f.Quantity) }),
			},
			Definition{
				ID: "last_charge_price_per_kwh", Name: "Last Charge Price Per kWh", Category: CategoryMonetary,
				StateClass: "measurement", Icon: "mdi:currency-usd", Unit: pricePerKWh,
				Value: lastFuelingVal(func(f *domain.Fueling) any {
					return floatOrNil(stats.PricePerUnit(f.Cost, f.Quantity))
				}),
			},
			Definition{
				ID: "last_charge_consumption", Name: "Last Charge Consumption",
				StateClass: "measurement", Icon: "mdi:car-speed-limiter", Unit: consumptionUnit,
				Value: lastFuelingVal(func(f *domain.Fueling) any { return flexOrNil(f.Consumption) }),
			},
			Definition{
				ID: "full_battery_range_estimate", Name: "Full Battery Range Estimate", Category: CategoryDistance,
				DeviceClass: "distance", StateClass: "measurement", Icon: "mdi:map-marker-radius", Unit: tripUnit,
				Value: snapshotVal(func(s *domain.Snapshot) any {
					return floatOrNil(stats.FullBatteryRangeEstimate(s, prefs.ConsumptionUnit))
				}),
			},
		)
	}

	return defs
}

// Values computes the id to value state map for one snapshot. Unavailable
// metrics are simply absent from the map.
func Values(defs []Definition, snap *domain.Snapshot) map[string]any {
	state := make(map[string]any, len(defs))
	for _, def := range defs {
		if v := def.Value(snap); v != nil {
			state[def.ID] = v
		}
	}
	return state
}

// ByID finds a definition in a catalog.
func ByID(defs []Definition, id string) (Definition, bool) {
	for _, def := range defs {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}
