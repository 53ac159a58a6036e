// Package stats holds the derived-statistics engine: pure functions that
// turn a raw fueling/charging history into trend, consistency, cost and
// range estimates. Every function takes a read-only view of snapshot data
// and returns nil when the input is too short, malformed or would divide by
// zero. Nothing in here panics and nothing mutates its input.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/matbott/spritmonitor-hass/internal/config"
	"github.com/matbott/spritmonitor-hass/internal/domain"
)

// Trend classifications. Consumption is distance-per-quantity (km/L), so a
// rising recent average means the vehicle goes further on the same fuel.
const (
	TrendImproving = "improving"
	TrendWorsening = "worsening"
	TrendStable    = "stable"
)

// trendRatioThreshold is the ±5% band around 1.0 inside which the trend is
// considered stable. The eco-index tiers below use the same orientation.
const trendRatioThreshold = 0.05

// PricePerUnit computes cost/quantity rounded to 3 decimals. Unavailable
// when either side is missing or the quantity is zero. Cost is already in
// base currency units; it is never divided by 100.
func PricePerUnit(cost, quantity *domain.FlexFloat) *float64 {
	if cost == nil || quantity == nil || cost.Value() == 0 || quantity.Value() == 0 {
		return nil
	}
	v := decimal.NewFromFloat(cost.Value()).
		Div(decimal.NewFromFloat(quantity.Value())).
		Round(3).
		InexactFloat64()
	return &v
}

// FormatCost rounds a raw cost to 2 decimals for display.
func FormatCost(cost *domain.FlexFloat) *float64 {
	if cost == nil {
		return nil
	}
	v := decimal.NewFromFloat(cost.Value()).Round(2).InexactFloat64()
	return &v
}

// NextServiceReminder returns the pending reminder with the smallest target
// odometer, or nil when no reminder is pending.
func NextServiceReminder(reminders []domain.Reminder) *domain.Reminder {
	pending := lo.Filter(reminders, func(r domain.Reminder, _ int) bool {
		return r.Completed == 0
	})
	if len(pending) == 0 {
		return nil
	}
	next := lo.MinBy(pending, func(a, b domain.Reminder) bool {
		return reminderOdometer(a) < reminderOdometer(b)
	})
	return &next
}

func reminderOdometer(r domain.Reminder) float64 {
	if r.NextOdometer == nil {
		return math.Inf(1)
	}
	return r.NextOdometer.Value()
}

// NextServiceDate returns the earliest parseable target date among pending
// reminders, or nil when none parses. Records are never annotated with the
// parsed date; repeated calls re-parse and yield identical results.
func NextServiceDate(reminders []domain.Reminder) *time.Time {
	var earliest *time.Time
	for _, r := range reminders {
		if r.Completed != 0 || r.NextDate == "" {
			continue
		}
		t, ok := domain.ParseDate(r.NextDate)
		if !ok {
			continue
		}
		if earliest == nil || t.Before(*earliest) {
			d := t
			earliest = &d
		}
	}
	return earliest
}

// KmToNextService is the distance between the last known odometer reading
// and the nearest pending service target, floored at 0.
func KmToNextService(snap *domain.Snapshot) *float64 {
	if snap == nil {
		return nil
	}
	next := NextServiceReminder(snap.Reminders)
	last := snap.LastFueling()
	if next == nil || next.NextOdometer == nil || last == nil || last.Odometer == nil {
		return nil
	}
	v := math.Max(0, next.NextOdometer.Value()-last.Odometer.Value())
	return &v
}

// consumptionWindow collects the positive consumption values from the n most
// recent fuelings, newest first.
func consumptionWindow(fuelings []domain.Fueling, n int) []float64 {
	if len(fuelings) > n {
		fuelings = fuelings[:n]
	}
	return lo.FilterMap(fuelings, func(f domain.Fueling, _ int) (float64, bool) {
		if f.Consumption != nil && f.Consumption.Value() > 0 {
			return f.Consumption.Value(), true
		}
		return 0, false
	})
}

// ConsumptionTrend classifies the direction of recent consumption. It needs
// at least 3 usable samples in the 5 most recent fuelings and compares the
// average of the newest 2 against the average of the next 2 (or the single
// 3rd when only 3 exist) with a ±5% ratio band.
func ConsumptionTrend(fuelings []domain.Fueling) *string {
	consumptions := consumptionWindow(fuelings, config.StatsWindow)
	if len(consumptions) < 3 {
		return nil
	}

	recentAvg := (consumptions[0] + consumptions[1]) / 2
	olderAvg := consumptions[2]
	if len(consumptions) >= 4 {
		olderAvg = (consumptions[2] + consumptions[3]) / 2
	}
	if olderAvg == 0 {
		s := TrendStable
		return &s
	}

	ratio := recentAvg / olderAvg
	var s string
	switch {
	case ratio > 1+trendRatioThreshold:
		s = TrendImproving
	case ratio < 1-trendRatioThreshold:
		s = TrendWorsening
	default:
		s = TrendStable
	}
	return &s
}

// ConsumptionConsistency is the population standard deviation of consumption
// over the recent window, rounded to 2 decimals. Needs at least 3 samples.
func ConsumptionConsistency(fuelings []domain.Fueling) *float64 {
	consumptions := consumptionWindow(fuelings, config.StatsWindow)
	if len(consumptions) < 3 {
		return nil
	}
	mean := lo.Sum(consumptions) / float64(len(consumptions))
	variance := lo.SumBy(consumptions, func(x float64) float64 {
		return (x - mean) * (x - mean)
	}) / float64(len(consumptions))
	v := round(math.Sqrt(variance), 2)
	return &v
}

// AvgRefuelQuantity averages the positive quantities over the recent window,
// rounded to 1 decimal.
func AvgRefuelQuantity(fuelings []domain.Fueling) *float64 {
	window := fuelings
	if len(window) > config.StatsWindow {
		window = window[:config.StatsWindow]
	}
	quantities := lo.FilterMap(window, func(f domain.Fueling, _ int) (float64, bool) {
		if f.Quantity != nil && f.Quantity.Value() > 0 {
			return f.Quantity.Value(), true
		}
		return 0, false
	})
	if len(quantities) == 0 {
		return nil
	}
	v := round(lo.Sum(quantities)/float64(len(quantities)), 1)
	return &v
}

// AvgDaysBetweenRefuels averages the day gaps between consecutive fuelings
// in the recent window. Gaps of zero or negative days (same-day fill-ups,
// unparseable dates) are skipped.
func AvgDaysBetweenRefuels(fuelings []domain.Fueling) *float64 {
	if len(fuelings) < 2 {
		return nil
	}
	window := fuelings
	if len(window) > config.StatsWindow {
		window = window[:config.StatsWindow]
	}
	dates := lo.FilterMap(window, func(f domain.Fueling, _ int) (time.Time, bool) {
		return domain.ParseDate(f.Date)
	})
	if len(dates) < 2 {
		return nil
	}
	var diffs []float64
	for i := 0; i < len(dates)-1; i++ {
		days := dates[i].Sub(dates[i+1]).Hours() / 24
		if days > 0 {
			diffs = append(diffs, days)
		}
	}
	if len(diffs) == 0 {
		return nil
	}
	v := round(lo.Sum(diffs)/float64(len(diffs)), 1)
	return &v
}

// PriceVariability is the spread (max-min) of the per-unit price over the
// recent window, rounded to 2 decimals. Needs at least 2 priced fuelings.
func PriceVariability(fuelings []domain.Fueling) *float64 {
	window := fuelings
	if len(window) > config.StatsWindow {
		window = window[:config.StatsWindow]
	}
	prices := lo.FilterMap(window, func(f domain.Fueling, _ int) (decimal.Decimal, bool) {
		if f.Cost == nil || f.Quantity == nil || f.Cost.Value() == 0 || f.Quantity.Value() <= 0 {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(f.Cost.Value()).Div(decimal.NewFromFloat(f.Quantity.Value())), true
	})
	if len(prices) < 2 {
		return nil
	}
	minP, maxP := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p.LessThan(minP) {
			minP = p
		}
		if p.GreaterThan(maxP) {
			maxP = p
		}
	}
	v := maxP.Sub(minP).Round(2).InexactFloat64()
	return &v
}

// CostPerDistance is total cost divided by total trip distance over up to 10
// recent fuelings, rounded to 2 decimals. Unavailable when no distance was
// logged.
func CostPerDistance(fuelings []domain.Fueling) *float64 {
	if len(fuelings) < 2 {
		return nil
	}
	window := fuelings
	if len(window) > config.CostPerDistanceWindow {
		window = window[:config.CostPerDistanceWindow]
	}
	totalCost := decimal.Zero
	totalTrip := 0.0
	for _, f := range window {
		if f.Cost == nil || f.Trip == nil || f.Cost.Value() == 0 || f.Trip.Value() <= 0 {
			continue
		}
		totalCost = totalCost.Add(decimal.NewFromFloat(f.Cost.Value()))
		totalTrip += f.Trip.Value()
	}
	if totalTrip == 0 {
		return nil
	}
	v := totalCost.Div(decimal.NewFromFloat(totalTrip)).Round(2).InexactFloat64()
	return &v
}

// EcoDrivingIndex blends how recent consumption compares against the
// vehicle's lifetime average (weight 0.6) with a consistency score (weight
// 0.4) into a 0-10 score. Consumption is distance-per-quantity, so recent
// figures above the lifetime average score higher. The result is clamped to
// the scale.
func EcoDrivingIndex(fuelings []domain.Fueling, vehicleAvgConsumption *domain.FlexFloat) *float64 {
	if len(fuelings) == 0 || vehicleAvgConsumption == nil || vehicleAvgConsumption.Value() == 0 {
		return nil
	}
	recent := consumptionWindow(fuelings, 3)
	if len(recent) == 0 {
		return nil
	}
	recentAvg := lo.Sum(recent) / float64(len(recent))
	vehicleAvg := vehicleAvgConsumption.Value()

	var performanceScore float64
	switch {
	case recentAvg > vehicleAvg*1.1:
		performanceScore = 10
	case recentAvg > vehicleAvg:
		performanceScore = 8
	case recentAvg > vehicleAvg*0.9:
		performanceScore = 6
	default:
		performanceScore = 3
	}

	consistency := 0.0
	if c := ConsumptionConsistency(fuelings); c != nil {
		consistency = *c
	}
	consistencyScore := math.Max(0, 10-consistency*2)

	v := round(performanceScore*0.6+consistencyScore*0.4, 1)
	v = math.Min(10, math.Max(0, v))
	return &v
}

// FuelLevelEstimate assumes the tank (or battery) was filled to whatever the
// last event delivered, capped at capacity. There is no real fuel-gauge
// input, so this is a coarse heuristic.
func FuelLevelEstimate(snap *domain.Snapshot) *float64 {
	if !snap.Valid() {
		return nil
	}
	last := snap.LastFueling()
	if last == nil || last.Quantity == nil {
		return nil
	}
	capacity := snap.Vehicle.Capacity.Value()
	if capacity <= 0 {
		return nil
	}
	v := math.Min(capacity, last.Quantity.Value())
	return &v
}

// RangeEstimate extrapolates the estimated fuel level through the vehicle's
// average consumption. Units whose name carries "100" (L/100km style) divide,
// distance-per-quantity units multiply.
func RangeEstimate(snap *domain.Snapshot, consumptionUnit string) *float64 {
	level := FuelLevelEstimate(snap)
	if level == nil || *level == 0 {
		return nil
	}
	consumption := snap.Vehicle.Consumption.Value()
	if consumption <= 0 {
		return nil
	}
	var v float64
	if strings.Contains(consumptionUnit, "100") {
		v = math.Round(*level / consumption * 100)
	} else {
		v = math.Round(*level * consumption)
	}
	return &v
}

// FullBatteryRangeEstimate is the range from a full charge at the vehicle's
// average consumption, with the same unit handling as RangeEstimate.
func FullBatteryRangeEstimate(snap *domain.Snapshot, consumptionUnit string) *float64 {
	if !snap.Valid() {
		return nil
	}
	capacity := snap.Vehicle.Capacity.Value()
	consumption := snap.Vehicle.Consumption.Value()
	if capacity <= 0 || consumption <= 0 {
		return nil
	}
	var v float64
	if strings.Contains(consumptionUnit, "100") {
		v = math.Round(capacity * 100 / consumption)
	} else {
		v = math.Round(capacity * consumption)
	}
	return &v
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
