package sensors

import (
	"time"

	"github.com/matbott/spritmonitor-hass/internal/domain"
)

// Display categories, used by the MQTT discovery layer to pick Home
// Assistant device classes and by dashboards to group metrics.
const (
	CategoryDistance      = "distance"
	CategoryVolume        = "volume"
	CategoryEnergy        = "energy"
	CategoryMonetary      = "monetary"
	CategoryDimensionless = "dimensionless"
)

// Definition describes one metric: identity, display metadata, and two pure
// accessors resolved against an immutable snapshot parameter. Value returns
// nil when the metric is unavailable; it never panics, whatever shape the
// snapshot is in. Unit may be nil for unitless metrics.
type Definition struct {
	ID          string
	Name        string
	Category    string
	DeviceClass string
	StateClass  string
	Icon        string
	Value       func(*domain.Snapshot) any
	Unit        func(*domain.Snapshot) string
}

// vehicleVal lifts an accessor over the vehicle record. A snapshot without a
// vehicle suppresses the metric.
func vehicleVal(fn func(*domain.Vehicle) any) func(*domain.Snapshot) any {
	return func(s *domain.Snapshot) any {
		if !s.Valid() {
			return nil
		}
		return fn(s.Vehicle)
	}
}

// lastFuelingVal lifts an accessor over the most recent fueling. Both the
// vehicle and at least one fueling must be present.
func lastFuelingVal(fn func(*domain.Fueling) any) func(*domain.Snapshot) any {
	return func(s *domain.Snapshot) any {
		if !s.Valid() {
			return nil
		}
		last := s.LastFueling()
		if last == nil {
			return nil
		}
		return fn(last)
	}
}

// rankingVal lifts an accessor over the vehicle's community ranking block.
func rankingVal(fn func(*domain.RankingInfo) any) func(*domain.Snapshot) any {
	return vehicleVal(func(v *domain.Vehicle) any {
		if v.RankingInfo == nil {
			return nil
		}
		return fn(v.RankingInfo)
	})
}

// fuelingsVal lifts a stats function over the fueling history.
func fuelingsVal(fn func([]domain.Fueling) any) func(*domain.Snapshot) any {
	return func(s *domain.Snapshot) any {
		if !s.Valid() {
			return nil
		}
		return fn(s.Fuelings)
	}
}

// snapshotVal guards a whole-snapshot accessor behind the vehicle check.
func snapshotVal(fn func(*domain.Snapshot) any) func(*domain.Snapshot) any {
	return func(s *domain.Snapshot) any {
		if !s.Valid() {
			return nil
		}
		return fn(s)
	}
}

// Deref helpers: a nil pointer means unavailable, anything else is flattened
// to a plain value for the state payload.

func floatOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func flexOrNil(p *domain.FlexFloat) any {
	if p == nil {
		return nil
	}
	return p.Value()
}

func stringOrNil(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func dateOrNil(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.Format("2006-01-02")
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
