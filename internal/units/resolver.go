// Package units resolves the opaque currency and quantity-unit ids found in
// fueling records against the lookup tables the API ships alongside them.
//
// Deployments disagree about where these ids live: some return them on every
// fueling, some only on the vehicle, some not at all. The resolution order
// is therefore an explicit, first-class cascade instead of ad hoc chained
// fallbacks:
//
//	record-level id -> vehicle-level id -> first table entry -> configured fallback
//
// A candidate id only wins when the lookup table actually contains it.
package units

import (
	"github.com/samber/lo"

	"github.com/matbott/spritmonitor-hass/internal/config"
	"github.com/matbott/spritmonitor-hass/internal/domain"
)

// Preferences carries the configured display fallbacks used when the API
// exposes no lookup tables at all.
type Preferences struct {
	Currency        string
	QuantityUnit    string
	TripUnit        string
	ConsumptionUnit string
}

// PreferencesFromConfig copies the display preferences out of the bridge
// configuration.
func PreferencesFromConfig(cfg *config.Config) Preferences {
	return Preferences{
		Currency:        cfg.Currency,
		QuantityUnit:    cfg.QuantityUnit,
		TripUnit:        cfg.TripUnit,
		ConsumptionUnit: cfg.ConsumptionUnit,
	}
}

// idCandidate extracts one possible id for a field. Candidates are tried in
// slice order; the first whose id is present in the lookup table wins.
type idCandidate func(snap *domain.Snapshot, f *domain.Fueling) (int64, bool)

var currencyCandidates = []idCandidate{
	func(_ *domain.Snapshot, f *domain.Fueling) (int64, bool) {
		if f == nil || f.CurrencyID == nil {
			return 0, false
		}
		return *f.CurrencyID, true
	},
	func(snap *domain.Snapshot, _ *domain.Fueling) (int64, bool) {
		if snap == nil || snap.Vehicle == nil || snap.Vehicle.CurrencyID == nil {
			return 0, false
		}
		return *snap.Vehicle.CurrencyID, true
	},
}

var quantityUnitCandidates = []idCandidate{
	func(_ *domain.Snapshot, f *domain.Fueling) (int64, bool) {
		if f == nil || f.QuantityUnitID == nil {
			return 0, false
		}
		return *f.QuantityUnitID, true
	},
	func(snap *domain.Snapshot, _ *domain.Fueling) (int64, bool) {
		if snap == nil || snap.Vehicle == nil || snap.Vehicle.QuantityUnitID == nil {
			return 0, false
		}
		return *snap.Vehicle.QuantityUnitID, true
	},
}

// ResolveCurrency returns the display symbol for the currency of a fueling.
func ResolveCurrency(snap *domain.Snapshot, f *domain.Fueling, prefs Preferences) string {
	var table map[int64]domain.Currency
	if snap != nil {
		table = snap.Currencies
	}
	for _, candidate := range currencyCandidates {
		if id, ok := candidate(snap, f); ok {
			if cur, found := table[id]; found && cur.Display() != "" {
				return cur.Display()
			}
		}
	}
	if len(table) > 0 {
		first := table[lo.Min(lo.Keys(table))]
		if first.Display() != "" {
			return first.Display()
		}
	}
	if prefs.Currency != "" {
		return prefs.Currency
	}
	return config.DefaultCurrency
}

// ResolveQuantityUnit returns the display symbol for the quantity unit of a
// fueling, falling back to "L".
func ResolveQuantityUnit(snap *domain.Snapshot, f *domain.Fueling, prefs Preferences) string {
	var table map[int64]domain.QuantityUnit
	if snap != nil {
		table = snap.QuantityUnits
	}
	for _, candidate := range quantityUnitCandidates {
		if id, ok := candidate(snap, f); ok {
			if qu, found := table[id]; found && qu.Display() != "" {
				return qu.Display()
			}
		}
	}
	if len(table) > 0 {
		first := table[lo.Min(lo.Keys(table))]
		if first.Display() != "" {
			return first.Display()
		}
	}
	if prefs.QuantityUnit != "" {
		return prefs.QuantityUnit
	}
	return config.DefaultQuantityUnit
}
