package sensors

import (
	"github.com/matbott/spritmonitor-hass/internal/cache"
)

// Provider is the host-facing read surface: per-metric value and unit
// accessors resolved lazily against the latest snapshot. Nothing is cached
// per metric; every call recomputes from the snapshot currently in the
// store.
type Provider struct {
	defs  []Definition
	store *cache.Store
}

// NewProvider binds a catalog to a snapshot store.
func NewProvider(defs []Definition, store *cache.Store) *Provider {
	return &Provider{defs: defs, store: store}
}

// Definitions returns the catalog backing this provider.
func (p *Provider) Definitions() []Definition { return p.defs }

// Value returns the current value of a metric, or nil when the metric is
// unknown or unavailable.
func (p *Provider) Value(metricID string) any {
	def, ok := ByID(p.defs, metricID)
	if !ok {
		return nil
	}
	return def.Value(p.store.Latest())
}

// Unit returns the current unit string of a metric, or "" for unitless or
// unknown metrics.
func (p *Provider) Unit(metricID string) string {
	def, ok := ByID(p.defs, metricID)
	if !ok || def.Unit == nil {
		return ""
	}
	return def.Unit(p.store.Latest())
}

// IsAvailable reports whether the last refresh succeeded and produced a
// valid snapshot.
func (p *Provider) IsAvailable() bool {
	return p.store.Available()
}
