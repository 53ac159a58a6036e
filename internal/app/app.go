package app

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/matbott/spritmonitor-hass/internal/api"
	"github.com/matbott/spritmonitor-hass/internal/bus"
	"github.com/matbott/spritmonitor-hass/internal/cache"
	"github.com/matbott/spritmonitor-hass/internal/config"
	"github.com/matbott/spritmonitor-hass/internal/domain"
	"github.com/matbott/spritmonitor-hass/internal/transmission"
)

// App owns one vehicle's refresh loop: API client, latest-snapshot store and
// host transmitter. It is the explicit handle the host keeps from setup to
// teardown; there is no process-wide registry.
type App struct {
	cfg    *config.Config
	client *api.Client
	store  *cache.Store
	tx     transmission.Transmitter
	logger *logrus.Logger

	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New wires an App. tx may be nil, in which case snapshots are only stored
// and logged.
func New(cfg *config.Config, client *api.Client, store *cache.Store, tx transmission.Transmitter, logger *logrus.Logger) *App {
	return &App{cfg: cfg, client: client, store: store, tx: tx, logger: logger}
}

// Run blocks until ctx is cancelled or Close is called. One refresh runs to
// completion before the next is scheduled; there is no overlapping refresh
// and no internal retry beyond the next scheduled tick.
func (a *App) Run(parentCtx context.Context) error {
	ctx, cancel := context.WithCancel(parentCtx)
	a.cancel = cancel
	defer cancel()

	messageBus := bus.New()
	sub := messageBus.Subscribe()
	grp, ctx := errgroup.WithContext(ctx)

	// Collector: immediate first refresh, then one per interval.
	grp.Go(func() error {
		a.refresh(ctx, messageBus)

		ticker := time.NewTicker(a.cfg.UpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				a.refresh(ctx, messageBus)
			}
		}
	})

	// Transmit scheduler: forward snapshots to the host, skipping
	// republication of identical data unless the force interval elapsed.
	grp.Go(func() error {
		var lastSent *domain.Snapshot
		var lastSentAt time.Time
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case snap, ok := <-sub:
				if !ok {
					return nil
				}
				if a.tx == nil {
					continue
				}
				force := a.cfg.ForceUpdateInterval > 0 && time.Since(lastSentAt) >= a.cfg.ForceUpdateInterval
				if !force && !domain.Changed(lastSent, snap) {
					a.logger.Debug("Snapshot unchanged, skipping transmit")
					continue
				}
				if err := a.tx.Transmit(snap); err != nil {
					a.logger.WithError(err).Warn("Transmit failed")
					// Retry on the next snapshot even if nothing changed.
					lastSent = nil
					continue
				}
				lastSent = snap
				lastSentAt = time.Now()
			}
		}
	})

	err := grp.Wait()
	if err != nil && err != context.Canceled {
		a.logger.WithError(err).Warn("app: background group exited")
		return err
	}
	return nil
}

// refresh performs one fetch cycle and records its outcome. Fatal failures
// mark the metrics unavailable; the next tick is the only retry.
func (a *App) refresh(ctx context.Context, messageBus *bus.Bus) {
	snap, err := a.client.Fetch(ctx, a.cfg.VehicleID)
	a.store.Update(snap, err)
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"kind": api.KindOf(err),
		}).WithError(err).Warn("Refresh failed")
		if a.tx != nil {
			if availTx, ok := a.tx.(interface{ PublishAvailability(bool) error }); ok {
				if pubErr := availTx.PublishAvailability(false); pubErr != nil {
					a.logger.WithError(pubErr).Debug("Could not publish offline availability")
				}
			}
		}
		return
	}

	a.logger.WithFields(logrus.Fields{
		"vehicle_id": a.cfg.VehicleID,
		"fuelings":   len(snap.Fuelings),
		"reminders":  len(snap.Reminders),
	}).Info("Refresh complete")

	messageBus.Publish(snap)
}

// Close releases the refresh loop. It is safe to call any number of times,
// before or after Run returns.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
	})
}
