package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matbott/spritmonitor-hass/internal/config"
	"github.com/matbott/spritmonitor-hass/internal/domain"
	"github.com/matbott/spritmonitor-hass/internal/netutil"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Client handles communication with the Spritmonitor v1 REST API. Every call
// carries the Application-Id and bearer Authorization headers; the API never
// receives writes from this bridge.
type Client struct {
	baseURL    string
	appID      string
	bearer     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a Spritmonitor API client.
func NewClient(baseURL, appID, bearerToken string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      appID,
		bearer:     normalizeBearer(bearerToken),
		httpClient: netutil.NewHTTPClient(config.DataTimeout, logger),
		logger:     logger,
	}
}

// normalizeBearer accepts tokens with or without the "Bearer " prefix, since
// deployments have historically pasted both forms into the config.
func normalizeBearer(token string) string {
	if token == "" || strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

// Vehicles fetches the account's vehicle list.
func (c *Client) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	if err := c.getJSON(ctx, c.baseURL+"/vehicles.json", config.DataTimeout, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Fuelings fetches the most recent fueling events for a vehicle, newest
// first. An empty history is not an error.
func (c *Client) Fuelings(ctx context.Context, vehicleID int64, limit int) ([]domain.Fueling, error) {
	url := fmt.Sprintf("%s/vehicle/%d/fuelings.json?limit=%d", c.baseURL, vehicleID, limit)
	var fuelings []domain.Fueling
	if err := c.getJSON(ctx, url, config.DataTimeout, &fuelings); err != nil {
		return nil, err
	}
	return fuelings, nil
}

// Reminders fetches all reminders of the account and keeps only those for
// the given vehicle. The endpoint has no server-side vehicle filter.
func (c *Client) Reminders(ctx context.Context, vehicleID int64) ([]domain.Reminder, error) {
	var all []domain.Reminder
	if err := c.getJSON(ctx, c.baseURL+"/reminders.json", config.DataTimeout, &all); err != nil {
		return nil, err
	}
	var mine []domain.Reminder
	for _, r := range all {
		if r.VehicleID == vehicleID {
			mine = append(mine, r)
		}
	}
	return mine, nil
}

// Currencies fetches the currency id lookup table.
func (c *Client) Currencies(ctx context.Context) (map[int64]domain.Currency, error) {
	var list []domain.Currency
	if err := c.getJSON(ctx, c.baseURL+"/currencies.json", config.DataTimeout, &list); err != nil {
		return nil, err
	}
	table := make(map[int64]domain.Currency, len(list))
	for _, cur := range list {
		table[cur.ID] = cur
	}
	return table, nil
}

// QuantityUnits fetches the quantity-unit id lookup table.
func (c *Client) QuantityUnits(ctx context.Context) (map[int64]domain.QuantityUnit, error) {
	var list []domain.QuantityUnit
	if err := c.getJSON(ctx, c.baseURL+"/quantityunits.json", config.DataTimeout, &list); err != nil {
		return nil, err
	}
	table := make(map[int64]domain.QuantityUnit, len(list))
	for _, qu := range list {
		table[qu.ID] = qu
	}
	return table, nil
}

// Probe validates the configured credentials and vehicle id with a single
// lightweight vehicle-list call on a short timeout.
func (c *Client) Probe(ctx context.Context, vehicleID int64) error {
	ctx, cancel := context.WithTimeout(ctx, config.ProbeTimeout)
	defer cancel()

	vehicles, err := c.Vehicles(ctx)
	if err != nil {
		return err
	}
	for _, v := range vehicles {
		if v.ID == vehicleID {
			return nil
		}
	}
	return &Error{
		Kind:   FailureVehicleNotFound,
		Detail: fmt.Sprintf("vehicle %d not in account vehicle list", vehicleID),
	}
}

// Fetch performs one full refresh and assembles an immutable snapshot.
//
// The vehicle list and the fueling history are fatal: if either fails the
// whole refresh fails with a classified Error. Reminders and the
// currency/unit lookup tables are best-effort: their failure is logged and
// the snapshot simply carries nil for them. The non-fatal calls run in their
// own goroutines but deliberately return nil to the errgroup so they can
// never cancel the fatal ones.
func (c *Client) Fetch(ctx context.Context, vehicleID int64) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{FetchedAt: time.Now()}

	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		vehicles, err := c.Vehicles(ctx)
		if err != nil {
			return err
		}
		for i := range vehicles {
			if vehicles[i].ID == vehicleID {
				snap.Vehicle = &vehicles[i]
				return nil
			}
		}
		return &Error{
			Kind:   FailureVehicleNotFound,
			Detail: fmt.Sprintf("vehicle %d not in account vehicle list", vehicleID),
		}
	})

	grp.Go(func() error {
		fuelings, err := c.Fuelings(ctx, vehicleID, config.FuelingsLimit)
		if err != nil {
			return err
		}
		snap.Fuelings = fuelings
		return nil
	})

	grp.Go(func() error {
		reminders, err := c.Reminders(ctx, vehicleID)
		if err != nil {
			c.logger.WithError(err).Debug("Could not fetch reminders, continuing without")
			return nil
		}
		snap.Reminders = reminders
		return nil
	})

	grp.Go(func() error {
		currencies, err := c.Currencies(ctx)
		if err != nil {
			c.logger.WithError(err).Debug("Could not fetch currency table, continuing without")
			return nil
		}
		snap.Currencies = currencies
		return nil
	})

	grp.Go(func() error {
		units, err := c.QuantityUnits(ctx)
		if err != nil {
			c.logger.WithError(err).Debug("Could not fetch quantity-unit table, continuing without")
			return nil
		}
		snap.QuantityUnits = units
		return nil
	})

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"vehicle_id": vehicleID,
		"fuelings":   len(snap.Fuelings),
		"reminders":  len(snap.Reminders),
	}).Debug("Assembled snapshot")

	return snap, nil
}

// getJSON performs an authenticated GET with a bounded timeout and decodes
// the response body into out.
func (c *Client) getJSON(ctx context.Context, url string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Kind: FailureUnknown, Detail: "building request", Err: err}
	}
	req.Header.Set("Application-Id", c.appID)
	req.Header.Set("Authorization", c.bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(fmt.Sprintf("GET %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Kind:   FailureAPI,
			Detail: fmt.Sprintf("GET %s returned status %d", url, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport("reading response body", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: FailureUnknown, Detail: "decoding response body", Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"url":           url,
		"status_code":   resp.StatusCode,
		"response_size": len(body),
	}).Debug("Received API response")

	return nil
}
