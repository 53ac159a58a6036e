package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexFloat decodes numeric JSON fields that the Spritmonitor API serves
// inconsistently: sometimes as numbers (40.5), sometimes as quoted strings
// ("40.50"). An empty string or null decodes to 0.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// Value returns the dereferenced float, or 0 when the field is absent.
func (f *FlexFloat) Value() float64 {
	if f == nil {
		return 0
	}
	return float64(*f)
}

// RankingInfo is the community consumption ranking attached to a vehicle.
type RankingInfo struct {
	Rank  *FlexFloat `json:"rank,omitempty"`
	Total *FlexFloat `json:"total,omitempty"`
	Min   *FlexFloat `json:"min,omitempty"`
	Avg   *FlexFloat `json:"avg,omitempty"`
}

// Vehicle is one entry of GET /vehicles.json.
type Vehicle struct {
	ID             int64        `json:"id"`
	Make           string       `json:"make"`
	Model          string       `json:"model"`
	Sign           string       `json:"sign"`
	Capacity       *FlexFloat   `json:"capacity,omitempty"`
	TripSum        *FlexFloat   `json:"tripsum,omitempty"`
	QuantitySum    *FlexFloat   `json:"quantitysum,omitempty"`
	Consumption    *FlexFloat   `json:"consumption,omitempty"`
	CurrencyID     *int64       `json:"currencyid,omitempty"`
	QuantityUnitID *int64       `json:"quantityunitid,omitempty"`
	RankingInfo    *RankingInfo `json:"rankingInfo,omitempty"`
}

// Fueling is one refueling or charging event, newest first in the API
// response. Dates come as DD.MM.YYYY.
type Fueling struct {
	ID             int64      `json:"id"`
	Date           string     `json:"date"`
	Odometer       *FlexFloat `json:"odometer,omitempty"`
	Trip           *FlexFloat `json:"trip,omitempty"`
	Quantity       *FlexFloat `json:"quantity,omitempty"`
	Cost           *FlexFloat `json:"cost,omitempty"`
	Consumption    *FlexFloat `json:"consumption,omitempty"`
	CurrencyID     *int64     `json:"currencyid,omitempty"`
	QuantityUnitID *int64     `json:"quantityunitid,omitempty"`
	Location       string     `json:"location,omitempty"`
	Country        string     `json:"country,omitempty"`
	Type           string     `json:"type,omitempty"`
}

// Reminder is one maintenance reminder. The reminders endpoint returns
// reminders for every vehicle of the account; callers filter by VehicleID.
// A reminder is pending while Completed == 0. NextDate is DD.MM.YYYY on
// older deployments and YYYY-MM-DD on newer ones.
type Reminder struct {
	ID           int64      `json:"id"`
	VehicleID    int64      `json:"vehicle"`
	Completed    int        `json:"completed"`
	NextOdometer *FlexFloat `json:"next_odometer,omitempty"`
	NextDate     string     `json:"nextdate,omitempty"`
	Note         string     `json:"note,omitempty"`
}

// Currency is one entry of the GET /currencies.json lookup table.
type Currency struct {
	ID     int64  `json:"id"`
	Name   string `json:"name,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// Display returns the preferred human-readable form of the currency.
func (c Currency) Display() string {
	if c.Symbol != "" {
		return c.Symbol
	}
	return c.Name
}

// QuantityUnit is one entry of the GET /quantityunits.json lookup table.
type QuantityUnit struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Unit string `json:"unit,omitempty"`
}

// Display returns the preferred human-readable form of the unit.
func (q QuantityUnit) Display() string {
	if q.Unit != "" {
		return q.Unit
	}
	return q.Name
}
