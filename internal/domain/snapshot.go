package domain

import (
	"reflect"
	"time"
)

// Snapshot is one immutable point-in-time capture of everything the bridge
// knows about a vehicle. A refresh builds a fresh Snapshot and swaps it in
// wholesale; nothing is merged and nothing mutates a Snapshot after
// construction, so readers never need locks.
type Snapshot struct {
	Vehicle       *Vehicle               `json:"vehicle"`
	Fuelings      []Fueling              `json:"fuelings"`
	Reminders     []Reminder             `json:"reminders,omitempty"`
	Currencies    map[int64]Currency     `json:"currencies,omitempty"`
	QuantityUnits map[int64]QuantityUnit `json:"quantity_units,omitempty"`
	FetchedAt     time.Time              `json:"fetched_at"`
}

// LastFueling returns the most recent fueling, or nil when the history is
// empty. Fuelings are ordered newest first.
func (s *Snapshot) LastFueling() *Fueling {
	if s == nil || len(s.Fuelings) == 0 {
		return nil
	}
	return &s.Fuelings[0]
}

// PreviousFueling returns the fueling before the most recent one, or nil.
func (s *Snapshot) PreviousFueling() *Fueling {
	if s == nil || len(s.Fuelings) < 2 {
		return nil
	}
	return &s.Fuelings[1]
}

// PendingReminders returns the reminders not yet marked completed.
func (s *Snapshot) PendingReminders() []Reminder {
	if s == nil {
		return nil
	}
	var pending []Reminder
	for _, r := range s.Reminders {
		if r.Completed == 0 {
			pending = append(pending, r)
		}
	}
	return pending
}

// Valid reports whether the snapshot carries vehicle data. An invalid
// snapshot suppresses every dependent metric instead of crashing readers.
func (s *Snapshot) Valid() bool {
	return s != nil && s.Vehicle != nil
}

// Changed returns true if cur differs from prev beyond the fetch timestamp.
// The transmit scheduler uses it to skip republishing identical state.
func Changed(prev, cur *Snapshot) bool {
	if prev == nil && cur == nil {
		return false
	}
	if prev == nil || cur == nil {
		return true
	}

	p, c := *prev, *cur // copy
	p.FetchedAt = time.Time{}
	c.FetchedAt = time.Time{}

	return !reflect.DeepEqual(p, c)
}
