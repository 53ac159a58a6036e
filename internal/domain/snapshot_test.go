package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ff(v float64) *FlexFloat {
	f := FlexFloat(v)
	return &f
}

func TestFlexFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"plain number", `40.5`, 40.5, false},
		{"integer", `42`, 42, false},
		{"quoted number", `"40.50"`, 40.5, false},
		{"quoted integer", `"1234"`, 1234, false},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"garbage string", `"abc"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, float64(f))
		})
	}
}

func TestFlexFloat_Value_nilSafe(t *testing.T) {
	var f *FlexFloat
	assert.Equal(t, 0.0, f.Value())
	assert.Equal(t, 12.5, ff(12.5).Value())
}

func TestFueling_decodeMixedTypes(t *testing.T) {
	raw := `{
		"date": "20.01.2025",
		"odometer": "48200",
		"trip": 512.4,
		"quantity": "40.20",
		"cost": 62.5,
		"currencyid": 1,
		"location": "Oslo"
	}`
	var f Fueling
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	assert.Equal(t, "20.01.2025", f.Date)
	assert.Equal(t, 48200.0, f.Odometer.Value())
	assert.Equal(t, 512.4, f.Trip.Value())
	assert.Equal(t, 40.2, f.Quantity.Value())
	assert.Equal(t, 62.5, f.Cost.Value())
	require.NotNil(t, f.CurrencyID)
	assert.Equal(t, int64(1), *f.CurrencyID)
	assert.Equal(t, "Oslo", f.Location)
}

func TestSnapshot_FuelingAccessors(t *testing.T) {
	var nilSnap *Snapshot
	assert.Nil(t, nilSnap.LastFueling())
	assert.Nil(t, nilSnap.PreviousFueling())
	assert.False(t, nilSnap.Valid())

	empty := &Snapshot{Vehicle: &Vehicle{ID: 1}}
	assert.Nil(t, empty.LastFueling())
	assert.Nil(t, empty.PreviousFueling())
	assert.True(t, empty.Valid())

	snap := &Snapshot{
		Vehicle: &Vehicle{ID: 1},
		Fuelings: []Fueling{
			{Date: "20.01.2025"},
			{Date: "10.01.2025"},
		},
	}
	require.NotNil(t, snap.LastFueling())
	assert.Equal(t, "20.01.2025", snap.LastFueling().Date)
	require.NotNil(t, snap.PreviousFueling())
	assert.Equal(t, "10.01.2025", snap.PreviousFueling().Date)
}

func TestSnapshot_PendingReminders(t *testing.T) {
	snap := &Snapshot{
		Vehicle: &Vehicle{ID: 1},
		Reminders: []Reminder{
			{ID: 1, Completed: 0},
			{ID: 2, Completed: 1},
			{ID: 3, Completed: 0},
		},
	}
	pending := snap.PendingReminders()
	require.Len(t, pending, 2)
	assert.Equal(t, int64(1), pending[0].ID)
	assert.Equal(t, int64(3), pending[1].ID)
}

func TestChanged(t *testing.T) {
	base := func() *Snapshot {
		return &Snapshot{
			Vehicle:   &Vehicle{ID: 1, Make: "Skoda"},
			Fuelings:  []Fueling{{Date: "20.01.2025", Quantity: ff(40)}},
			FetchedAt: time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC),
		}
	}

	a, b := base(), base()
	b.FetchedAt = b.FetchedAt.Add(6 * time.Hour)
	assert.False(t, Changed(a, b), "fetch timestamp alone is not a change")

	c := base()
	c.Fuelings[0].Quantity = ff(41)
	assert.True(t, Changed(a, c))

	assert.False(t, Changed(nil, nil))
	assert.True(t, Changed(nil, a))
	assert.True(t, Changed(a, nil))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"20.01.2025", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), true},
		{"2025-01-20", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"20/01/2025", time.Time{}, false},
		{"soon", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCurrencyAndUnitDisplay(t *testing.T) {
	assert.Equal(t, "EUR", Currency{Name: "Euro", Symbol: "EUR"}.Display())
	assert.Equal(t, "Euro", Currency{Name: "Euro"}.Display())
	assert.Equal(t, "L", QuantityUnit{Name: "Litre", Unit: "L"}.Display())
	assert.Equal(t, "Litre", QuantityUnit{Name: "Litre"}.Display())
}
