package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(" 335357 ", "2024-2")
	require.NoError(t, err)
	assert.Equal(t, int64(335357), q.RoomID)
	assert.Equal(t, Month{Year: 2024, Month: time.February}, q.Month)
	assert.Equal(t, "335357:2024-02", q.Key())
}

func TestMonthBounds(t *testing.T) {
	m := Month{Year: 2024, Month: time.December}
	assert.Equal(t, "20241201", m.FirstDay().Format(UpstreamDateLayout))
	assert.Equal(t, "20241231", m.LastDay().Format(UpstreamDateLayout))
}

func TestParseOverride(t *testing.T) {
	assert.Equal(t, OverrideNoCheckinCheckout, ParseOverride(4))
	assert.Equal(t, OverrideNone, ParseOverride(5))
	assert.Equal(t, OverrideNone, ParseOverride(-1))
	assert.Equal(t, OverrideFlags{}, ParseOverride(7).Flags())
	assert.Equal(t, "no_checkout", OverrideNoCheckout.String())
}

func TestDayJSON(t *testing.T) {
	price := decimal.RequireFromString("99.90")
	day := NewDay(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 1, 2, OverrideNoCheckout, &price)

	raw, err := json.Marshal(day)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"date": "2024-02-29",
		"available": true,
		"inventory": 1,
		"minStay": 2,
		"noCheckin": false,
		"noCheckout": true,
		"blackout": false,
		"price": 99.9
	}`, string(raw))

	var decoded Day
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.Price)
	assert.True(t, price.Equal(*decoded.Price))

	noPrice, err := json.Marshal(NewDay(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 0, 1, OverrideBlackout, nil))
	require.NoError(t, err)
	assert.Contains(t, string(noPrice), `"price":null`)
	assert.Contains(t, string(noPrice), `"available":false`)
}

func TestCacheEntryFresh(t *testing.T) {
	stored := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	entry := CacheEntry{StoredAt: stored}
	assert.True(t, entry.Fresh(stored.Add(4*time.Minute), 5*time.Minute))
	assert.False(t, entry.Fresh(stored.Add(5*time.Minute), 5*time.Minute))
}
