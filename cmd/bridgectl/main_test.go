package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	availabilitydomain "github.com/villagambera/channelbridge/internal/availability/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"bridgectl"}, args...))
	return out.String(), err
}

func TestRoomsTable(t *testing.T) {
	out, err := run(t, "rooms", "--locale", "hr")
	require.NoError(t, err)
	assert.Contains(t, out, "Villa Gambera")
	assert.Contains(t, out, "Studio Bamboo")
	assert.Contains(t, out, "335375")
}

func TestRoomsJSON(t *testing.T) {
	out, err := run(t, "rooms", "--json")
	require.NoError(t, err)

	var view struct {
		Locale string `json:"locale"`
		Rooms  []struct {
			Key string `json:"key"`
		} `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "en", view.Locale)
	assert.Len(t, view.Rooms, 7)
}

func TestAvailabilityByRoomKey(t *testing.T) {
	var roomID float64
	pms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		roomID, _ = body["roomId"].(float64)
		_, _ = w.Write([]byte(`{"20240702":{"i":"0","m":"2","o":"2","p1":"95.50"},"20240701":{"i":1,"p1":80}}`))
	}))
	t.Cleanup(pms.Close)

	t.Setenv("BEDS24_API_KEY", "key")
	t.Setenv("BEDS24_PROP_KEY", "prop")
	t.Setenv("BEDS24_BASE_URL", pms.URL)

	out, err := run(t, "availability", "--room", "magnolia", "--month", "2024-07")
	require.NoError(t, err)
	assert.Equal(t, float64(335367), roomID)
	assert.Contains(t, out, "Magnolia Room (room 335367), 2024-07")
	assert.Contains(t, out, "no check-in")
	assert.Contains(t, out, "95.50")
}

func TestAvailabilityWithoutCredentials(t *testing.T) {
	t.Setenv("BEDS24_API_KEY", "")
	t.Setenv("BEDS24_PROP_KEY", "")

	_, err := run(t, "availability", "--room", "335357", "--month", "2024-07")
	assert.Error(t, err)
}

func TestAvailabilityByRoomID(t *testing.T) {
	pms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(pms.Close)

	t.Setenv("BEDS24_API_KEY", "key")
	t.Setenv("BEDS24_PROP_KEY", "prop")
	t.Setenv("BEDS24_BASE_URL", pms.URL)

	out, err := run(t, "availability", "--room", "335375", "--month", "2024-07")
	require.NoError(t, err)
	assert.Contains(t, out, "(room 335375)")
}

func TestAvailabilityUnknownRoom(t *testing.T) {
	t.Setenv("BEDS24_API_KEY", "key")
	t.Setenv("BEDS24_PROP_KEY", "prop")

	_, err := run(t, "availability", "--room", "999", "--month", "2024-07")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown room "999"`)
}

func TestDiagnostics(t *testing.T) {
	t.Setenv("BEDS24_API_KEY", "key")
	t.Setenv("BEDS24_PROP_KEY", "")
	t.Setenv("WEBHOOK_SECRET", "")
	t.Setenv("REDIS_ADDR", "")

	out, err := run(t, "diagnostics")
	require.NoError(t, err)
	assert.Regexp(t, `api key\s+set`, out)
	assert.Regexp(t, `prop key\s+missing`, out)
	assert.Regexp(t, `pms access\s+disabled`, out)
}

func TestRestrictions(t *testing.T) {
	price := decimal.RequireFromString("10")
	assert.Equal(t, "-", restrictions(availabilitydomain.Day{Price: &price}))
	assert.Equal(t, "blackout", restrictions(availabilitydomain.Day{Blackout: true}))
	assert.Equal(t, "no check-in, no check-out", restrictions(availabilitydomain.Day{NoCheckin: true, NoCheckout: true}))
}
