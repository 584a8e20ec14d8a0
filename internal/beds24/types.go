package beds24

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Authentication is sent with every JSON API call.
type Authentication struct {
	APIKey  string `json:"apiKey"`
	PropKey string `json:"propKey"`
}

// RoomDatesRequest asks for an inclusive YYYYMMDD range of one room.
type RoomDatesRequest struct {
	RoomID int64
	From   string
	To     string
}

type roomDatesPayload struct {
	Authentication         Authentication `json:"authentication"`
	RoomID                 int64          `json:"roomId"`
	From                   string         `json:"from"`
	To                     string         `json:"to"`
	IncOverride            int            `json:"incOverride"`
	IncMaxStay             int            `json:"incMaxStay"`
	AllowInventoryNegative int            `json:"allowInventoryNegative"`
}

// ErrNotInteger rejects fractional counts and codes.
var ErrNotInteger = errors.New("not an integer")

// RawDay is one upstream day record. Nil fields were absent or null.
type RawDay struct {
	Inventory *int
	MinStay   *int
	Override  *int
	Price     *decimal.Decimal
}

// UnmarshalJSON accepts numbers or numeric strings for every field, since the
// JSON API is not consistent about quoting.
func (d *RawDay) UnmarshalJSON(data []byte) error {
	var raw struct {
		I  json.RawMessage `json:"i"`
		M  json.RawMessage `json:"m"`
		O  json.RawMessage `json:"o"`
		P1 json.RawMessage `json:"p1"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	if d.Inventory, err = optionalInt(raw.I); err != nil {
		return fmt.Errorf("i: %w", err)
	}
	if d.MinStay, err = optionalInt(raw.M); err != nil {
		return fmt.Errorf("m: %w", err)
	}
	if d.Override, err = optionalInt(raw.O); err != nil {
		return fmt.Errorf("o: %w", err)
	}
	if d.Price, err = optionalDecimal(raw.P1); err != nil {
		return fmt.Errorf("p1: %w", err)
	}
	return nil
}

func scalarText(raw json.RawMessage) (string, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, err
		}
		s = strings.TrimSpace(s)
		return s, s != "", nil
	}
	return string(raw), true, nil
}

func optionalInt(raw json.RawMessage) (*int, error) {
	text, ok, err := scalarText(raw)
	if err != nil || !ok {
		return nil, err
	}
	if n, err := strconv.Atoi(text); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %s", ErrNotInteger, text)
	}
	n := int(f)
	return &n, nil
}

func optionalDecimal(raw json.RawMessage) (*decimal.Decimal, error) {
	text, ok, err := scalarText(raw)
	if err != nil || !ok {
		return nil, err
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// BookingPayload is the setBooking request body.
type BookingPayload struct {
	Authentication    Authentication `json:"authentication"`
	CheckAvailability bool           `json:"checkAvailability"`
	AssignBooking     bool           `json:"assignBooking"`

	RoomID     string `json:"roomId"`
	RoomQty    string `json:"roomQty"`
	Status     string `json:"status"`
	FirstNight string `json:"firstNight"`
	LastNight  string `json:"lastNight"`
	NumAdult   string `json:"numAdult"`
	NumChild   string `json:"numChild"`

	GuestTitle       string `json:"guestTitle"`
	GuestFirstName   string `json:"guestFirstName"`
	GuestName        string `json:"guestName"`
	GuestEmail       string `json:"guestEmail"`
	GuestPhone       string `json:"guestPhone"`
	GuestMobile      string `json:"guestMobile"`
	GuestAddress     string `json:"guestAddress"`
	GuestCity        string `json:"guestCity"`
	GuestPostcode    string `json:"guestPostcode"`
	GuestCountry     string `json:"guestCountry"`
	GuestArrivalTime string `json:"guestArrivalTime"`
	GuestComments    string `json:"guestComments"`
}
