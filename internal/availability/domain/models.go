package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// UpstreamDateLayout is the PMS date key format.
	UpstreamDateLayout = "20060102"
	// DateLayout is the public ISO date format.
	DateLayout = "2006-01-02"
)

var monthPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth accepts "YYYY-MM" (a single-digit month is tolerated).
func ParseMonth(value string) (Month, error) {
	match := monthPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return Month{}, ErrInvalidMonth
	}
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	if year < 1 || month < 1 || month > 12 {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// FirstDay returns the first day of the month at UTC midnight.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns the last day of the month at UTC midnight.
func (m Month) LastDay() time.Time {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC)
}

// Query identifies one room's month.
type Query struct {
	RoomID int64
	Month  Month
}

// ParseQuery validates raw roomId and month parameters.
func ParseQuery(roomID, month string) (Query, error) {
	roomID = strings.TrimSpace(roomID)
	month = strings.TrimSpace(month)
	if roomID == "" || month == "" {
		return Query{}, ErrMissingParameters
	}
	id, err := strconv.ParseInt(roomID, 10, 64)
	if err != nil || id <= 0 {
		return Query{}, ErrInvalidRoomID
	}
	m, err := ParseMonth(month)
	if err != nil {
		return Query{}, err
	}
	return Query{RoomID: id, Month: m}, nil
}

// Key is the cache key "<roomId>:<YYYY-MM>".
func (q Query) Key() string {
	return strconv.FormatInt(q.RoomID, 10) + ":" + q.Month.String()
}

// Override is the PMS per-day restriction code.
type Override int

const (
	OverrideNone Override = iota
	OverrideBlackout
	OverrideNoCheckin
	OverrideNoCheckout
	OverrideNoCheckinCheckout
)

// OverrideFlags are the restrictions an override imposes.
type OverrideFlags struct {
	Blackout   bool
	NoCheckin  bool
	NoCheckout bool
}

var overrideFlags = map[Override]OverrideFlags{
	OverrideNone:              {},
	OverrideBlackout:          {Blackout: true},
	OverrideNoCheckin:         {NoCheckin: true},
	OverrideNoCheckout:        {NoCheckout: true},
	OverrideNoCheckinCheckout: {NoCheckin: true, NoCheckout: true},
}

// ParseOverride maps a raw code to an Override. Unknown codes carry no restriction.
func ParseOverride(code int) Override {
	o := Override(code)
	if _, ok := overrideFlags[o]; !ok {
		return OverrideNone
	}
	return o
}

func (o Override) Flags() OverrideFlags {
	return overrideFlags[o]
}

func (o Override) String() string {
	switch o {
	case OverrideBlackout:
		return "blackout"
	case OverrideNoCheckin:
		return "no_checkin"
	case OverrideNoCheckout:
		return "no_checkout"
	case OverrideNoCheckinCheckout:
		return "no_checkin_checkout"
	default:
		return "none"
	}
}

// Day is one normalized calendar day.
type Day struct {
	Date       string           `json:"date"`
	Available  bool             `json:"available"`
	Inventory  int              `json:"inventory"`
	MinStay    int              `json:"minStay"`
	NoCheckin  bool             `json:"noCheckin"`
	NoCheckout bool             `json:"noCheckout"`
	Blackout   bool             `json:"blackout"`
	Price      *decimal.Decimal `json:"price"`
}

// NewDay derives the public flags from the raw values.
func NewDay(date time.Time, inventory, minStay int, override Override, price *decimal.Decimal) Day {
	flags := override.Flags()
	return Day{
		Date:       date.Format(DateLayout),
		Available:  inventory > 0 && !flags.Blackout,
		Inventory:  inventory,
		MinStay:    minStay,
		NoCheckin:  flags.NoCheckin,
		NoCheckout: flags.NoCheckout,
		Blackout:   flags.Blackout,
		Price:      price,
	}
}

// MarshalJSON writes the price as a bare JSON number.
func (d Day) MarshalJSON() ([]byte, error) {
	type alias Day
	price := json.RawMessage("null")
	if d.Price != nil {
		price = json.RawMessage(d.Price.String())
	}
	return json.Marshal(struct {
		alias
		Price json.RawMessage `json:"price"`
	}{alias: alias(d), Price: price})
}

// MonthResult is the availability of one room for one month.
type MonthResult struct {
	RoomID int64  `json:"roomId"`
	Month  string `json:"month"`
	Days   []Day  `json:"days"`
}

// Clone returns a copy whose day slice can be mutated freely.
func (r MonthResult) Clone() MonthResult {
	out := r
	out.Days = append([]Day(nil), r.Days...)
	return out
}
