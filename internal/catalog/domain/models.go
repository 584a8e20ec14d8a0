package domain

import (
	"errors"
	"strconv"
	"strings"
)

// Locales the website is published in. The first entry is the fallback.
var SupportedLocales = []string{"en", "hr", "de"}

const DefaultLocale = "en"

var (
	ErrRoomNotFound  = errors.New("room_not_found")
	ErrEmptyCatalog  = errors.New("catalog has no rooms")
	ErrInvalidRoom   = errors.New("invalid room definition")
	ErrDuplicateRoom = errors.New("duplicate room id")
)

// Property identifies the single property this site sells.
type Property struct {
	PropertyID string `json:"propertyId" mapstructure:"propertyId"`
	Name       string `json:"name" mapstructure:"name"`
}

// Room is one bookable unit as configured for the website.
type Room struct {
	Key      string            `json:"key" mapstructure:"key"`
	RoomID   string            `json:"roomId" mapstructure:"roomId"`
	Capacity int               `json:"capacity" mapstructure:"capacity"`
	Type     string            `json:"type" mapstructure:"type"`
	Floor    string            `json:"floor" mapstructure:"floor"`
	Names    map[string]string `json:"name" mapstructure:"name"`
}

// Name returns the display name for locale, falling back to the default locale.
func (r Room) Name(locale string) string {
	if name := strings.TrimSpace(r.Names[locale]); name != "" {
		return name
	}
	if name := strings.TrimSpace(r.Names[DefaultLocale]); name != "" {
		return name
	}
	return r.Key
}

// Catalog is an immutable snapshot of the property and its rooms.
type Catalog struct {
	Property Property `json:"property" mapstructure:"property"`
	Rooms    []Room   `json:"rooms" mapstructure:"rooms"`
}

// Validate checks the snapshot is usable before it is published.
func (c Catalog) Validate() error {
	if len(c.Rooms) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(c.Rooms))
	for _, room := range c.Rooms {
		if strings.TrimSpace(room.Key) == "" || room.Capacity <= 0 {
			return ErrInvalidRoom
		}
		id, err := strconv.ParseInt(strings.TrimSpace(room.RoomID), 10, 64)
		if err != nil || id <= 0 {
			return ErrInvalidRoom
		}
		if _, dup := seen[room.RoomID]; dup {
			return ErrDuplicateRoom
		}
		seen[room.RoomID] = struct{}{}
	}
	return nil
}

// LocalizedRoom is the public view of a room in one locale.
type LocalizedRoom struct {
	Key      string `json:"key"`
	RoomID   string `json:"roomId"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
	Floor    string `json:"floor"`
}

// LocalizedCatalog is the public view of the catalog in one locale.
type LocalizedCatalog struct {
	Locale   string          `json:"locale"`
	Property Property        `json:"property"`
	Rooms    []LocalizedRoom `json:"rooms"`
}
