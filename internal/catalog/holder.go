package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/villagambera/channelbridge/internal/catalog/domain"
	"github.com/villagambera/channelbridge/internal/config"
	"go.uber.org/zap"
)

// Holder serves the current catalog snapshot and swaps it when rooms.yml changes.
type Holder struct {
	current atomic.Pointer[domain.Catalog]
	log     *zap.Logger
}

// NewStaticHolder wraps a fixed catalog.
func NewStaticHolder(c domain.Catalog) *Holder {
	h := &Holder{log: zap.NewNop()}
	h.store(c)
	return h
}

// NewHolder loads rooms.yml when present and falls back to the built-in catalog.
func NewHolder(cfg config.Config, log *zap.Logger) (*Holder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("catalog")

	v := viper.New()
	if cfg.CatalogFile != "" {
		v.SetConfigFile(cfg.CatalogFile)
	} else {
		v.SetConfigName("rooms")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/channelbridge")
		v.AddConfigPath(".")
	}

	holder := &Holder{log: log}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		holder.store(DefaultCatalog(cfg.Beds24.PropertyID))
		log.Info("rooms file not found, using built-in catalog")
		return holder, nil
	}

	loaded, err := decode(v, cfg.Beds24.PropertyID)
	if err != nil {
		return nil, err
	}
	holder.store(loaded)
	log.Info("catalog loaded", zap.String("file", v.ConfigFileUsed()), zap.Int("rooms", len(loaded.Rooms)))

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decode(v, cfg.Beds24.PropertyID)
		if err != nil {
			log.Warn("invalid catalog ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.store(updated)
		log.Info("catalog reloaded", zap.String("file", e.Name), zap.Int("rooms", len(updated.Rooms)))
	})
	v.WatchConfig()

	return holder, nil
}

func decode(v *viper.Viper, fallbackPropertyID string) (domain.Catalog, error) {
	var c domain.Catalog
	if err := v.Unmarshal(&c); err != nil {
		return domain.Catalog{}, err
	}
	if strings.TrimSpace(c.Property.PropertyID) == "" {
		c.Property.PropertyID = fallbackPropertyID
	}
	if err := c.Validate(); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}

func (h *Holder) store(c domain.Catalog) {
	rooms := make([]domain.Room, len(c.Rooms))
	copy(rooms, c.Rooms)
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Key < rooms[j].Key })
	c.Rooms = rooms
	h.current.Store(&c)
}

// Get returns the current snapshot. Callers must not mutate it.
func (h *Holder) Get() domain.Catalog {
	return *h.current.Load()
}

func (h *Holder) Property() domain.Property {
	return h.Get().Property
}

// Rooms returns the rooms sorted by key.
func (h *Holder) Rooms() []domain.Room {
	rooms := h.Get().Rooms
	out := make([]domain.Room, len(rooms))
	copy(out, rooms)
	return out
}

func (h *Holder) RoomByKey(key string) (domain.Room, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, room := range h.Get().Rooms {
		if room.Key == key {
			return room, nil
		}
	}
	return domain.Room{}, domain.ErrRoomNotFound
}

func (h *Holder) RoomByID(roomID string) (domain.Room, error) {
	roomID = strings.TrimSpace(roomID)
	for _, room := range h.Get().Rooms {
		if room.RoomID == roomID {
			return room, nil
		}
	}
	return domain.Room{}, domain.ErrRoomNotFound
}

// Localized renders the catalog for the best locale match of the given preference.
func (h *Holder) Localized(preference string) domain.LocalizedCatalog {
	locale := MatchLocale(preference)
	snapshot := h.Get()

	rooms := make([]domain.LocalizedRoom, 0, len(snapshot.Rooms))
	for _, room := range snapshot.Rooms {
		rooms = append(rooms, domain.LocalizedRoom{
			Key:      room.Key,
			RoomID:   room.RoomID,
			Name:     room.Name(locale),
			Capacity: room.Capacity,
			Type:     room.Type,
			Floor:    room.Floor,
		})
	}
	return domain.LocalizedCatalog{
		Locale:   locale,
		Property: snapshot.Property,
		Rooms:    rooms,
	}
}
