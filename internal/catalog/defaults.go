package catalog

import "github.com/villagambera/channelbridge/internal/catalog/domain"

// DefaultCatalog is the Villa Gambera room list used when no rooms file is present.
func DefaultCatalog(propertyID string) domain.Catalog {
	if propertyID == "" {
		propertyID = "151309"
	}
	return domain.Catalog{
		Property: domain.Property{PropertyID: propertyID, Name: "Villa Gambera"},
		Rooms: []domain.Room{
			{Key: "bamboo", RoomID: "335357", Capacity: 2, Type: "Studio", Floor: "I floor",
				Names: map[string]string{"en": "Bamboo Studio", "hr": "Studio Bamboo", "de": "Studio Bamboo"}},
			{Key: "olive", RoomID: "335366", Capacity: 4, Type: "Studio", Floor: "I floor",
				Names: map[string]string{"en": "Olive Studio", "hr": "Studio Olive", "de": "Studio Olive"}},
			{Key: "magnolia", RoomID: "335367", Capacity: 2, Type: "Room", Floor: "I floor",
				Names: map[string]string{"en": "Magnolia Room", "hr": "Soba Magnolia", "de": "Zimmer Magnolia"}},
			{Key: "rosemary", RoomID: "335368", Capacity: 4, Type: "1 Bedroom", Floor: "II floor",
				Names: map[string]string{"en": "Rosemary Apartment", "hr": "Apartman Rosemary", "de": "Apartment Rosemary"}},
			{Key: "oleander", RoomID: "335369", Capacity: 4, Type: "1 Bedroom", Floor: "I floor",
				Names: map[string]string{"en": "Oleander Apartment", "hr": "Apartman Oleander", "de": "Apartment Oleander"}},
			{Key: "lavander", RoomID: "335370", Capacity: 4, Type: "1 Bedroom", Floor: "Ground floor",
				Names: map[string]string{"en": "Lavender Apartment", "hr": "Apartman Lavanda", "de": "Apartment Lavendel"}},
			{Key: "lime", RoomID: "335375", Capacity: 4, Type: "1 Bedroom", Floor: "II floor",
				Names: map[string]string{"en": "Lime Apartment", "hr": "Apartman Lime", "de": "Apartment Lime"}},
		},
	}
}
