package domain

import "time"

// Item represents a catalogued tool that can be placed on the dashboard grid.
// Catalog entries are immutable; placement state lives on PlacedItem.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Rarity      Rarity `json:"rarity"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// Rarity represents the visual rarity tier of an item
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Valid reports whether the rarity is one of the known tiers
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// PlacedItem is an Item occupying a grid slot. Slot always equals the
// index of the array position holding the record.
type PlacedItem struct {
	Item
	Slot      int        `json:"slot"`
	IsActive  bool       `json:"is_active,omitempty"`
	DateAdded *time.Time `json:"date_added,omitempty"`
}
