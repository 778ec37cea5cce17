package item

import (
	"fmt"

	"github.com/slotdeck/server/internal/domain"
)

// Catalog is the read-only registry of placeable items plus the default
// grid arrangement used for reset and first-run hydration.
type Catalog struct {
	byID      map[string]domain.Item
	order     []string
	placement []Placement
}

// NewCatalog builds a Catalog from a validated config.
func NewCatalog(config *Config) *Catalog {
	c := &Catalog{
		byID:      make(map[string]domain.Item, len(config.Items)),
		placement: config.Placement,
	}
	for _, def := range config.Items {
		c.byID[def.ID] = domain.Item{
			ID:          def.ID,
			Name:        def.Name,
			Icon:        def.Icon,
			Rarity:      domain.Rarity(def.Rarity),
			Category:    def.Category,
			Description: def.Description,
		}
		c.order = append(c.order, def.ID)
	}
	return c
}

// LoadCatalog loads, validates and builds the catalog in one step.
func LoadCatalog(path string) (*Catalog, error) {
	loader := NewLoader()

	config, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	if err := loader.Validate(config); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	return NewCatalog(config), nil
}

// Get returns the item with the given id.
func (c *Catalog) Get(id string) (domain.Item, error) {
	it, ok := c.byID[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return it, nil
}

// All returns every catalogued item in definition order.
func (c *Catalog) All() []domain.Item {
	items := make([]domain.Item, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.byID[id])
	}
	return items
}

// Len returns the number of catalogued items.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// DefaultPlacement returns the initial grid arrangement.
func (c *Catalog) DefaultPlacement() domain.Inventory {
	var inv domain.Inventory
	for _, p := range c.placement {
		it := c.byID[p.ItemID]
		inv.Slots[p.Slot] = &domain.PlacedItem{Item: it, Slot: p.Slot}
	}
	return inv
}
