package item

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/slotdeck/server/internal/domain"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateID   = errors.New("duplicate item id")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the JSON configuration for the item catalog
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Items     []Def       `json:"items"`
	Placement []Placement `json:"default_placement"`
}

// Def represents a single item definition in the JSON
type Def struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Rarity      string `json:"rarity"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// Placement maps an item to its default grid slot
type Placement struct {
	ItemID string `json:"item_id"`
	Slot   int    `json:"slot"`
}

// Loader handles loading and validating the item catalog
type Loader interface {
	Load(path string) (*Config, error)
	Validate(config *Config) error
}

type catalogLoader struct{}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &catalogLoader{}
}

// Load reads and parses a catalog JSON file
func (l *catalogLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return &config, nil
}

// Validate checks the catalog configuration for errors
func (l *catalogLoader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if len(config.Items) == 0 {
		return fmt.Errorf("%w: no items defined", ErrInvalidConfig)
	}

	ids := make(map[string]bool, len(config.Items))
	for i := range config.Items {
		if err := validateItemDef(i, &config.Items[i], ids); err != nil {
			return err
		}
	}

	placed := make(map[int]bool, len(config.Placement))
	for _, p := range config.Placement {
		if !ids[p.ItemID] {
			return fmt.Errorf("%w: placement references unknown item '%s'", ErrInvalidConfig, p.ItemID)
		}
		if !domain.ValidSlot(p.Slot) {
			return fmt.Errorf("%w: placement slot %d out of range for '%s'", ErrInvalidConfig, p.Slot, p.ItemID)
		}
		if placed[p.Slot] {
			return fmt.Errorf("%w: slot %d assigned twice", ErrInvalidConfig, p.Slot)
		}
		placed[p.Slot] = true
	}

	return nil
}

func validateItemDef(index int, def *Def, ids map[string]bool) error {
	if def.ID == "" {
		return fmt.Errorf("%w: item at index %d has empty id", ErrInvalidConfig, index)
	}
	if ids[def.ID] {
		return fmt.Errorf("%w: '%s'", ErrDuplicateID, def.ID)
	}
	ids[def.ID] = true

	if def.Name == "" {
		return fmt.Errorf("%w: item '%s' has empty name", ErrInvalidConfig, def.ID)
	}
	if !domain.Rarity(def.Rarity).Valid() {
		return fmt.Errorf("%w: item '%s' has unknown rarity '%s'", ErrInvalidConfig, def.ID, def.Rarity)
	}
	if def.Category == "" {
		return fmt.Errorf("%w: item '%s' has empty category", ErrInvalidConfig, def.ID)
	}

	return nil
}
