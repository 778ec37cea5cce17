package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		name     string
		xp       int
		expected int
	}{
		{"zero", 0, 1},
		{"negative clamps", -50, 1},
		{"below first threshold", 99, 1},
		{"first threshold", 100, 2},
		{"mid tier", 450, 3},
		{"exact square", 400, 3},
		{"high", 2840, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelForXP(tt.xp))
		})
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 0; xp <= 10000; xp += 50 {
		level := LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prev, "level must never decrease as xp grows (xp=%d)", xp)
		assert.GreaterOrEqual(t, level, 1)
		prev = level
	}
}

func TestXPForLevel_InverseOfLevelForXP(t *testing.T) {
	for level := 1; level <= 20; level++ {
		threshold := XPForLevel(level)
		assert.Equal(t, level, LevelForXP(threshold), "threshold xp for level %d", level)
		if threshold > 0 {
			assert.Equal(t, level-1, LevelForXP(threshold-1))
		}
	}
}

func TestInventorySnapshot_DeepCopy(t *testing.T) {
	inv := &Inventory{}
	inv.Slots[5] = &PlacedItem{Item: Item{ID: "kanban", Name: "Kanban Board", Rarity: RarityRare}, Slot: 5}

	snap := inv.Snapshot()
	snap.InventorySlots[5].Name = "mutated"

	assert.Equal(t, "Kanban Board", inv.Slots[5].Name, "snapshot must not alias live grid records")
	assert.Equal(t, 1, inv.Count())
}
