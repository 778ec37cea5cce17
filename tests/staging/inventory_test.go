//go:build staging

package staging

import (
	"encoding/json"
	"net/http"
	"testing"
)

type gridResponse struct {
	Slots      []json.RawMessage `json:"slots"`
	UsedSlots  int               `json:"used_slots"`
	EmptySlots int               `json:"empty_slots"`
}

func TestInventoryGrid(t *testing.T) {
	resp, body := doRequest(t, "GET", "/api/v1/inventory", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var grid gridResponse
	if err := json.Unmarshal(body, &grid); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(grid.Slots) != 48 {
		t.Errorf("Expected 48 slots, got %d", len(grid.Slots))
	}
	if grid.UsedSlots+grid.EmptySlots != 48 {
		t.Errorf("Expected used+empty to equal 48, got %d+%d", grid.UsedSlots, grid.EmptySlots)
	}
}

func TestSwapRoundTrip(t *testing.T) {
	// Reset to the default layout so slot contents are known
	resp, body := doRequest(t, "POST", "/api/v1/inventory/reset", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 on reset, got %d: %s", resp.StatusCode, body)
	}

	resp, body = doRequest(t, "POST", "/api/v1/inventory/swap", map[string]int{
		"from_slot": 0,
		"to_slot":   40,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 on swap, got %d: %s", resp.StatusCode, body)
	}

	resp, body = doRequest(t, "POST", "/api/v1/inventory/swap", map[string]int{
		"from_slot": 40,
		"to_slot":   0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 on swap back, got %d: %s", resp.StatusCode, body)
	}
}

func TestSwapRejectsOutOfRangeSlot(t *testing.T) {
	resp, _ := doRequest(t, "POST", "/api/v1/inventory/swap", map[string]int{
		"from_slot": 0,
		"to_slot":   48,
	})

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for slot 48, got %d", resp.StatusCode)
	}
}
