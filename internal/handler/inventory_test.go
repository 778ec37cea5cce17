package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/inventory"
	"github.com/slotdeck/server/internal/item"
)

func newTestCatalog() *item.Catalog {
	return item.NewCatalog(&item.Config{
		Items: []item.Def{
			{ID: "notes", Name: "Notes", Icon: "notes.png", Rarity: "common", Category: "productivity"},
			{ID: "timer", Name: "Timer", Icon: "timer.png", Rarity: "common", Category: "productivity"},
			{ID: "calendar", Name: "Calendar", Icon: "calendar.png", Rarity: "rare", Category: "planning"},
		},
		Placement: []item.Placement{
			{ItemID: "notes", Slot: 0},
			{ItemID: "timer", Slot: 1},
		},
	})
}

func newInventoryFixture() (inventory.Service, *item.Catalog) {
	catalog := newTestCatalog()
	return inventory.NewService(catalog.DefaultPlacement()), catalog
}

func TestHandleGetInventory(t *testing.T) {
	svc, _ := newInventoryFixture()

	req := httptest.NewRequest("GET", "/inventory", nil)
	w := httptest.NewRecorder()
	HandleGetInventory(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp InventoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.UsedSlots)
	assert.Equal(t, domain.SlotCount-2, resp.EmptySlots)
	require.NotNil(t, resp.Slots[0])
	assert.Equal(t, "notes", resp.Slots[0].ID)
}

func TestHandlePlaceItem(t *testing.T) {
	svc, catalog := newInventoryFixture()

	w := postJSON(t, HandlePlaceItem(svc, catalog), PlaceItemRequest{ItemID: "calendar", Slot: 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	snap := svc.Snapshot()
	require.NotNil(t, snap.InventorySlots[5])
	assert.Equal(t, "calendar", snap.InventorySlots[5].ID)
}

func TestHandlePlaceItem_UnknownItem(t *testing.T) {
	svc, catalog := newInventoryFixture()

	w := postJSON(t, HandlePlaceItem(svc, catalog), PlaceItemRequest{ItemID: "ghost", Slot: 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgItemNotFoundError)
}

func TestHandlePlaceItem_InvalidSlot(t *testing.T) {
	svc, catalog := newInventoryFixture()

	w := postJSON(t, HandlePlaceItem(svc, catalog), PlaceItemRequest{ItemID: "notes", Slot: domain.SlotCount})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgInvalidSlotError)
}

func TestHandleSwap(t *testing.T) {
	svc, _ := newInventoryFixture()

	w := postJSON(t, HandleSwap(svc), SwapRequest{FromSlot: 0, ToSlot: 10})
	require.Equal(t, http.StatusOK, w.Code)

	snap := svc.Snapshot()
	assert.Nil(t, snap.InventorySlots[0])
	require.NotNil(t, snap.InventorySlots[10])
	assert.Equal(t, "notes", snap.InventorySlots[10].ID)
	assert.Equal(t, 10, snap.InventorySlots[10].Slot)
}

func TestHandleRemoveSlot(t *testing.T) {
	svc, _ := newInventoryFixture()

	w := postJSON(t, HandleRemoveSlot(svc), RemoveSlotRequest{Slot: 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.Snapshot().InventorySlots[0])

	// Removing an already-empty slot succeeds
	w = postJSON(t, HandleRemoveSlot(svc), RemoveSlotRequest{Slot: 0})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleResetAndClear(t *testing.T) {
	svc, _ := newInventoryFixture()

	w := postJSON(t, HandleClearInventory(svc), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.Count())

	w = postJSON(t, HandleResetInventory(svc), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, svc.Count())
}

func TestHandleDragLifecycle(t *testing.T) {
	svc, _ := newInventoryFixture()

	w := postJSON(t, HandleDragStart(svc), DragStartRequest{FromSlot: 0})
	require.Equal(t, http.StatusOK, w.Code)

	var drag inventory.DragState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &drag))
	assert.True(t, drag.Dragging)
	assert.Equal(t, 0, drag.FromSlot)

	w = postJSON(t, HandleDragOver(svc), DragOverRequest{Slot: 7})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, HandleDrop(svc), DropRequest{ToSlot: 7})
	require.Equal(t, http.StatusOK, w.Code)

	snap := svc.Snapshot()
	require.NotNil(t, snap.InventorySlots[7])
	assert.Equal(t, "notes", snap.InventorySlots[7].ID)
	assert.False(t, svc.DragState().Dragging)
}

func TestHandleDragStart_Conflicts(t *testing.T) {
	svc, _ := newInventoryFixture()

	w := postJSON(t, HandleDragStart(svc), DragStartRequest{FromSlot: 0})
	require.Equal(t, http.StatusOK, w.Code)

	// Second drag while one is active
	w = postJSON(t, HandleDragStart(svc), DragStartRequest{FromSlot: 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgDragActiveError)

	w = postJSON(t, HandleDragCancel(svc), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.DragState().Dragging)
}

func TestHandleDrop_NoDrag(t *testing.T) {
	svc, _ := newInventoryFixture()

	w := postJSON(t, HandleDrop(svc), DropRequest{ToSlot: 3})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgNoDragError)
}

func TestHandleGetItems(t *testing.T) {
	_, catalog := newInventoryFixture()

	req := httptest.NewRequest("GET", "/items", nil)
	w := httptest.NewRecorder()
	HandleGetItems(catalog).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"calendar"`)
}
