package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotdeck/server/internal/features"
)

func TestHandleGetInfo(t *testing.T) {
	configDir := "../../configs/info"
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Fatalf("Config directory not found at %s. Ensure you are running tests from project root or correct relative path.", configDir)
	}

	loader := features.NewLoader(configDir)
	handler := HandleGetInfo(loader)

	t.Run("specific feature", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/info?feature=inventory", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp InfoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "inventory", resp.Feature)
		assert.NotEmpty(t, resp.Description)
		assert.NotEmpty(t, resp.Tips)
	})

	t.Run("unknown feature", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/info?feature=nonexistent", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("feature list", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/info", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "guest-mode")
		assert.Contains(t, w.Body.String(), "audio")
	})
}
