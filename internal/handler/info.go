package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/slotdeck/server/internal/features"
)

// InfoResponse represents the structure for info responses
type InfoResponse struct {
	Feature     string   `json:"feature,omitempty"`
	Description string   `json:"description"`
	Tips        []string `json:"tips,omitempty"`
}

// HandleGetInfo serves help content for dashboard panels. Without a
// feature parameter it lists everything.
func HandleGetInfo(loader *features.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feature := strings.ToLower(r.URL.Query().Get("feature"))

		if feature != "" {
			data, ok := loader.GetFeature(feature)
			if !ok {
				respondError(w, http.StatusNotFound, fmt.Sprintf("Feature '%s' not found", feature))
				return
			}
			respondJSON(w, http.StatusOK, InfoResponse{
				Feature:     feature,
				Description: data.Description,
				Tips:        data.Tips,
			})
			return
		}

		all := loader.GetAllFeatures()
		list := make([]InfoResponse, 0, len(all))
		for name, data := range all {
			list = append(list, InfoResponse{
				Feature:     name,
				Description: data.Description,
				Tips:        data.Tips,
			})
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: list})
	}
}
