package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"nearest-hub-service/internal/api/dto"
	"nearest-hub-service/internal/services"
)

type NearestHandler struct {
	Ranker *services.Ranker
}

// Nearest resolves an entity location and returns the closest hubs.
// An unresolvable location is a soft outcome: 200 with an empty hub list
// and an error string, because the hub suggestion is a best-effort
// advisory, not a required business operation.
func (h *NearestHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.NearestHubsRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Country) == "" {
		writeError(w, r, http.StatusBadRequest, "city and country are required")
		return
	}
	if req.Limit < 0 || req.Limit > 2 {
		writeError(w, r, http.StatusBadRequest, "limit must be 1 or 2")
		return
	}

	ranked, err := h.Ranker.RankNearest(r.Context(), services.NearestHubsRequest{
		City:       req.City,
		Country:    req.Country,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Limit:      req.Limit,
	})
	if err != nil {
		if errors.Is(err, services.ErrLocationUnresolvable) {
			writeJSON(w, r, http.StatusOK, dto.NearestHubsResponse{
				Hubs:  []dto.RankedHubResponse{},
				Error: "location could not be resolved",
			})
			return
		}
		log.Printf("rank nearest failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.NearestHubsResponse{Hubs: make([]dto.RankedHubResponse, 0, len(ranked))}
	for _, rh := range ranked {
		res.Hubs = append(res.Hubs, dto.RankedHubResponse{
			HubID:          rh.HubID,
			Name:           rh.Name,
			Code:           rh.Code,
			DistanceKm:     rh.DistanceKm,
			Warning:        rh.Warning,
			IsRoadDistance: rh.IsRoadDistance,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
