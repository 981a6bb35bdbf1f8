package handlers

import (
	"log"
	"net/http"

	"nearest-hub-service/internal/api/dto"
	"nearest-hub-service/internal/ports"
)

type HubHandler struct {
	Repo ports.HubRepository
}

// List returns the current active hubs (served through the hub cache).
func (h *HubHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	hubs, err := h.Repo.ListActiveHubs(r.Context())
	if err != nil {
		log.Printf("list hubs failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListHubsResponse{Hubs: make([]dto.HubResponse, 0, len(hubs))}
	for _, hub := range hubs {
		out := dto.HubResponse{
			ID:      hub.ID,
			Name:    hub.Name,
			Code:    hub.Code,
			City:    hub.City,
			Country: hub.Country,
			Active:  hub.Active,
		}
		if hub.Coord != nil {
			lat, lon := hub.Coord.Lat, hub.Coord.Lon
			out.Lat = &lat
			out.Lon = &lon
		}
		res.Hubs = append(res.Hubs, out)
	}

	writeJSON(w, r, http.StatusOK, res)
}
