package httpapi

import (
	"encoding/json"
	"net/http"

	"soraifarm/internal/harvest"
)

type harvestRequest struct {
	LandSize         float64 `json:"landSize"`
	PlantingDistance float64 `json:"plantingDistance"`
	Productivity     float64 `json:"productivity"`
}

// HarvestEstimateHandler computes a harvest projection from land size,
// planting distance and productivity per plant.
func HarvestEstimateHandler(w http.ResponseWriter, r *http.Request) {
	var req harvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Data tidak valid")
		return
	}
	if req.LandSize <= 0 || req.PlantingDistance <= 0 || req.Productivity <= 0 {
		writeError(w, http.StatusBadRequest, "Semua nilai harus lebih dari nol")
		return
	}

	result := harvest.Calculate(req.LandSize, req.PlantingDistance, req.Productivity)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}
