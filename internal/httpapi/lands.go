package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"soraifarm/internal/models"
)

// landPayload is the wire shape of a land record: the JSON text column is
// expanded into structured steps.
type landPayload struct {
	models.Land
	RecommendationSteps []models.RecommendationStep `json:"recommendation_steps"`
}

func toLandPayload(land models.Land) landPayload {
	p := landPayload{Land: land, RecommendationSteps: []models.RecommendationStep{}}
	if land.RecommendationSteps != "" {
		json.Unmarshal([]byte(land.RecommendationSteps), &p.RecommendationSteps)
	}
	return p
}

// ListLandsHandler serves GET /api/lands/{userId}, newest first.
func ListLandsHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ID tidak valid")
			return
		}

		var lands []models.Land
		if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&lands).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal mengambil data lahan")
			return
		}

		payload := make([]landPayload, 0, len(lands))
		for _, land := range lands {
			payload = append(payload, toLandPayload(land))
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

type landRequest struct {
	UserID              int64                       `json:"user_id"`
	Name                string                      `json:"name"`
	Area                float64                     `json:"area"`
	SoilType            string                      `json:"soil_type"`
	Variety             string                      `json:"variety"`
	SuitabilityScore    float64                     `json:"suitability_score"`
	Status              string                      `json:"status"`
	PH                  float64                     `json:"ph"`
	Moisture            float64                     `json:"moisture"`
	RecommendationSteps []models.RecommendationStep `json:"recommendation_steps"`
}

func (req landRequest) toModel() models.Land {
	land := models.Land{
		UserID:           req.UserID,
		Name:             req.Name,
		Area:             req.Area,
		SoilType:         req.SoilType,
		Variety:          req.Variety,
		SuitabilityScore: req.SuitabilityScore,
		Status:           req.Status,
		PH:               req.PH,
		Moisture:         req.Moisture,
	}
	if len(req.RecommendationSteps) > 0 {
		if steps, err := json.Marshal(req.RecommendationSteps); err == nil {
			land.RecommendationSteps = string(steps)
		}
	}
	return land
}

// CreateLandHandler serves POST /api/lands.
func CreateLandHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req landRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Permintaan tidak valid")
			return
		}

		land := req.toModel()
		if err := db.Create(&land).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal menyimpan lahan")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"land":    toLandPayload(land),
		})
	}
}

// UpdateLandHandler serves PUT /api/lands/{id}.
func UpdateLandHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ID tidak valid")
			return
		}
		var req landRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Permintaan tidak valid")
			return
		}

		land := req.toModel()
		updates := map[string]interface{}{
			"name":                 land.Name,
			"area":                 land.Area,
			"soil_type":            land.SoilType,
			"variety":              land.Variety,
			"suitability_score":    land.SuitabilityScore,
			"status":               land.Status,
			"ph":                   land.PH,
			"moisture":             land.Moisture,
			"recommendation_steps": land.RecommendationSteps,
		}
		if err := db.Model(&models.Land{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal update lahan")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Lahan berhasil diupdate",
		})
	}
}

// DeleteLandHandler serves DELETE /api/lands/{id}.
func DeleteLandHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ID tidak valid")
			return
		}
		if err := db.Delete(&models.Land{}, id).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal menghapus lahan")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Lahan berhasil dihapus",
		})
	}
}
