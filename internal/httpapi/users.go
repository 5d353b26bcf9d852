package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"soraifarm/internal/auth"
	"soraifarm/internal/models"
)

// userProfile is the user record plus the aggregate stats shown on the
// profile screen.
type userProfile struct {
	models.User
	TotalLandArea   float64 `json:"total_land_area"`
	TotalLandAreaHa string  `json:"total_land_area_ha"`
	LandCount       int64   `json:"land_count"`
	RecipeCount     int64   `json:"recipe_count"`
}

// GetUserHandler serves GET /api/user/{id}: the profile with land and
// recipe aggregates.
func GetUserHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ID tidak valid")
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(w, http.StatusNotFound, "User tidak ditemukan")
				return
			}
			writeError(w, http.StatusInternalServerError, "Gagal mengambil data")
			return
		}

		profile := userProfile{User: user}
		db.Model(&models.Land{}).Where("user_id = ?", id).Count(&profile.LandCount)
		db.Model(&models.Recipe{}).Where("user_id = ?", id).Count(&profile.RecipeCount)

		var totalArea struct{ Total float64 }
		db.Model(&models.Land{}).
			Select("COALESCE(SUM(area), 0) as total").
			Where("user_id = ?", id).
			Scan(&totalArea)
		profile.TotalLandArea = totalArea.Total
		profile.TotalLandAreaHa = fmt.Sprintf("%.2f", totalArea.Total/10000)

		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": profile})
	}
}

type updateUserRequest struct {
	FullName  string `json:"full_name"`
	Location  string `json:"location"`
	LandArea  string `json:"land_area"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateUserHandler serves PUT /api/user/{id}. The token must belong to
// the user being updated.
func UpdateUserHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ID tidak valid")
			return
		}
		if callerID, ok := auth.UserIDFromContext(r.Context()); !ok || callerID != id {
			writeError(w, http.StatusForbidden, "Tidak diizinkan")
			return
		}

		var req updateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Permintaan tidak valid")
			return
		}

		updates := map[string]interface{}{
			"full_name":  req.FullName,
			"location":   req.Location,
			"land_area":  req.LandArea,
			"avatar_url": req.AvatarURL,
		}
		if err := db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal update profil")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Profil berhasil diupdate",
		})
	}
}
