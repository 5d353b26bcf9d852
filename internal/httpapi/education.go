package httpapi

import (
	"net/http"

	"gorm.io/gorm"

	"soraifarm/internal/models"
)

// ListEducationHandler serves GET /api/education.
func ListEducationHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var modules []models.EducationModule
		if err := db.Find(&modules).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal mengambil data")
			return
		}
		writeJSON(w, http.StatusOK, modules)
	}
}
