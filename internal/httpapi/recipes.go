package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"soraifarm/internal/models"
)

// recipeRow is a recipe joined with its author, scanned flat from the
// join query.
type recipeRow struct {
	ID           int64  `json:"id"`
	UserID       int64  `gorm:"column:user_id" json:"user_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ImageURL     string `gorm:"column:image_url" json:"image_url"`
	Ingredients  string `json:"-"`
	Steps        string `json:"-"`
	Time         string `json:"time"`
	Difficulty   string `json:"difficulty"`
	Servings     string `json:"servings"`
	Views        int64  `json:"views"`
	CreatedAt    string `gorm:"column:created_at" json:"created_at"`
	Author       string `json:"author"`
	AuthorAvatar string `gorm:"column:author_avatar" json:"author_avatar"`
}

// recipePayload expands the JSON text columns into structured fields.
type recipePayload struct {
	recipeRow
	IngredientList []models.Ingredient `json:"ingredients"`
	StepList       []string            `json:"steps"`
}

func toRecipePayload(row recipeRow) recipePayload {
	p := recipePayload{
		recipeRow:      row,
		IngredientList: []models.Ingredient{},
		StepList:       []string{},
	}
	if row.Ingredients != "" {
		json.Unmarshal([]byte(row.Ingredients), &p.IngredientList)
	}
	if row.Steps != "" {
		json.Unmarshal([]byte(row.Steps), &p.StepList)
	}
	return p
}

func recipeQuery(db *gorm.DB) *gorm.DB {
	return db.Table("recipes").
		Select("recipes.*, users.full_name as author, users.avatar_url as author_avatar").
		Joins("LEFT JOIN users ON users.id = recipes.user_id")
}

// ListRecipesHandler serves GET /api/recipes?category=&popular=.
func ListRecipesHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := recipeQuery(db)

		category := r.URL.Query().Get("category")
		if category != "" && category != "All" {
			query = query.Where("recipes.category = ?", category)
		}
		if r.URL.Query().Get("popular") == "true" {
			query = query.Order("recipes.views DESC, recipes.created_at DESC")
		} else {
			query = query.Order("recipes.created_at DESC")
		}

		var rows []recipeRow
		if err := query.Scan(&rows).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal mengambil data resep")
			return
		}

		payload := make([]recipePayload, 0, len(rows))
		for _, row := range rows {
			payload = append(payload, toRecipePayload(row))
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// GetRecipeHandler serves GET /api/recipes/{id}. The view counter is NOT
// incremented here; that happens through the increment-views endpoint once
// the dwell timer fires.
func GetRecipeHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ID tidak valid")
			return
		}

		var row recipeRow
		err = recipeQuery(db).Where("recipes.id = ?", id).Take(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(w, http.StatusNotFound, "Resep tidak ditemukan")
				return
			}
			writeError(w, http.StatusInternalServerError, "Gagal mengambil data resep")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"recipe":  toRecipePayload(row),
		})
	}
}

type recipeRequest struct {
	UserID      int64               `json:"user_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	ImageURL    string              `json:"image_url"`
	Ingredients []models.Ingredient `json:"ingredients"`
	Steps       []string            `json:"steps"`
	Time        string              `json:"time"`
	Difficulty  string              `json:"difficulty"`
	Servings    string              `json:"servings"`
}

// CreateRecipeHandler serves POST /api/recipes.
func CreateRecipeHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Permintaan tidak valid")
			return
		}

		ingredients, _ := json.Marshal(req.Ingredients)
		steps, _ := json.Marshal(req.Steps)
		recipe := models.Recipe{
			UserID:      req.UserID,
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
			Ingredients: string(ingredients),
			Steps:       string(steps),
			Time:        req.Time,
			Difficulty:  req.Difficulty,
			Servings:    req.Servings,
		}
		if err := db.Create(&recipe).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal menyimpan resep")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"recipe": toRecipePayload(recipeRow{
				ID:          recipe.ID,
				UserID:      recipe.UserID,
				Title:       recipe.Title,
				Description: recipe.Description,
				Category:    recipe.Category,
				ImageURL:    recipe.ImageURL,
				Ingredients: recipe.Ingredients,
				Steps:       recipe.Steps,
				Time:        recipe.Time,
				Difficulty:  recipe.Difficulty,
				Servings:    recipe.Servings,
			}),
		})
	}
}

// IncrementViewsHandler serves PUT /api/recipes/{id}/increment-views.
func IncrementViewsHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ID tidak valid")
			return
		}

		err = db.Model(&models.Recipe{}).Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("COALESCE(views, 0) + 1")).Error
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal increment views")
			return
		}

		var recipe models.Recipe
		if err := db.Select("views").First(&recipe, id).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal mengambil views")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"views":   recipe.Views,
		})
	}
}
