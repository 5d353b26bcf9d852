package httpapi

import (
	"net/http"

	"gorm.io/gorm"

	"soraifarm/internal/auth"
	"soraifarm/internal/config"
)

// SetupRouter wires every API route onto a mux and wraps it with CORS.
func SetupRouter(db *gorm.DB, cfg config.Settings) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", auth.RegisterHandler(db))
	mux.HandleFunc("POST /api/login", auth.LoginHandler(db))

	mux.HandleFunc("GET /api/user/{id}", GetUserHandler(db))
	mux.Handle("PUT /api/user/{id}", auth.JWTMiddleware(UpdateUserHandler(db)))

	mux.HandleFunc("POST /api/upload/profile", UploadHandler(cfg.UploadDir, cfg.BaseURL, "avatar"))
	mux.HandleFunc("POST /api/upload/recipe", UploadHandler(cfg.UploadDir, cfg.BaseURL, "image"))

	mux.HandleFunc("GET /api/lands/{userId}", ListLandsHandler(db))
	mux.Handle("POST /api/lands", auth.JWTMiddleware(CreateLandHandler(db)))
	mux.Handle("PUT /api/lands/{id}", auth.JWTMiddleware(UpdateLandHandler(db)))
	mux.Handle("DELETE /api/lands/{id}", auth.JWTMiddleware(DeleteLandHandler(db)))

	mux.HandleFunc("GET /api/recipes", ListRecipesHandler(db))
	mux.HandleFunc("GET /api/recipes/{id}", GetRecipeHandler(db))
	mux.Handle("POST /api/recipes", auth.JWTMiddleware(CreateRecipeHandler(db)))
	mux.HandleFunc("PUT /api/recipes/{id}/increment-views", IncrementViewsHandler(db))

	mux.HandleFunc("GET /api/market", MarketDataHandler)
	mux.HandleFunc("POST /api/harvest/calculate", HarvestEstimateHandler)
	mux.HandleFunc("GET /api/education", ListEducationHandler(db))

	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadDir))))

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
