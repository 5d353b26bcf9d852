package apiclient

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"soraifarm/internal/config"
	"soraifarm/internal/httpapi"
	"soraifarm/internal/models"
	"soraifarm/internal/storage"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	db, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	cfg := config.Defaults()
	cfg.UploadDir = t.TempDir()
	srv := httptest.NewServer(httpapi.SetupRouter(db, cfg))
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	client := newTestClient(t)

	reg, err := client.Register("ani@gmail.com", "sorgum123", "Ani Petani")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.User.ID == 0 || reg.Token == "" {
		t.Fatalf("register result = %+v", reg)
	}

	login, err := client.Login("ani@gmail.com", "sorgum123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("login user id = %d, want %d", login.User.ID, reg.User.ID)
	}

	_, err = client.Login("ani@gmail.com", "salah")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login err = %v", err)
	}
	if apiErr.Message != "Email atau password salah" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestLandAndRecipeFlow(t *testing.T) {
	client := newTestClient(t)
	reg, err := client.Register("budi@gmail.com", "sorgum123", "Budi")
	if err != nil {
		t.Fatal(err)
	}

	land, err := client.CreateLand(LandInput{
		UserID:   reg.User.ID,
		Name:     "Lahan Timur",
		Area:     900,
		SoilType: "Lempung berpasir",
		RecommendationSteps: []models.RecommendationStep{
			{Title: "Pengolahan tanah", Description: "Gemburkan sebelum tanam"},
		},
	})
	if err != nil {
		t.Fatalf("create land: %v", err)
	}
	lands, err := client.ListLands(reg.User.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(lands) != 1 || lands[0].ID != land.ID {
		t.Fatalf("lands = %+v", lands)
	}
	if len(lands[0].RecommendationSteps) != 1 {
		t.Errorf("steps not round-tripped: %+v", lands[0])
	}
	if err := client.DeleteLand(land.ID); err != nil {
		t.Fatalf("delete land: %v", err)
	}

	recipe, err := client.CreateRecipe(RecipeInput{
		UserID:      reg.User.ID,
		Title:       "Cookies Sorgum",
		Category:    "Kue",
		Ingredients: []models.Ingredient{{Name: "Tepung sorgum", Amount: "200 g"}},
		Steps:       []string{"Campur", "Panggang"},
	})
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	views, err := client.IncrementRecipeViews(recipe.ID)
	if err != nil || views != 1 {
		t.Fatalf("increment views = %d, %v", views, err)
	}
	got, err := client.GetRecipe(recipe.ID)
	if err != nil {
		t.Fatal(err)
	}
	// The detail endpoint wraps the recipe in a success envelope; a bare
	// decode would leave every field zero.
	if got.ID != recipe.ID || got.Title == "" {
		t.Fatalf("recipe detail came back empty: %+v", got)
	}
	if got.Author != "Budi" || len(got.Steps) != 2 {
		t.Errorf("recipe detail = %+v", got)
	}
}

func TestMarketHarvestEducation(t *testing.T) {
	client := newTestClient(t)

	records, err := client.MarketData("Surabaya", "Flour", 14)
	if err != nil {
		t.Fatalf("market: %v", err)
	}
	if len(records) != 14 {
		t.Fatalf("len(records) = %d", len(records))
	}

	result, err := client.CalculateHarvest(1000, 0.5, 0.8)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if result.NumberOfPlants != 4000 {
		t.Errorf("plants = %d", result.NumberOfPlants)
	}

	modules, err := client.ListEducation()
	if err != nil {
		t.Fatalf("education: %v", err)
	}
	if len(modules) == 0 {
		t.Error("no education modules")
	}
}

func TestUploadRecipeImage(t *testing.T) {
	client := newTestClient(t)

	path := filepath.Join(t.TempDir(), "foto.png")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatal(err)
	}
	result, err := client.UploadRecipeImage(path)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !result.Success || result.Filename == "" {
		t.Fatalf("result = %+v", result)
	}
}

func TestNonJSONResponseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	client := New(srv.URL)
	if _, err := client.ListEducation(); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}
