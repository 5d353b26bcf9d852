package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"gorm.io/gorm"

	"soraifarm/internal/config"
	"soraifarm/internal/market"
	"soraifarm/internal/models"
	"soraifarm/internal/storage"
)

func setupTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	db, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	cfg := config.Defaults()
	cfg.UploadDir = t.TempDir()
	srv := httptest.NewServer(SetupRouter(db, cfg))
	t.Cleanup(srv.Close)
	return srv, db
}

func registerAndLogin(t *testing.T, srv *httptest.Server) (int64, string) {
	t.Helper()
	body := `{"email":"petani@gmail.com","password":"rahasia1","full_name":"Petani Uji"}`
	resp, err := http.Post(srv.URL+"/api/register", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var reg struct {
		Success bool        `json:"success"`
		Token   string      `json:"token"`
		User    models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	if !reg.Success || reg.Token == "" {
		t.Fatalf("register response = %+v", reg)
	}
	return reg.User.ID, reg.Token
}

func doJSON(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestUserProfileAggregates(t *testing.T) {
	srv, db := setupTestServer(t)
	userID, _ := registerAndLogin(t, srv)

	db.Create(&models.Land{UserID: userID, Name: "Lahan Utara", Area: 1200})
	db.Create(&models.Land{UserID: userID, Name: "Lahan Selatan", Area: 800})
	db.Create(&models.Recipe{UserID: userID, Title: "Bubur Sorgum", Category: "Makanan"})

	resp, err := http.Get(fmt.Sprintf("%s/api/user/%d", srv.URL, userID))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct {
		Success bool `json:"success"`
		User    struct {
			Email           string  `json:"email"`
			TotalLandArea   float64 `json:"total_land_area"`
			TotalLandAreaHa string  `json:"total_land_area_ha"`
			LandCount       int64   `json:"land_count"`
			RecipeCount     int64   `json:"recipe_count"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.User.TotalLandArea != 2000 || out.User.LandCount != 2 || out.User.RecipeCount != 1 {
		t.Errorf("aggregates = %+v", out.User)
	}
	if out.User.TotalLandAreaHa != "0.20" {
		t.Errorf("total_land_area_ha = %q, want 0.20", out.User.TotalLandAreaHa)
	}
	if out.User.Email != "petani@gmail.com" {
		t.Errorf("email = %q", out.User.Email)
	}
}

func TestUpdateUserRequiresOwnToken(t *testing.T) {
	srv, _ := setupTestServer(t)
	userID, token := registerAndLogin(t, srv)

	resp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/user/%d", srv.URL, userID+1), token,
		`{"full_name":"Penyusup"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("cross-user update status = %d, want 403", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/user/%d", srv.URL, userID), token,
		`{"full_name":"Petani Baru","location":"Garut","land_area":"2 ha","avatar_url":""}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("self update status = %d", resp.StatusCode)
	}
}

func TestLandLifecycle(t *testing.T) {
	srv, _ := setupTestServer(t)
	userID, token := registerAndLogin(t, srv)

	body := fmt.Sprintf(`{"user_id":%d,"name":"Lahan Percobaan","area":1500,
		"soil_type":"Lempung","variety":"Numbu","suitability_score":87,
		"status":"Siap Tanam","ph":6.5,"moisture":60,
		"recommendation_steps":[{"title":"Olah tanah","description":"Bajak dua kali"}]}`, userID)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/lands", token, body)
	var created struct {
		Success bool `json:"success"`
		Land    struct {
			ID                  int64                       `json:"id"`
			RecommendationSteps []models.RecommendationStep `json:"recommendation_steps"`
		} `json:"land"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !created.Success || created.Land.ID == 0 {
		t.Fatalf("create land response = %+v", created)
	}
	if len(created.Land.RecommendationSteps) != 1 || created.Land.RecommendationSteps[0].Title != "Olah tanah" {
		t.Errorf("recommendation steps = %+v", created.Land.RecommendationSteps)
	}

	// Unauthenticated writes are rejected.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/lands", "", body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated create status = %d, want 401", resp.StatusCode)
	}

	listResp, err := http.Get(fmt.Sprintf("%s/api/lands/%d", srv.URL, userID))
	if err != nil {
		t.Fatal(err)
	}
	var lands []landPayload
	if err := json.NewDecoder(listResp.Body).Decode(&lands); err != nil {
		t.Fatalf("lands list is not a bare array: %v", err)
	}
	listResp.Body.Close()
	if len(lands) != 1 || lands[0].Name != "Lahan Percobaan" {
		t.Fatalf("lands = %+v", lands)
	}

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/lands/%d", srv.URL, created.Land.ID), token,
		`{"status":"Ditanam"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update land status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/lands/%d", srv.URL, created.Land.ID), token, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete land status = %d", resp.StatusCode)
	}
}

func TestRecipeListAndViews(t *testing.T) {
	srv, _ := setupTestServer(t)
	userID, token := registerAndLogin(t, srv)

	create := func(title, category string) int64 {
		body := fmt.Sprintf(`{"user_id":%d,"title":%q,"category":%q,
			"ingredients":[{"name":"Tepung sorgum","amount":"250 g"}],
			"steps":["Campur bahan","Panggang 30 menit"]}`, userID, title, category)
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/recipes", token, body)
		defer resp.Body.Close()
		var out struct {
			Success bool `json:"success"`
			Recipe  struct {
				ID int64 `json:"id"`
			} `json:"recipe"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if !out.Success {
			t.Fatalf("create recipe %q failed", title)
		}
		return out.Recipe.ID
	}
	cakeID := create("Brownies Sorgum", "Kue")
	create("Nasi Sorgum", "Makanan")

	resp, err := http.Get(srv.URL + "/api/recipes?category=Kue")
	if err != nil {
		t.Fatal(err)
	}
	var recipes []recipePayload
	if err := json.NewDecoder(resp.Body).Decode(&recipes); err != nil {
		t.Fatalf("recipes list is not a bare array: %v", err)
	}
	resp.Body.Close()
	if len(recipes) != 1 || recipes[0].Title != "Brownies Sorgum" {
		t.Fatalf("category filter returned %+v", recipes)
	}
	if recipes[0].Author != "Petani Uji" {
		t.Errorf("author = %q", recipes[0].Author)
	}
	if len(recipes[0].IngredientList) != 1 || len(recipes[0].StepList) != 2 {
		t.Errorf("structured columns not expanded: %+v", recipes[0])
	}

	for want := int64(1); want <= 2; want++ {
		resp := doJSON(t, http.MethodPut,
			fmt.Sprintf("%s/api/recipes/%d/increment-views", srv.URL, cakeID), "", "")
		var out struct {
			Success bool  `json:"success"`
			Views   int64 `json:"views"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if out.Views != want {
			t.Fatalf("views after increment = %d, want %d", out.Views, want)
		}
	}

	// Reading the detail must not bump the counter.
	resp, err = http.Get(fmt.Sprintf("%s/api/recipes/%d", srv.URL, cakeID))
	if err != nil {
		t.Fatal(err)
	}
	var detail struct {
		Success bool          `json:"success"`
		Recipe  recipePayload `json:"recipe"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !detail.Success || detail.Recipe.ID == 0 {
		t.Fatalf("detail not wrapped in the success envelope: %+v", detail)
	}
	if detail.Recipe.Views != 2 {
		t.Errorf("views after detail read = %d, want 2", detail.Recipe.Views)
	}
}

func TestMarketEndpoint(t *testing.T) {
	srv, _ := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/market?location=Jakarta&product=Sorghum&days=7")
	if err != nil {
		t.Fatal(err)
	}
	var records []models.MarketRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("market response is not a bare array: %v", err)
	}
	resp.Body.Close()
	if len(records) != 7 {
		t.Fatalf("len(records) = %d, want 7", len(records))
	}
	for _, rec := range records {
		if rec.Location != "Jakarta" || rec.Product != "Sorghum" {
			t.Errorf("record echo = %+v", rec)
		}
		if rec.AveragePrice <= 0 || rec.SalesVolume <= 0 {
			t.Errorf("non-positive synthesis: %+v", rec)
		}
	}
	// The handler must pass location and product through in that order;
	// the synthesis keys base price on the product and the multiplier on
	// the location.
	if want := market.DailyData("Jakarta", "Sorghum", 7); !reflect.DeepEqual(records, want) {
		t.Errorf("records do not match direct synthesis:\n got %+v\nwant %+v", records[0], want[0])
	}

	resp, err = http.Get(srv.URL + "/api/market?days=banyak")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid days status = %d, want 400", resp.StatusCode)
	}
}

func TestHarvestEndpoint(t *testing.T) {
	srv, _ := setupTestServer(t)

	resp, err := http.Post(srv.URL+"/api/harvest/calculate", "application/json",
		strings.NewReader(`{"landSize":1000,"plantingDistance":0.5,"productivity":0.8}`))
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Success bool                 `json:"success"`
		Result  models.HarvestResult `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if out.Result.NumberOfPlants != 4000 || out.Result.TotalYieldKg != 3200 {
		t.Errorf("result = %+v", out.Result)
	}
	if out.Result.GrossRevenue != 14400000 {
		t.Errorf("gross revenue = %v", out.Result.GrossRevenue)
	}

	resp, err = http.Post(srv.URL+"/api/harvest/calculate", "application/json",
		strings.NewReader(`{"landSize":1000,"plantingDistance":0,"productivity":0.8}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("zero distance status = %d, want 400", resp.StatusCode)
	}
}

func TestEducationSeeded(t *testing.T) {
	srv, _ := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/education")
	if err != nil {
		t.Fatal(err)
	}
	var modules []models.EducationModule
	if err := json.NewDecoder(resp.Body).Decode(&modules); err != nil {
		t.Fatalf("education response is not a bare array: %v", err)
	}
	resp.Body.Close()
	if len(modules) == 0 {
		t.Fatal("education modules not seeded")
	}
	for _, m := range modules {
		if m.Title == "" || m.Category == "" {
			t.Errorf("incomplete module: %+v", m)
		}
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	srv, _ := setupTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("avatar", "malware.exe")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("not an image"))
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/upload/profile", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("exe upload status = %d, want 400", resp.StatusCode)
	}
}

func TestUploadStoresImage(t *testing.T) {
	srv, _ := setupTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "masakan.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte{0x89, 'P', 'N', 'G'})
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/upload/recipe", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Success  bool   `json:"success"`
		URL      string `json:"url"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !out.Success || !strings.HasSuffix(out.Filename, ".png") {
		t.Fatalf("upload response = %+v", out)
	}
	if !strings.Contains(out.URL, "/uploads/"+out.Filename) {
		t.Errorf("url = %q does not reference filename", out.URL)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := setupTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/recipes", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
}

func TestExpiredOrGarbageToken(t *testing.T) {
	srv, _ := setupTestServer(t)
	userID, _ := registerAndLogin(t, srv)

	resp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/user/%d", srv.URL, userID),
		"bukan.token.jwt", `{"full_name":"X"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", resp.StatusCode)
	}
}
