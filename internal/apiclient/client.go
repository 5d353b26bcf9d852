package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"soraifarm/internal/models"
)

// Client talks to the SorAiFarm backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mu         sync.RWMutex
	token      string
}

// New creates a client with connection pooling.
func New(baseURL string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
}

// SetToken stores the bearer token used for authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// APIError carries the status code and the server's message field.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// envelope is the {success, message} wrapper used by write endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// do runs a request and decodes the JSON body into out. Non-2xx or
// non-JSON responses come back as *APIError.
func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		json.Unmarshal(raw, &env)
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return &APIError{StatusCode: resp.StatusCode, Message: "respons bukan JSON"}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// AuthResult is the register/login response.
type AuthResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// Register creates an account and stores the issued token.
func (c *Client) Register(email, password, fullName string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(http.MethodPost, "/api/register", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// Login authenticates and stores the issued token.
func (c *Client) Login(email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// UserProfile is a user record plus profile-screen aggregates.
type UserProfile struct {
	models.User
	TotalLandArea   float64 `json:"total_land_area"`
	TotalLandAreaHa string  `json:"total_land_area_ha"`
	LandCount       int64   `json:"land_count"`
	RecipeCount     int64   `json:"recipe_count"`
}

func (c *Client) GetUser(id int64) (*UserProfile, error) {
	var out struct {
		Success bool        `json:"success"`
		User    UserProfile `json:"user"`
	}
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/user/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UserUpdate carries the editable profile fields.
type UserUpdate struct {
	FullName  string `json:"full_name"`
	Location  string `json:"location"`
	LandArea  string `json:"land_area"`
	AvatarURL string `json:"avatar_url"`
}

func (c *Client) UpdateUser(id int64, update UserUpdate) error {
	return c.do(http.MethodPut, fmt.Sprintf("/api/user/%d", id), update, nil)
}

// Land is a land record with its structured recommendation steps.
type Land struct {
	models.Land
	RecommendationSteps []models.RecommendationStep `json:"recommendation_steps"`
}

func (c *Client) ListLands(userID int64) ([]Land, error) {
	var lands []Land
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/lands/%d", userID), nil, &lands); err != nil {
		return nil, err
	}
	return lands, nil
}

// LandInput is the create/update payload for a land record.
type LandInput struct {
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

func (c *Client) CreateLand(input LandInput) (*Land, error) {
	var out struct {
		Success bool `json:"success"`
		Land    Land `json:"land"`
	}
	if err := c.do(http.MethodPost, "/api/lands", input, &out); err != nil {
		return nil, err
	}
	return &out.Land, nil
}

func (c *Client) UpdateLand(id int64, input LandInput) error {
	return c.do(http.MethodPut, fmt.Sprintf("/api/lands/%d", id), input, nil)
}

func (c *Client) DeleteLand(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/lands/%d", id), nil, nil)
}

// Recipe is a recipe joined with its author and expanded JSON columns.
type Recipe struct {
	ID           int64               `json:"id"`
	UserID       int64               `json:"user_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Category     string              `json:"category"`
	ImageURL     string              `json:"image_url"`
	Time         string              `json:"time"`
	Difficulty   string              `json:"difficulty"`
	Servings     string              `json:"servings"`
	Views        int64               `json:"views"`
	CreatedAt    string              `json:"created_at"`
	Author       string              `json:"author"`
	AuthorAvatar string              `json:"author_avatar"`
	Ingredients  []models.Ingredient `json:"ingredients"`
	Steps        []string            `json:"steps"`
}

// ListRecipes fetches recipes, optionally by category ("All" means no
// filter) and sorted by views when popular is set.
func (c *Client) ListRecipes(category string, popular bool) ([]Recipe, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if popular {
		q.Set("popular", "true")
	}
	path := "/api/recipes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var recipes []Recipe
	if err := c.do(http.MethodGet, path, nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (c *Client) GetRecipe(id int64) (*Recipe, error) {
	var out struct {
		Success bool   `json:"success"`
		Recipe  Recipe `json:"recipe"`
	}
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Recipe, nil
}

// RecipeInput is the create payload for a recipe.
type RecipeInput struct {
	UserID      int64               `json:"user_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	ImageURL    string              `json:"image_url"`
	Time        string              `json:"time"`
	Difficulty  string              `json:"difficulty"`
	Servings    string              `json:"servings"`
	Ingredients []models.Ingredient `json:"ingredients"`
	Steps       []string            `json:"steps"`
}

func (c *Client) CreateRecipe(input RecipeInput) (*Recipe, error) {
	var out struct {
		Success bool   `json:"success"`
		Recipe  Recipe `json:"recipe"`
	}
	if err := c.do(http.MethodPost, "/api/recipes", input, &out); err != nil {
		return nil, err
	}
	return &out.Recipe, nil
}

// IncrementRecipeViews bumps the view counter and returns the new count.
func (c *Client) IncrementRecipeViews(id int64) (int64, error) {
	var out struct {
		Success bool  `json:"success"`
		Views   int64 `json:"views"`
	}
	if err := c.do(http.MethodPut, fmt.Sprintf("/api/recipes/%d/increment-views", id), nil, &out); err != nil {
		return 0, err
	}
	return out.Views, nil
}

func (c *Client) MarketData(location, product string, days int) ([]models.MarketRecord, error) {
	q := url.Values{}
	q.Set("location", location)
	q.Set("product", product)
	q.Set("days", strconv.Itoa(days))
	var records []models.MarketRecord
	if err := c.do(http.MethodGet, "/api/market?"+q.Encode(), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) CalculateHarvest(landSize, plantingDistance, productivity float64) (*models.HarvestResult, error) {
	var out struct {
		Success bool                 `json:"success"`
		Result  models.HarvestResult `json:"result"`
	}
	err := c.do(http.MethodPost, "/api/harvest/calculate", map[string]float64{
		"landSize":         landSize,
		"plantingDistance": plantingDistance,
		"productivity":     productivity,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Result, nil
}

func (c *Client) ListEducation() ([]models.EducationModule, error) {
	var modules []models.EducationModule
	if err := c.do(http.MethodGet, "/api/education", nil, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

// UploadResult is the hosted location of an uploaded image.
type UploadResult struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// UploadProfileImage sends an avatar image as multipart form data.
func (c *Client) UploadProfileImage(path string) (*UploadResult, error) {
	return c.upload("/api/upload/profile", "avatar", path)
}

// UploadRecipeImage sends a recipe photo as multipart form data.
func (c *Client) UploadRecipeImage(path string) (*UploadResult, error) {
	return c.upload("/api/upload/recipe", "image", path)
}

func (c *Client) upload(endpoint, field, path string) (*UploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		var env envelope
		json.Unmarshal(raw, &env)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	var result UploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}
