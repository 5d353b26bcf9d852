package models

import "time"

// User is the account record. PasswordHash never leaves the server.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"column:full_name" json:"full_name"`
	Location     string    `json:"location"`
	LandArea     string    `gorm:"column:land_area" json:"land_area"`
	AvatarURL    string    `gorm:"column:avatar_url" json:"avatar_url"`
	CreatedAt    time.Time `json:"-"`
}

// RecommendationStep is one step of an AI planting recommendation.
type RecommendationStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Land is a registered plot with its suitability assessment.
// RecommendationSteps is stored as a JSON text column, same as the
// recipe ingredient/step columns.
type Land struct {
	ID                  int64     `gorm:"primaryKey" json:"id"`
	UserID              int64     `gorm:"column:user_id;index" json:"user_id"`
	Name                string    `json:"name"`
	Area                float64   `json:"area"`
	SoilType            string    `gorm:"column:soil_type" json:"soil_type"`
	Variety             string    `json:"variety"`
	SuitabilityScore    float64   `gorm:"column:suitability_score" json:"suitability_score"`
	Status              string    `json:"status"`
	PH                  float64   `gorm:"column:ph" json:"ph"`
	Moisture            float64   `json:"moisture"`
	RecommendationSteps string    `gorm:"column:recommendation_steps" json:"-"`
	CreatedAt           time.Time `gorm:"column:created_at" json:"created_at"`
}

// Ingredient is one recipe ingredient line.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Recipe as stored. Ingredients and Steps are JSON text columns.
type Recipe struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"column:user_id;index" json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url"`
	Ingredients string    `json:"-"`
	Steps       string    `json:"-"`
	Time        string    `json:"time"`
	Difficulty  string    `json:"difficulty"`
	Servings    string    `json:"servings"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// EducationModule is a library article shown in the education list.
type EducationModule struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `gorm:"column:image_url" json:"image_url"`
	Duration    string `json:"duration"`
	Level       string `json:"level"`
}

// ChartPoint is one date-stamped tuple consumed by the chart views.
type ChartPoint struct {
	Label     string  `json:"name"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
	FullDate  string  `json:"fullDate"`
	DateValue int64   `json:"dateValue"`
}

// MarketRecord is one synthesized day of market data.
type MarketRecord struct {
	Date         string  `json:"date"`
	Day          int     `json:"day"`
	Month        string  `json:"month"`
	Year         int     `json:"year"`
	AveragePrice float64 `json:"average_price"`
	SalesVolume  float64 `json:"sales_volume"`
	Location     string  `json:"location"`
	Product      string  `json:"product"`
}

// HarvestResult is the yield estimate returned by the harvest calculator.
type HarvestResult struct {
	TotalYield     float64 `json:"totalYield"`
	TotalYieldKg   float64 `json:"totalYieldKg"`
	NumberOfPlants int     `json:"numberOfPlants"`
	MarketPrice    float64 `json:"marketPrice"`
	GrossRevenue   float64 `json:"grossRevenue"`
	MarginError    float64 `json:"marginError"`
}

// DailyForecast is one forecast entry (a day name or an hour label).
type DailyForecast struct {
	Name     string  `json:"name"`
	Temp     float64 `json:"temp"`
	Rain     float64 `json:"rain"`
	Humidity float64 `json:"humidity"`
}

// ClimateData is the current-conditions view model.
type ClimateData struct {
	Location       string          `json:"location"`
	CurrentTemp    float64         `json:"currentTemp"`
	Condition      string          `json:"condition"`
	Humidity       float64         `json:"humidity"`
	WindSpeed      float64         `json:"windSpeed"`
	IsExtreme      bool            `json:"isExtreme"`
	ExtremeMessage string          `json:"extremeMessage"`
	Forecast       []DailyForecast `json:"forecast"`
	Recommendation string          `json:"recommendation"`
}

// PlantingRecommendation is the AI land-suitability assessment.
type PlantingRecommendation struct {
	Suitability float64              `json:"suitability"`
	Risk        string               `json:"risk"`
	Steps       []RecommendationStep `json:"steps"`
	HarvestDate string               `json:"harvestDate"`
	PH          float64              `json:"ph,omitempty"`
	Moisture    float64              `json:"moisture,omitempty"`
}

// PricePoint and ProfitPoint feed the market insight charts.
type PricePoint struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ProfitPoint struct {
	Name   string  `json:"name"`
	Profit float64 `json:"profit"`
}

// StakeholderRecommendation is one role-specific market action.
type StakeholderRecommendation struct {
	Role   string `json:"role"`
	Action string `json:"action"`
}

// MarketInsight is the AI market analysis view model.
type MarketInsight struct {
	CurrentPrice          float64                     `json:"currentPrice"`
	PriceChangePercentage float64                     `json:"priceChangePercentage"`
	LastUpdated           string                      `json:"lastUpdated"`
	Trend                 string                      `json:"trend"`
	PriceHistory          []PricePoint                `json:"priceHistory"`
	ProfitComparison      []ProfitPoint               `json:"profitComparison"`
	MarketSummary         string                      `json:"marketSummary"`
	DemandSupply          string                      `json:"demandSupply"`
	PriceAnalysis         string                      `json:"priceAnalysis"`
	Opportunities         []string                    `json:"opportunities"`
	Prediction            string                      `json:"prediction"`
	StakeholderActions    []StakeholderRecommendation `json:"stakeholderActions"`
}

// GeneratedRecipe is the AI chef output shown before the user saves it.
type GeneratedRecipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Image       string       `json:"image"`
	Time        string       `json:"time"`
	Servings    string       `json:"servings"`
	Difficulty  string       `json:"difficulty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
}

// Variety, NutritionFact and FAQ are education library entries.
type Variety struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

type NutritionFact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

type FAQ struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// EducationContent is the AI cultivation guide view model.
type EducationContent struct {
	AgroAnalysis          string               `json:"agroAnalysis"`
	PlantingTime          string               `json:"plantingTime"`
	CultivationSteps      []RecommendationStep `json:"cultivationSteps"`
	Fertilization         string               `json:"fertilization"`
	PestControl           string               `json:"pestControl"`
	WeatherRiskManagement string               `json:"weatherRiskManagement"`
	HarvestGuide          string               `json:"harvestGuide"`
	ValueAddedProducts    []string             `json:"valueAddedProducts"`
	LocalTips             string               `json:"localTips"`
	Varieties             []Variety            `json:"varieties"`
	NutritionFacts        []NutritionFact      `json:"nutritionFacts"`
	FAQs                  []FAQ                `json:"faqs"`
}
