// Package weather fetches current conditions and forecasts from
// Open-Meteo, with geocoding through Nominatim and BigDataCloud.
// Every call degrades to realistic offline data when the network fails.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"soraifarm/internal/logging"
	"soraifarm/internal/models"
)

// Service wraps the free weather and geocoding APIs. Base URLs are
// fields so tests can point them at a local server.
type Service struct {
	OpenMeteoBase  string
	ReverseGeoBase string
	NominatimBase  string
	httpClient     *http.Client
}

func NewService() *Service {
	return &Service{
		OpenMeteoBase:  "https://api.open-meteo.com/v1",
		ReverseGeoBase: "https://api.bigdatacloud.net",
		NominatimBase:  "https://nominatim.openstreetmap.org",
		httpClient:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *Service) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "SorAiFarm App")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type currentResponse struct {
	Current *struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// conditionForCode maps WMO weather interpretation codes to an
// Indonesian condition label plus the sorghum impact message.
func conditionForCode(code int) (condition string, isExtreme bool, message string) {
	condition = "Cerah"
	message = "Kondisi optimal untuk fotosintesis tanaman sorghum."
	switch {
	case code >= 0 && code <= 3:
		if code != 0 {
			condition = "Cerah Berawan"
		}
	case code >= 45 && code <= 48:
		condition = "Berkabut"
	case code >= 51 && code <= 67:
		condition = "Hujan"
	case code >= 71 && code <= 77:
		condition = "Salju"
	case code >= 80 && code <= 82:
		condition = "Hujan Lebat"
		isExtreme = true
		message = "PERINGATAN: Hujan lebat terdeteksi. Hindari aktivitas di lahan."
	case code >= 95 && code <= 99:
		condition = "Badai Petir"
		isExtreme = true
		message = "PERINGATAN BADAI: Tunda aktivitas pemupukan dan panen."
	}
	return condition, isExtreme, message
}

// Current fetches real-time conditions for the coordinates. Wind above
// 72 km/h always flags an extreme warning.
func (s *Service) Current(ctx context.Context, lat, lon float64) models.ClimateData {
	rawURL := fmt.Sprintf(
		"%s/forecast?latitude=%g&longitude=%g&current=temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m&timezone=Asia%%2FJakarta",
		s.OpenMeteoBase, lat, lon)

	var data currentResponse
	if err := s.getJSON(ctx, rawURL, &data); err != nil || data.Current == nil {
		logging.Warnf("weather: current fetch failed (%v), using mock data", err)
		return mockWeather()
	}
	current := data.Current

	condition, isExtreme, message := conditionForCode(current.WeatherCode)

	windKmh := math.Round(current.WindSpeed * 3.6)
	if windKmh > 72 {
		isExtreme = true
		message = "PERINGATAN: Angin kencang terdeteksi. Waspada kerusakan tanaman."
	}

	return models.ClimateData{
		Location:       s.reverseGeocode(ctx, lat, lon),
		CurrentTemp:    math.Round(current.Temperature),
		Condition:      condition,
		Humidity:       math.Round(current.Humidity),
		WindSpeed:      windKmh,
		IsExtreme:      isExtreme,
		ExtremeMessage: message,
	}
}

type dailyResponse struct {
	Daily *struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		Rain        []float64 `json:"precipitation_sum"`
		HumidityMax []float64 `json:"relative_humidity_2m_max"`
	} `json:"daily"`
}

var shortDays = []string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}

// Forecast fetches a daily forecast. Labels are short Indonesian day
// names.
func (s *Service) Forecast(ctx context.Context, lat, lon float64, days int) []models.DailyForecast {
	if days <= 0 {
		days = 7
	}
	rawURL := fmt.Sprintf(
		"%s/forecast?latitude=%g&longitude=%g&daily=temperature_2m_max,temperature_2m_min,precipitation_sum,relative_humidity_2m_max&timezone=Asia%%2FJakarta&forecast_days=%d",
		s.OpenMeteoBase, lat, lon, days)

	var data dailyResponse
	if err := s.getJSON(ctx, rawURL, &data); err != nil || data.Daily == nil {
		logging.Warnf("weather: forecast fetch failed (%v), using mock data", err)
		return mockForecast()
	}
	daily := data.Daily

	n := days
	if len(daily.Time) < n {
		n = len(daily.Time)
	}
	forecasts := make([]models.DailyForecast, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.Parse("2006-01-02", daily.Time[i])
		if err != nil {
			continue
		}
		forecasts = append(forecasts, models.DailyForecast{
			Name:     shortDays[int(date.Weekday())],
			Temp:     math.Round((at(daily.TempMax, i) + at(daily.TempMin, i)) / 2),
			Rain:     math.Round(at(daily.Rain, i)),
			Humidity: math.Round(at(daily.HumidityMax, i)),
		})
	}
	return forecasts
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

type reverseGeoResponse struct {
	Locality             string `json:"locality"`
	PrincipalSubdivision string `json:"principalSubdivision"`
}

// reverseGeocode resolves coordinates into a "locality, province" label.
func (s *Service) reverseGeocode(ctx context.Context, lat, lon float64) string {
	rawURL := fmt.Sprintf(
		"%s/data/reverse-geocode-client?latitude=%g&longitude=%g&localityLanguage=id",
		s.ReverseGeoBase, lat, lon)

	var geo reverseGeoResponse
	if err := s.getJSON(ctx, rawURL, &geo); err != nil || geo.Locality == "" {
		return "Bandung"
	}
	subdivision := geo.PrincipalSubdivision
	if subdivision == "" {
		subdivision = "Indonesia"
	}
	return fmt.Sprintf("%s, %s", geo.Locality, subdivision)
}

// knownCoords short-circuits geocoding for common locations.
var knownCoords = map[string][2]float64{
	"bandung":     {-6.9175, 107.6191},
	"jakarta":     {-6.2088, 106.8456},
	"surabaya":    {-7.2575, 112.7521},
	"yogyakarta":  {-7.7956, 110.3695},
	"semarang":    {-6.9667, 110.4167},
	"bojongsoang": {-6.9175, 107.6191},
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Address     struct {
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
	} `json:"address"`
}

// Geocode resolves a location name to coordinates. Unknown names fall
// back to Bandung.
func (s *Service) Geocode(ctx context.Context, locationName string) (lat, lon float64) {
	normalized := strings.ToLower(strings.ReplaceAll(locationName, " ", ""))
	if coords, ok := knownCoords[normalized]; ok {
		return coords[0], coords[1]
	}

	rawURL := fmt.Sprintf("%s/search?format=json&q=%s&limit=1",
		s.NominatimBase, url.QueryEscape(locationName))
	var results []nominatimResult
	if err := s.getJSON(ctx, rawURL, &results); err == nil && len(results) > 0 {
		var rLat, rLon float64
		if _, err := fmt.Sscanf(results[0].Lat, "%f", &rLat); err == nil {
			if _, err := fmt.Sscanf(results[0].Lon, "%f", &rLon); err == nil {
				return rLat, rLon
			}
		}
	}
	logging.Warnf("weather: geocoding %q failed, using default coordinates", locationName)
	return -6.9175, 107.6191
}

// LocationSuggestion is one autocomplete entry for the location editor.
type LocationSuggestion struct {
	DisplayName string
	Lat         float64
	Lon         float64
	City        string
	District    string
}

// SearchLocations returns up to five Indonesian location suggestions.
func (s *Service) SearchLocations(ctx context.Context, query string) []LocationSuggestion {
	rawURL := fmt.Sprintf("%s/search?format=json&q=%s&limit=5&countrycodes=id&addressdetails=1",
		s.NominatimBase, url.QueryEscape(query))
	var results []nominatimResult
	if err := s.getJSON(ctx, rawURL, &results); err != nil {
		logging.Warnf("weather: location autocomplete failed: %v", err)
		return nil
	}

	suggestions := make([]LocationSuggestion, 0, len(results))
	for _, item := range results {
		var lat, lon float64
		fmt.Sscanf(item.Lat, "%f", &lat)
		fmt.Sscanf(item.Lon, "%f", &lon)
		city := item.Address.City
		if city == "" {
			city = item.Address.Town
		}
		if city == "" {
			city = item.Address.Village
		}
		district := item.Address.Suburb
		if district == "" {
			district = item.Address.Neighbourhood
		}
		suggestions = append(suggestions, LocationSuggestion{
			DisplayName: item.DisplayName,
			Lat:         lat,
			Lon:         lon,
			City:        city,
			District:    district,
		})
	}
	return suggestions
}

func mockWeather() models.ClimateData {
	return models.ClimateData{
		Location:       "Bojongsoang, Bandung",
		CurrentTemp:    29,
		Condition:      "Cerah Berawan",
		Humidity:       68,
		WindSpeed:      14,
		IsExtreme:      false,
		ExtremeMessage: "Kondisi optimal untuk fotosintesis tanaman sorghum.",
	}
}

func mockForecast() []models.DailyForecast {
	return []models.DailyForecast{
		{Name: "Sen", Temp: 28, Rain: 0, Humidity: 65},
		{Name: "Sel", Temp: 29, Rain: 5, Humidity: 70},
		{Name: "Rab", Temp: 27, Rain: 10, Humidity: 75},
		{Name: "Kam", Temp: 30, Rain: 0, Humidity: 60},
		{Name: "Jum", Temp: 29, Rain: 2, Humidity: 68},
		{Name: "Sab", Temp: 28, Rain: 0, Humidity: 65},
		{Name: "Min", Temp: 27, Rain: 8, Humidity: 72},
	}
}
