package views

import (
	"context"
	"sync"

	"soraifarm/internal/apiclient"
	"soraifarm/internal/chart"
	"soraifarm/internal/logging"
	"soraifarm/internal/models"
	"soraifarm/internal/navigation"
	"soraifarm/internal/weather"
)

// HomeView is the dashboard: current weather, a 7-day price chart and the
// most viewed recipes. Each resource has its own fetch generation, so a
// location change mid-flight cannot paint stale weather.
type HomeView struct {
	lifecycle
	deps Deps

	mu             sync.Mutex
	Climate        models.ClimateData
	Chart          []models.ChartPoint
	PopularRecipes []apiclient.Recipe
	WeatherLoading bool
}

func NewHomeView(deps Deps) *HomeView {
	return &HomeView{deps: deps}
}

func (v *HomeView) Unmount() { v.unmount() }

// Mount kicks off the weather, chart and recipe fetches.
func (v *HomeView) Mount(ctx context.Context) {
	v.mount()

	location := "Bojongsoang, Bandung"
	if user := v.deps.Session.Current(); user != nil && user.Location != "" {
		location = user.Location
	}
	v.FetchWeather(ctx, location)
	v.fetchChart(ctx)
	v.fetchPopularRecipes(ctx)
}

// FetchWeather resolves the location and loads current conditions plus
// the 7-day forecast. An extreme reading raises a notification.
func (v *HomeView) FetchWeather(ctx context.Context, location string) {
	token := v.begin("weather")
	v.mu.Lock()
	v.WeatherLoading = true
	v.mu.Unlock()

	go func() {
		lat, lon := v.deps.Weather.Geocode(ctx, location)
		climate := v.deps.Weather.Current(ctx, lat, lon)
		climate.Location = location
		climate.Forecast = v.deps.Weather.Forecast(ctx, lat, lon, 7)

		if !v.current("weather", token) {
			return
		}
		v.mu.Lock()
		v.Climate = climate
		v.WeatherLoading = false
		v.mu.Unlock()

		if climate.IsExtreme && v.deps.Notifier != nil {
			v.deps.Notifier.Notify("Peringatan Cuaca", climate.ExtremeMessage)
		}
	}()
}

func (v *HomeView) fetchChart(ctx context.Context) {
	token := v.begin("chart")
	go func() {
		rows, err := v.deps.API.MarketData("Bandung", "Sorghum", 7)
		if err != nil {
			logging.Warnf("home: chart fetch failed, using generated series: %v", err)
			rows = nil
		}
		points := chart.FromAPIRows(rows, 7)

		if !v.current("chart", token) {
			return
		}
		v.mu.Lock()
		v.Chart = points
		v.mu.Unlock()
	}()
}

func (v *HomeView) fetchPopularRecipes(ctx context.Context) {
	token := v.begin("recipes")
	go func() {
		recipes, err := v.deps.API.ListRecipes("", true)
		if err != nil {
			logging.Warnf("home: popular recipes fetch failed: %v", err)
			return
		}
		if len(recipes) > 3 {
			recipes = recipes[:3]
		}
		if !v.current("recipes", token) {
			return
		}
		v.mu.Lock()
		v.PopularRecipes = recipes
		v.mu.Unlock()
	}()
}

// SetLocation persists the new location on the whole session record and
// refetches the weather for it.
func (v *HomeView) SetLocation(ctx context.Context, location string) {
	v.deps.Session.Update(func(u *models.User) { u.Location = location })
	v.FetchWeather(ctx, location)
}

// SearchLocations proxies the autocomplete lookup for the location editor.
func (v *HomeView) SearchLocations(ctx context.Context, query string) []weather.LocationSuggestion {
	return v.deps.Weather.SearchLocations(ctx, query)
}

// OpenRecipe stashes the recipe id for the recipes view and navigates
// there.
func (v *HomeView) OpenRecipe(id int64) {
	v.deps.Session.SetSelectedRecipe(id)
	v.deps.Nav.Navigate(navigation.ScreenRecipes)
}

// Snapshot returns a copy of the dashboard state for rendering.
func (v *HomeView) Snapshot() (models.ClimateData, []models.ChartPoint, []apiclient.Recipe) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Climate, v.Chart, v.PopularRecipes
}
