package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testService(handler http.Handler) (*Service, func()) {
	srv := httptest.NewServer(handler)
	s := NewService()
	s.OpenMeteoBase = srv.URL
	s.ReverseGeoBase = srv.URL
	s.NominatimBase = srv.URL
	return s, srv.Close
}

func TestCurrentMapsWeatherCodes(t *testing.T) {
	cases := []struct {
		name          string
		body          string
		wantCondition string
		wantExtreme   bool
	}{
		{
			name:          "clear sky",
			body:          `{"current":{"temperature_2m":30.4,"relative_humidity_2m":58.2,"weather_code":0,"wind_speed_10m":3.0}}`,
			wantCondition: "Cerah",
		},
		{
			name:          "partly cloudy",
			body:          `{"current":{"temperature_2m":28.0,"relative_humidity_2m":70.0,"weather_code":2,"wind_speed_10m":2.0}}`,
			wantCondition: "Cerah Berawan",
		},
		{
			name:          "fog",
			body:          `{"current":{"temperature_2m":22.0,"relative_humidity_2m":95.0,"weather_code":45,"wind_speed_10m":1.0}}`,
			wantCondition: "Berkabut",
		},
		{
			name:          "drizzle",
			body:          `{"current":{"temperature_2m":25.0,"relative_humidity_2m":88.0,"weather_code":55,"wind_speed_10m":2.0}}`,
			wantCondition: "Hujan",
		},
		{
			name:          "heavy showers",
			body:          `{"current":{"temperature_2m":24.0,"relative_humidity_2m":92.0,"weather_code":81,"wind_speed_10m":4.0}}`,
			wantCondition: "Hujan Lebat",
			wantExtreme:   true,
		},
		{
			name:          "thunderstorm",
			body:          `{"current":{"temperature_2m":23.0,"relative_humidity_2m":94.0,"weather_code":95,"wind_speed_10m":5.0}}`,
			wantCondition: "Badai Petir",
			wantExtreme:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, done := testService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.Contains(r.URL.Path, "reverse-geocode") {
					w.Write([]byte(`{"locality":"Bojongsoang","principalSubdivision":"Jawa Barat"}`))
					return
				}
				w.Write([]byte(tc.body))
			}))
			defer done()

			data := s.Current(context.Background(), -6.9175, 107.6191)
			if data.Condition != tc.wantCondition {
				t.Errorf("condition = %q, want %q", data.Condition, tc.wantCondition)
			}
			if data.IsExtreme != tc.wantExtreme {
				t.Errorf("isExtreme = %v, want %v", data.IsExtreme, tc.wantExtreme)
			}
			if data.Location != "Bojongsoang, Jawa Barat" {
				t.Errorf("location = %q", data.Location)
			}
		})
	}
}

func TestCurrentWindOverridesExtreme(t *testing.T) {
	// 21 m/s = 75.6 km/h, above the 72 km/h threshold.
	s, done := testService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "reverse-geocode") {
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"current":{"temperature_2m":27.0,"relative_humidity_2m":60.0,"weather_code":1,"wind_speed_10m":21.0}}`))
	}))
	defer done()

	data := s.Current(context.Background(), -6.9, 107.6)
	if !data.IsExtreme {
		t.Error("high wind must flag extreme weather")
	}
	if !strings.Contains(data.ExtremeMessage, "Angin kencang") {
		t.Errorf("message = %q", data.ExtremeMessage)
	}
	if data.WindSpeed != 76 {
		t.Errorf("windSpeed = %v, want 76", data.WindSpeed)
	}
	if data.Location != "Bandung" {
		t.Errorf("failed reverse geocode should default to Bandung, got %q", data.Location)
	}
}

func TestCurrentFallsBackOnServerError(t *testing.T) {
	s, done := testService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer done()

	data := s.Current(context.Background(), -6.9, 107.6)
	if data.Location != "Bojongsoang, Bandung" || data.CurrentTemp != 29 {
		t.Errorf("mock fallback not used: %+v", data)
	}
}

func TestForecastLabelsAndAverages(t *testing.T) {
	// 2026-08-24 is a Monday.
	s, done := testService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{
			"time":["2026-08-24","2026-08-25","2026-08-26"],
			"temperature_2m_max":[31.0,30.0,29.0],
			"temperature_2m_min":[23.0,22.0,21.0],
			"precipitation_sum":[0.0,4.6,12.2],
			"relative_humidity_2m_max":[70.0,75.0,80.0]}}`))
	}))
	defer done()

	forecast := s.Forecast(context.Background(), -6.9, 107.6, 3)
	if len(forecast) != 3 {
		t.Fatalf("len(forecast) = %d", len(forecast))
	}
	if forecast[0].Name != "Sen" || forecast[1].Name != "Sel" || forecast[2].Name != "Rab" {
		t.Errorf("day labels = %q %q %q", forecast[0].Name, forecast[1].Name, forecast[2].Name)
	}
	if forecast[0].Temp != 27 {
		t.Errorf("temp = %v, want mean of max and min", forecast[0].Temp)
	}
	if forecast[2].Rain != 12 {
		t.Errorf("rain = %v, want rounded sum", forecast[2].Rain)
	}
}

func TestForecastTruncatedArraysDoNotPanic(t *testing.T) {
	// The provider sends three dates but only one temperature entry.
	s, done := testService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{
			"time":["2026-08-24","2026-08-25","2026-08-26"],
			"temperature_2m_max":[31.0],
			"temperature_2m_min":[23.0],
			"precipitation_sum":[],
			"relative_humidity_2m_max":[70.0]}}`))
	}))
	defer done()

	forecast := s.Forecast(context.Background(), -6.9, 107.6, 3)
	if len(forecast) != 3 {
		t.Fatalf("len(forecast) = %d", len(forecast))
	}
	if forecast[0].Temp != 27 {
		t.Errorf("temp = %v, want mean of max and min", forecast[0].Temp)
	}
	if forecast[1].Temp != 0 || forecast[2].Rain != 0 {
		t.Errorf("missing entries should read as zero: %+v", forecast[1:])
	}
}

func TestForecastFallsBackToMock(t *testing.T) {
	s, done := testService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":true}`))
	}))
	defer done()

	forecast := s.Forecast(context.Background(), -6.9, 107.6, 7)
	if len(forecast) != 7 || forecast[0].Name != "Sen" {
		t.Errorf("mock forecast not used: %+v", forecast)
	}
}

func TestGeocodeKnownCities(t *testing.T) {
	s := NewService() // no server needed, lookup table short-circuits

	lat, lon := s.Geocode(context.Background(), "Jakarta")
	if lat != -6.2088 || lon != 106.8456 {
		t.Errorf("jakarta = %v, %v", lat, lon)
	}
	lat, lon = s.Geocode(context.Background(), "BOJONG SOANG")
	if lat != -6.9175 {
		t.Errorf("normalization failed, lat = %v", lat)
	}
}

func TestGeocodeViaNominatim(t *testing.T) {
	s, done := testService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Garut" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`[{"display_name":"Garut, Jawa Barat","lat":"-7.2279","lon":"107.9087"}]`))
	}))
	defer done()

	lat, lon := s.Geocode(context.Background(), "Garut")
	if lat != -7.2279 || lon != 107.9087 {
		t.Errorf("garut = %v, %v", lat, lon)
	}
}

func TestSearchLocations(t *testing.T) {
	s, done := testService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "SorAiFarm App" {
			t.Errorf("user-agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`[{"display_name":"Lembang, Bandung Barat","lat":"-6.8118","lon":"107.6172",
			"address":{"town":"Lembang","suburb":"Gudangkahuripan"}}]`))
	}))
	defer done()

	suggestions := s.SearchLocations(context.Background(), "Lembang")
	if len(suggestions) != 1 {
		t.Fatalf("len = %d", len(suggestions))
	}
	if suggestions[0].City != "Lembang" || suggestions[0].District != "Gudangkahuripan" {
		t.Errorf("suggestion = %+v", suggestions[0])
	}
}
