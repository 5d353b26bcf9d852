package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"soraifarm/internal/logging"
	"soraifarm/internal/models"
)

// ClimatePeriod selects the forecast granularity.
type ClimatePeriod string

const (
	PeriodDaily   ClimatePeriod = "daily"
	PeriodWeekly  ClimatePeriod = "weekly"
	PeriodMonthly ClimatePeriod = "monthly"
)

var climateSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"location":       {Type: genai.TypeString},
		"currentTemp":    {Type: genai.TypeNumber},
		"condition":      {Type: genai.TypeString},
		"humidity":       {Type: genai.TypeNumber},
		"windSpeed":      {Type: genai.TypeNumber},
		"isExtreme":      {Type: genai.TypeBoolean},
		"extremeMessage": {Type: genai.TypeString},
		"recommendation": {Type: genai.TypeString},
		"forecast": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     {Type: genai.TypeString},
					"temp":     {Type: genai.TypeNumber},
					"rain":     {Type: genai.TypeNumber},
					"humidity": {Type: genai.TypeNumber},
				},
			},
		},
	},
}

// ClimateAnalysis asks for simulated current conditions plus a forecast
// for the location. On failure the offline dataset is returned.
func (s *Service) ClimateAnalysis(ctx context.Context, location string, period ClimatePeriod) models.ClimateData {
	var timePrompt string
	switch period {
	case PeriodDaily:
		timePrompt = "prakiraan cuaca per 3 jam untuk 24 jam ke depan (format jam: 06:00, 09:00, dst)"
	case PeriodMonthly:
		timePrompt = "prakiraan cuaca ringkasan per minggu untuk 4 minggu ke depan (Week 1, Week 2, dst)"
	default:
		timePrompt = "prakiraan cuaca harian untuk 7 hari ke depan (nama hari singkatan Indonesia)"
	}

	prompt := fmt.Sprintf(`Berikan data cuaca real-time (simulasi realistis berdasarkan iklim Indonesia saat ini) untuk lokasi: %s.
Sertakan suhu saat ini, kondisi (Cerah/Hujan/Mendung), kelembapan (%%), kecepatan angin (km/jam), status peringatan ekstrem (boolean).

FIELD 'extremeMessage': WAJIB memberikan analisis singkat mengenai dampak cuaca ini terhadap tanaman SORGUM, khususnya kewaspadaan jelang panen.
- Jika aman: "Cuaca relatif aman. Kondisi cerah mendukung pengeringan biji sorgum dan persiapan panen."
- Jika hujan: "Waspada hujan intensitas tinggi, tunda panen untuk menghindari biji sorgum jamuran atau tumbuh tunas di malai."
- Jika angin: "Waspada angin kencang berisiko merobohkan tanaman sorgum yang tinggi."

PENTING: Berikan data 'forecast' yang berisi %s. Setiap item forecast harus memiliki: name (label waktu), temp (suhu), rain (peluang hujan %%), dan humidity (kelembapan %%).`,
		location, timePrompt)

	text, err := s.generateJSON(ctx, "climate", prompt, climateSchema)
	if err == nil {
		var data models.ClimateData
		if jsonErr := json.Unmarshal([]byte(text), &data); jsonErr == nil {
			return data
		}
		err = fmt.Errorf("malformed climate payload")
	}
	logging.Warnf("climate: %v, using offline fallback", err)
	return fallbackClimate(location)
}

func fallbackClimate(location string) models.ClimateData {
	return models.ClimateData{
		Location:       location,
		CurrentTemp:    29,
		Condition:      "Cerah Berawan",
		Humidity:       70,
		WindSpeed:      10,
		IsExtreme:      false,
		ExtremeMessage: "Cuaca relatif aman. Kelembapan terjaga, baik untuk fase pengisian biji sorgum.",
		Recommendation: "Lanjutkan pemantauan rutin.",
		Forecast: []models.DailyForecast{
			{Name: "Sen", Temp: 29, Rain: 20, Humidity: 65},
			{Name: "Sel", Temp: 28, Rain: 40, Humidity: 70},
			{Name: "Rab", Temp: 27, Rain: 60, Humidity: 75},
			{Name: "Kam", Temp: 28, Rain: 30, Humidity: 68},
			{Name: "Jum", Temp: 29, Rain: 10, Humidity: 60},
			{Name: "Sab", Temp: 30, Rain: 0, Humidity: 55},
			{Name: "Min", Temp: 29, Rain: 10, Humidity: 62},
		},
	}
}
