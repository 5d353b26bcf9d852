// Package market synthesizes the daily price/volume records served by the
// market endpoint. The synthesis is deterministic per calendar date so the
// series is stable across requests within a day and rolls forward as days
// pass.
package market

import (
	"fmt"
	"math"
	"time"

	"soraifarm/internal/models"
)

var monthNames = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

func basePrice(product string) float64 {
	switch product {
	case "Sorghum Flour":
		return 18000
	case "Sorghum Beras":
		return 20000
	default:
		return 15000
	}
}

func locationMultiplier(location string) float64 {
	switch location {
	case "Jakarta":
		return 1.2
	case "Surabaya":
		return 1.1
	case "Yogyakarta":
		return 0.95
	default:
		return 1.0
	}
}

// DailyData returns days records ending today, one per calendar date.
func DailyData(location, product string, days int) []models.MarketRecord {
	return dailyDataAt(time.Now(), location, product, days)
}

func dailyDataAt(now time.Time, location, product string, days int) []models.MarketRecord {
	base := basePrice(product)
	locMult := locationMultiplier(location)

	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	records := make([]models.MarketRecord, 0, days)

	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		year := date.Year()
		month := int(date.Month())
		day := date.Day()

		// Stable per-date seed.
		seed := (year*10000 + month*100 + day) % 100

		monthIdx := float64(month - 1)
		baseMultiplier := 0.95 + monthIdx*0.002
		dailyVariation := float64(day) / 30 * 0.01
		deterministicVariation := (float64(seed)/100 - 0.5) * 0.02
		priceMultiplier := baseMultiplier * (1 + dailyVariation + deterministicVariation)
		averagePrice := math.Round(base * locMult * priceMultiplier)

		volumeBase := 4.0 + monthIdx*0.1
		volumeVariation := float64(day) / 30 * 0.2
		deterministicVolume := (float64(seed)/100 - 0.5) * 0.3
		salesVolume := math.Round((volumeBase+volumeVariation+deterministicVolume)*10) / 10

		records = append(records, models.MarketRecord{
			Date:         fmt.Sprintf("%04d-%02d-%02d", year, month, day),
			Day:          day,
			Month:        monthNames[month-1],
			Year:         year,
			AveragePrice: averagePrice,
			SalesVolume:  salesVolume,
			Location:     location,
			Product:      product,
		})
	}
	return records
}
