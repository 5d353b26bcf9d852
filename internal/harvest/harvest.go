// Package harvest estimates sorghum yield and gross revenue from land size,
// planting distance and per-plant productivity.
package harvest

import (
	"math"

	"soraifarm/internal/models"
)

// DefaultMarketPrice is the assumed farm-gate price in Rp/kg.
const DefaultMarketPrice = 4500

// MarginError is the documented uncertainty band of the estimate, in tons.
const MarginError = 0.5

// Calculate returns the yield estimate. plantingDistance is the spacing in
// meters between plants; each plant occupies distance squared.
func Calculate(landSize, plantingDistance, productivity float64) models.HarvestResult {
	plantArea := plantingDistance * plantingDistance
	numberOfPlants := 0
	if plantArea > 0 {
		numberOfPlants = int(math.Floor(landSize / plantArea))
	}

	totalYieldKg := float64(numberOfPlants) * productivity
	totalYieldTon := totalYieldKg / 1000
	grossRevenue := totalYieldKg * DefaultMarketPrice

	return models.HarvestResult{
		TotalYield:     round2(totalYieldTon),
		TotalYieldKg:   round2(totalYieldKg),
		NumberOfPlants: numberOfPlants,
		MarketPrice:    DefaultMarketPrice,
		GrossRevenue:   math.Round(grossRevenue),
		MarginError:    MarginError,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
