// Package pricing computes cost-plus (HPP) selling prices for processed
// sorghum products.
package pricing

// Costs are the production inputs in Rupiah.
type Costs struct {
	Raw         float64
	Packaging   float64
	Operational float64
}

// Result is the cost breakdown for one production batch.
type Result struct {
	TotalCost     float64
	CostPerUnit   float64
	SellingPrice  float64
	ProfitPerUnit float64
}

// Calculate derives the per-unit cost and the margin-based selling price.
// A non-positive unit count produces a zero per-unit breakdown.
func Calculate(costs Costs, units int, marginPercent float64) Result {
	total := costs.Raw + costs.Packaging + costs.Operational
	if units <= 0 {
		return Result{TotalCost: total}
	}

	perUnit := total / float64(units)
	selling := perUnit * (1 + marginPercent/100)
	return Result{
		TotalCost:     total,
		CostPerUnit:   perUnit,
		SellingPrice:  selling,
		ProfitPerUnit: selling - perUnit,
	}
}
