package views

import (
	"context"
	"sync"

	"soraifarm/internal/chart"
	"soraifarm/internal/logging"
	"soraifarm/internal/models"
)

// MarketRange selects the chart span on the market screen.
type MarketRange int

const (
	RangeWeekly  MarketRange = 7
	RangeMonthly MarketRange = 30
)

// MarketView shows the synthesized price/volume chart for a product and
// location plus the AI market intelligence report. Tab switches refetch;
// only the newest response is painted.
type MarketView struct {
	lifecycle
	deps Deps

	mu       sync.Mutex
	Range    MarketRange
	Product  string
	Location string
	Chart    []models.ChartPoint
	Insight  *models.MarketInsight
	Loading  bool
}

func NewMarketView(deps Deps) *MarketView {
	return &MarketView{
		deps:     deps,
		Range:    RangeWeekly,
		Product:  "Sorghum",
		Location: "Bandung",
	}
}

func (v *MarketView) Unmount() { v.unmount() }

func (v *MarketView) Mount(ctx context.Context) {
	v.mount()
	v.fetchChart()
}

// SetRange switches between the weekly and monthly chart.
func (v *MarketView) SetRange(r MarketRange) {
	v.mu.Lock()
	v.Range = r
	v.mu.Unlock()
	v.fetchChart()
}

// SetProduct switches the charted commodity.
func (v *MarketView) SetProduct(product string) {
	v.mu.Lock()
	v.Product = product
	v.mu.Unlock()
	v.fetchChart()
}

func (v *MarketView) fetchChart() {
	token := v.begin("chart")
	v.mu.Lock()
	days := int(v.Range)
	product := v.Product
	location := v.Location
	v.Loading = true
	v.mu.Unlock()

	go func() {
		rows, err := v.deps.API.MarketData(location, product, days)
		if err != nil {
			logging.Warnf("market: chart fetch failed, using generated series: %v", err)
			rows = nil
		}
		points := chart.FromAPIRows(rows, days)

		if !v.current("chart", token) {
			return
		}
		v.mu.Lock()
		v.Chart = points
		v.Loading = false
		v.mu.Unlock()
	}()
}

// FetchInsight loads the AI market intelligence report.
func (v *MarketView) FetchInsight(ctx context.Context) {
	token := v.begin("insight")
	v.mu.Lock()
	product := v.Product
	location := v.Location
	v.mu.Unlock()

	go func() {
		insight := v.deps.AI.MarketInsight(ctx, product, location)
		if !v.current("insight", token) {
			return
		}
		v.mu.Lock()
		v.Insight = &insight
		v.mu.Unlock()
	}()
}

// Snapshot returns the chart and report for rendering.
func (v *MarketView) Snapshot() ([]models.ChartPoint, *models.MarketInsight) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Chart, v.Insight
}
