package views

import (
	"context"
	"sync"

	"soraifarm/internal/gemini"
	"soraifarm/internal/models"
)

// ClimateView shows the AI climate analysis with a selectable forecast
// period. Switching tabs starts a fresh fetch; a response belonging to a
// previous tab is discarded.
type ClimateView struct {
	lifecycle
	deps Deps

	mu      sync.Mutex
	Period  gemini.ClimatePeriod
	Data    models.ClimateData
	Loading bool
}

func NewClimateView(deps Deps) *ClimateView {
	return &ClimateView{deps: deps, Period: gemini.PeriodWeekly}
}

func (v *ClimateView) Unmount() { v.unmount() }

func (v *ClimateView) Mount(ctx context.Context) {
	v.mount()
	v.fetch(ctx)
}

// SetPeriod switches the forecast granularity and refetches.
func (v *ClimateView) SetPeriod(ctx context.Context, period gemini.ClimatePeriod) {
	v.mu.Lock()
	v.Period = period
	v.mu.Unlock()
	v.fetch(ctx)
}

func (v *ClimateView) fetch(ctx context.Context) {
	token := v.begin("climate")
	v.mu.Lock()
	v.Loading = true
	period := v.Period
	v.mu.Unlock()

	location := "Bandung"
	if user := v.deps.Session.Current(); user != nil && user.Location != "" {
		location = user.Location
	}

	go func() {
		data := v.deps.AI.ClimateAnalysis(ctx, location, period)
		if !v.current("climate", token) {
			return
		}
		v.mu.Lock()
		v.Data = data
		v.Loading = false
		v.mu.Unlock()
	}()
}

// Snapshot returns the current analysis for rendering.
func (v *ClimateView) Snapshot() (models.ClimateData, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Data, v.Loading
}
