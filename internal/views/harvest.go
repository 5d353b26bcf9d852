package views

import (
	"sync"

	"soraifarm/internal/harvest"
	"soraifarm/internal/models"
)

// HarvestView recomputes the yield estimate on every input change. The
// calculation is pure and local; nothing is persisted.
type HarvestView struct {
	lifecycle
	deps Deps

	mu     sync.Mutex
	Result *models.HarvestResult
	Err    string
}

// HarvestForm holds the raw field values. Each accepts an arithmetic
// expression.
type HarvestForm struct {
	LandSize         string
	PlantingDistance string
	Productivity     string
}

func NewHarvestView(deps Deps) *HarvestView {
	return &HarvestView{deps: deps}
}

func (v *HarvestView) Mount()   { v.mount() }
func (v *HarvestView) Unmount() { v.unmount() }

// Recalculate parses the form and updates the estimate. Invalid input
// clears the result and keeps the first field error.
func (v *HarvestView) Recalculate(form HarvestForm) {
	landSize, err := ParsePositive(form.LandSize)
	if err == nil {
		var distance float64
		distance, err = ParsePositive(form.PlantingDistance)
		if err == nil {
			var productivity float64
			productivity, err = ParsePositive(form.Productivity)
			if err == nil {
				result := harvest.Calculate(landSize, distance, productivity)
				v.mu.Lock()
				v.Result = &result
				v.Err = ""
				v.mu.Unlock()
				return
			}
		}
	}

	v.mu.Lock()
	v.Result = nil
	v.Err = err.Error()
	v.mu.Unlock()
}

// Snapshot returns the latest estimate, or the field error.
func (v *HarvestView) Snapshot() (*models.HarvestResult, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Result, v.Err
}
