package views

import (
	"fmt"
	"sync"

	"soraifarm/internal/pricing"
)

// HppView is the cost-of-goods calculator. Like the harvest estimator it
// recomputes locally on every change and persists nothing.
type HppView struct {
	lifecycle
	deps Deps

	mu     sync.Mutex
	Result *pricing.Result
	Err    string
}

// HppForm holds the raw cost fields; each accepts an arithmetic
// expression.
type HppForm struct {
	RawMaterial   string
	Packaging     string
	Operational   string
	Units         string
	MarginPercent string
}

func NewHppView(deps Deps) *HppView {
	return &HppView{deps: deps}
}

func (v *HppView) Mount()   { v.mount() }
func (v *HppView) Unmount() { v.unmount() }

// Recalculate parses the form and updates the pricing breakdown.
func (v *HppView) Recalculate(form HppForm) {
	raw, err := v.parseField("Bahan baku", form.RawMaterial)
	if err != nil {
		v.setError(err)
		return
	}
	pack, err := v.parseField("Kemasan", form.Packaging)
	if err != nil {
		v.setError(err)
		return
	}
	op, err := v.parseField("Operasional", form.Operational)
	if err != nil {
		v.setError(err)
		return
	}
	units, err := ParsePositive(form.Units)
	if err != nil {
		v.setError(fmt.Errorf("Jumlah unit: %v", err))
		return
	}
	margin, err := ParseNumber(form.MarginPercent)
	if err != nil {
		v.setError(fmt.Errorf("Margin: %v", err))
		return
	}

	result := pricing.Calculate(pricing.Costs{
		Raw:         raw,
		Packaging:   pack,
		Operational: op,
	}, int(units), margin)

	v.mu.Lock()
	v.Result = &result
	v.Err = ""
	v.mu.Unlock()
}

func (v *HppView) parseField(label, input string) (float64, error) {
	val, err := ParseNumber(input)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", label, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("%s: nilai tidak boleh negatif", label)
	}
	return val, nil
}

func (v *HppView) setError(err error) {
	v.mu.Lock()
	v.Result = nil
	v.Err = err.Error()
	v.mu.Unlock()
}

// Snapshot returns the latest breakdown, or the field error.
func (v *HppView) Snapshot() (*pricing.Result, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Result, v.Err
}
