package views

import (
	"context"
	"sync"

	"soraifarm/internal/apiclient"
	"soraifarm/internal/logging"
	"soraifarm/internal/models"
)

// PlantingView manages the registered plots and the AI suitability
// assessment for a new one.
type PlantingView struct {
	lifecycle
	deps Deps

	mu         sync.Mutex
	Lands      []apiclient.Land
	Assessment *models.PlantingRecommendation
	Analyzing  bool
	Message    string
}

// LandForm is the input for a new plot. Area accepts arithmetic
// expressions, e.g. "50*20".
type LandForm struct {
	Name     string
	Area     string
	SoilType string
	Variety  string
	PH       float64
	Moisture float64
}

func NewPlantingView(deps Deps) *PlantingView {
	return &PlantingView{deps: deps}
}

func (v *PlantingView) Unmount() { v.unmount() }

func (v *PlantingView) Mount(ctx context.Context) {
	v.mount()
	v.fetchLands()
}

func (v *PlantingView) fetchLands() {
	user := v.deps.Session.Current()
	if user == nil {
		return
	}
	token := v.begin("lands")
	go func() {
		lands, err := v.deps.API.ListLands(user.ID)
		if err != nil {
			logging.Warnf("planting: land list fetch failed: %v", err)
			return
		}
		if !v.current("lands", token) {
			return
		}
		v.mu.Lock()
		v.Lands = lands
		v.mu.Unlock()
	}()
}

// Analyze asks the AI for a suitability assessment of the form's soil and
// variety at the user's location.
func (v *PlantingView) Analyze(ctx context.Context, form LandForm) {
	if form.SoilType == "" || form.Variety == "" {
		v.setMessage("Jenis tanah dan varietas wajib diisi")
		return
	}
	token := v.begin("assessment")
	v.mu.Lock()
	v.Analyzing = true
	v.mu.Unlock()

	location := "Bandung"
	if user := v.deps.Session.Current(); user != nil && user.Location != "" {
		location = user.Location
	}

	go func() {
		rec := v.deps.AI.PlantingRecommendation(ctx, location, form.SoilType, form.Variety)
		if !v.current("assessment", token) {
			return
		}
		v.mu.Lock()
		v.Assessment = &rec
		v.Analyzing = false
		v.mu.Unlock()
	}()
}

// SaveLand persists the assessed plot. The assessment steps travel with
// the record as its recommendation.
func (v *PlantingView) SaveLand(form LandForm) error {
	user := v.deps.Session.Current()
	if user == nil {
		v.setMessage("Sesi berakhir, silakan login ulang")
		return nil
	}
	area, err := ParsePositive(form.Area)
	if err != nil {
		v.setMessage(err.Error())
		return err
	}

	input := apiclient.LandInput{
		UserID:   user.ID,
		Name:     form.Name,
		Area:     area,
		SoilType: form.SoilType,
		Variety:  form.Variety,
		Status:   "Siap Tanam",
		PH:       form.PH,
		Moisture: form.Moisture,
	}
	v.mu.Lock()
	if v.Assessment != nil {
		input.SuitabilityScore = v.Assessment.Suitability
		input.RecommendationSteps = v.Assessment.Steps
	}
	v.mu.Unlock()

	if _, err := v.deps.API.CreateLand(input); err != nil {
		v.setMessage(err.Error())
		return err
	}
	v.setMessage("Lahan berhasil disimpan")
	v.fetchLands()
	return nil
}

// DeleteLand removes a plot and refreshes the list.
func (v *PlantingView) DeleteLand(id int64) error {
	if err := v.deps.API.DeleteLand(id); err != nil {
		v.setMessage(err.Error())
		return err
	}
	v.fetchLands()
	return nil
}

func (v *PlantingView) setMessage(msg string) {
	v.mu.Lock()
	v.Message = msg
	v.mu.Unlock()
}

// Snapshot returns the plots and the latest assessment.
func (v *PlantingView) Snapshot() ([]apiclient.Land, *models.PlantingRecommendation) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Lands, v.Assessment
}
