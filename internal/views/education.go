package views

import (
	"context"
	"strings"
	"sync"

	"soraifarm/internal/logging"
	"soraifarm/internal/models"
)

// EducationView lists the seeded library modules with client-side
// category and search filtering, plus the AI cultivation guide for the
// user's location.
type EducationView struct {
	lifecycle
	deps Deps

	mu       sync.Mutex
	modules  []models.EducationModule
	Category string
	Query    string
	Guide    *models.EducationContent
	Loading  bool
}

func NewEducationView(deps Deps) *EducationView {
	return &EducationView{deps: deps, Category: "All"}
}

func (v *EducationView) Unmount() { v.unmount() }

func (v *EducationView) Mount(ctx context.Context) {
	v.mount()
	v.fetchModules()
}

func (v *EducationView) fetchModules() {
	token := v.begin("modules")
	go func() {
		modules, err := v.deps.API.ListEducation()
		if err != nil {
			logging.Warnf("education: module list fetch failed: %v", err)
			return
		}
		if !v.current("modules", token) {
			return
		}
		v.mu.Lock()
		v.modules = modules
		v.mu.Unlock()
	}()
}

// FetchGuide loads the AI cultivation guide for the user's location.
func (v *EducationView) FetchGuide(ctx context.Context) {
	token := v.begin("guide")
	v.mu.Lock()
	v.Loading = true
	v.mu.Unlock()

	location := "Bandung"
	if user := v.deps.Session.Current(); user != nil && user.Location != "" {
		location = user.Location
	}

	go func() {
		guide := v.deps.AI.EducationContent(ctx, location)
		if !v.current("guide", token) {
			return
		}
		v.mu.Lock()
		v.Guide = &guide
		v.Loading = false
		v.mu.Unlock()
	}()
}

// SetCategory switches the tab filter. Filtering happens locally over the
// already fetched set.
func (v *EducationView) SetCategory(category string) {
	v.mu.Lock()
	v.Category = category
	v.mu.Unlock()
}

// SetQuery updates the search query.
func (v *EducationView) SetQuery(query string) {
	v.mu.Lock()
	v.Query = query
	v.mu.Unlock()
}

// Visible applies the category tab and the search query to the full set.
func (v *EducationView) Visible() []models.EducationModule {
	v.mu.Lock()
	defer v.mu.Unlock()

	query := strings.ToLower(v.Query)
	out := make([]models.EducationModule, 0, len(v.modules))
	for _, m := range v.modules {
		if v.Category != "All" && m.Category != v.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(m.Title), query) &&
			!strings.Contains(strings.ToLower(m.Description), query) {
			continue
		}
		out = append(out, m)
	}
	return out
}
