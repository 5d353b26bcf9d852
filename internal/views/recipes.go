package views

import (
	"context"
	"strings"
	"sync"
	"time"

	"soraifarm/internal/apiclient"
	"soraifarm/internal/logging"
	"soraifarm/internal/models"
)

// ReadDwell is how long a recipe must stay open before it counts as a
// view.
const ReadDwell = 180000 * time.Millisecond

// RecipesView lists community recipes with category tabs and search,
// shows a detail page, generates AI recipes and publishes new ones. An
// opened recipe counts as read only after the dwell period, and at most
// once per recipe per session.
type RecipesView struct {
	lifecycle
	deps Deps

	mu       sync.Mutex
	recipes  []apiclient.Recipe
	Category string
	Query    string
	Detail   *apiclient.Recipe
	Message  string

	dwellTimer *time.Timer
	counted    map[int64]bool

	Generated  *models.GeneratedRecipe
	Generating bool

	dwell time.Duration // test hook
}

func NewRecipesView(deps Deps) *RecipesView {
	return &RecipesView{deps: deps, Category: "All", counted: make(map[int64]bool), dwell: ReadDwell}
}

// Mount loads the list and honors a pending handoff from the home view.
func (v *RecipesView) Mount(ctx context.Context) {
	v.mount()
	v.fetchRecipes()
	if id, ok := v.deps.Session.TakeSelectedRecipe(); ok {
		v.Open(ctx, id)
	}
}

// Unmount cancels any running dwell timer so a quick visit never counts
// as a read.
func (v *RecipesView) Unmount() {
	v.stopDwell()
	v.unmount()
}

func (v *RecipesView) fetchRecipes() {
	token := v.begin("recipes")
	go func() {
		recipes, err := v.deps.API.ListRecipes("", false)
		if err != nil {
			logging.Warnf("recipes: list fetch failed: %v", err)
			return
		}
		if !v.current("recipes", token) {
			return
		}
		v.mu.Lock()
		v.recipes = recipes
		v.mu.Unlock()
	}()
}

// SetCategory switches the tab filter.
func (v *RecipesView) SetCategory(category string) {
	v.mu.Lock()
	v.Category = category
	v.mu.Unlock()
}

// SetQuery updates the search query.
func (v *RecipesView) SetQuery(query string) {
	v.mu.Lock()
	v.Query = query
	v.mu.Unlock()
}

// Visible applies the category tab and the search query locally.
func (v *RecipesView) Visible() []apiclient.Recipe {
	v.mu.Lock()
	defer v.mu.Unlock()

	query := strings.ToLower(v.Query)
	out := make([]apiclient.Recipe, 0, len(v.recipes))
	for _, r := range v.recipes {
		if v.Category != "All" && r.Category != v.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(r.Title), query) &&
			!strings.Contains(strings.ToLower(r.Description), query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Open shows the recipe detail and arms the dwell timer. The view
// counter increments only after the dwell elapses, and only the first
// time this recipe is read in this session.
func (v *RecipesView) Open(ctx context.Context, id int64) {
	v.stopDwell()

	token := v.begin("detail")
	go func() {
		recipe, err := v.deps.API.GetRecipe(id)
		if err != nil {
			v.setMessage("Resep tidak ditemukan")
			return
		}
		if !v.current("detail", token) {
			return
		}
		v.mu.Lock()
		v.Detail = recipe
		alreadyCounted := v.counted[id]
		dwell := v.dwell
		if !alreadyCounted {
			v.dwellTimer = time.AfterFunc(dwell, func() { v.countRead(id) })
		}
		v.mu.Unlock()
	}()
}

func (v *RecipesView) countRead(id int64) {
	v.mu.Lock()
	if v.counted[id] {
		v.mu.Unlock()
		return
	}
	v.counted[id] = true
	v.mu.Unlock()

	// A failed increment stays counted locally; the server catches up on
	// the next session.
	_, _ = v.deps.API.IncrementRecipeViews(id)
}

// CloseDetail leaves the detail page and cancels a pending dwell.
func (v *RecipesView) CloseDetail() {
	v.stopDwell()
	v.mu.Lock()
	v.Detail = nil
	v.mu.Unlock()
}

func (v *RecipesView) stopDwell() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.dwellTimer != nil {
		v.dwellTimer.Stop()
		v.dwellTimer = nil
	}
}

// Generate asks the AI chef for a recipe.
func (v *RecipesView) Generate(ctx context.Context, dishName, ingredients, preference string) {
	token := v.begin("generate")
	v.mu.Lock()
	v.Generating = true
	v.mu.Unlock()

	go func() {
		recipe, err := v.deps.AI.GenerateRecipe(ctx, dishName, ingredients, preference)
		if !v.current("generate", token) {
			return
		}
		v.mu.Lock()
		v.Generating = false
		if err != nil {
			v.Message = "Gagal membuat resep AI, coba lagi nanti"
		} else {
			v.Generated = recipe
		}
		v.mu.Unlock()
	}()
}

// Publish uploads the photo (when given) and creates the recipe.
func (v *RecipesView) Publish(input apiclient.RecipeInput, imagePath string) error {
	user := v.deps.Session.Current()
	if user == nil {
		v.setMessage("Sesi berakhir, silakan login ulang")
		return nil
	}
	input.UserID = user.ID

	if imagePath != "" {
		uploaded, err := v.deps.API.UploadRecipeImage(imagePath)
		if err != nil {
			v.setMessage(err.Error())
			return err
		}
		input.ImageURL = uploaded.URL
	}

	if _, err := v.deps.API.CreateRecipe(input); err != nil {
		v.setMessage(err.Error())
		return err
	}
	v.setMessage("Resep berhasil dipublikasikan")
	v.fetchRecipes()
	return nil
}

func (v *RecipesView) setMessage(msg string) {
	v.mu.Lock()
	v.Message = msg
	v.mu.Unlock()
}

// setDwell shortens the dwell period in tests.
func (v *RecipesView) setDwell(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dwell = d
}
