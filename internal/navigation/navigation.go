// Package navigation owns the visible screen and the back stack.
package navigation

import "sync"

// Screen identifies a full-page view.
type Screen int

const (
	ScreenSplash Screen = iota
	ScreenAuth
	ScreenHome
	ScreenClimate
	ScreenPlanting
	ScreenHarvest
	ScreenEducation
	ScreenRecipes
	ScreenHpp
	ScreenMarket
	ScreenProfile
	ScreenSettings
)

var screenNames = map[Screen]string{
	ScreenSplash:    "SPLASH",
	ScreenAuth:      "AUTH",
	ScreenHome:      "HOME",
	ScreenClimate:   "CLIMATE",
	ScreenPlanting:  "PLANTING",
	ScreenHarvest:   "HARVEST",
	ScreenEducation: "EDUCATION",
	ScreenRecipes:   "RECIPES",
	ScreenHpp:       "HPP",
	ScreenMarket:    "MARKET",
	ScreenProfile:   "PROFILE",
	ScreenSettings:  "SETTINGS",
}

func (s Screen) String() string { return screenNames[s] }

// Chrome describes the header/footer decoration for a screen.
type Chrome struct {
	Title         string
	ShowBack      bool
	ShowBottomNav bool
}

var headerTitles = map[Screen]string{
	ScreenHome:      "SorAiFarm",
	ScreenPlanting:  "Planting Recommendations",
	ScreenHarvest:   "Harvest Estimator",
	ScreenEducation: "Education & Cultivation",
	ScreenRecipes:   "Recipes & Innovation",
	ScreenMarket:    "Market Analysis",
	ScreenProfile:   "Profile",
	ScreenSettings:  "Pengaturan",
	ScreenHpp:       "HPP Calculator",
}

// ChromeFor is a pure mapping from screen to chrome. The back affordance is
// hidden only on the two bootstrap screens; the bottom tab bar appears only
// on the five primary screens.
func ChromeFor(s Screen) Chrome {
	return Chrome{
		Title:    headerTitles[s],
		ShowBack: s != ScreenSplash && s != ScreenAuth,
		ShowBottomNav: s == ScreenHome || s == ScreenPlanting ||
			s == ScreenEducation || s == ScreenRecipes || s == ScreenMarket,
	}
}

// Controller is the single source of truth for the current screen and how
// to get back. Navigation state is volatile; a fresh process starts at
// Splash and the session bootstrap decides where to go from there.
type Controller struct {
	mu      sync.Mutex
	current Screen
	history []Screen

	// onNavigate lets the host reset scroll position on forward navigation.
	onNavigate func(Screen)
}

// New returns a controller positioned on Splash.
func New() *Controller {
	return &Controller{current: ScreenSplash}
}

// SetNavigateHook registers the host callback fired after every forward
// navigation.
func (c *Controller) SetNavigateHook(fn func(Screen)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onNavigate = fn
}

// Current returns the visible screen.
func (c *Controller) Current() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// HistoryLen reports the back-stack depth.
func (c *Controller) HistoryLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}

// Navigate pushes the current screen onto the history and shows next.
// Revisiting the same screen pushes a duplicate entry on purpose: it lets
// A-B-A-B chains unwind step by step.
func (c *Controller) Navigate(next Screen) {
	c.mu.Lock()
	c.history = append(c.history, c.current)
	c.current = next
	hook := c.onNavigate
	c.mu.Unlock()

	if hook != nil {
		hook(next)
	}
}

// GoBack pops the last history entry. An empty history falls back to Home
// instead of failing; back navigation is never a dead end, even though that
// means the boundary step is not stack-correct.
func (c *Controller) GoBack() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.history); n > 0 {
		c.current = c.history[n-1]
		c.history = c.history[:n-1]
	} else {
		c.current = ScreenHome
	}
	return c.current
}

// Reset clears the history and jumps to screen. Used at boot and on logout.
func (c *Controller) Reset(screen Screen) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = screen
	c.history = c.history[:0]
}
