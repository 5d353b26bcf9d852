package views

import "soraifarm/internal/navigation"

// SettingsView holds the logout action. Logging out clears the session
// and resets navigation to the auth screen with an empty back stack.
type SettingsView struct {
	lifecycle
	deps Deps
}

func NewSettingsView(deps Deps) *SettingsView {
	return &SettingsView{deps: deps}
}

func (v *SettingsView) Mount()   { v.mount() }
func (v *SettingsView) Unmount() { v.unmount() }

func (v *SettingsView) Logout() {
	v.deps.Session.Logout()
	v.deps.API.SetToken("")
	v.deps.Nav.Reset(navigation.ScreenAuth)
}
