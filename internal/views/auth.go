package views

import (
	"fmt"
	"sync"

	"soraifarm/internal/navigation"
)

// AuthView handles login and registration through the API client and
// hands the resulting identity to the session store.
type AuthView struct {
	lifecycle
	deps Deps

	mu      sync.Mutex
	Busy    bool
	Message string
}

func NewAuthView(deps Deps) *AuthView {
	return &AuthView{deps: deps}
}

func (v *AuthView) Mount()   { v.mount() }
func (v *AuthView) Unmount() { v.unmount() }

// Login authenticates and, on success, resets navigation to Home.
func (v *AuthView) Login(email, password string) error {
	if email == "" || password == "" {
		return v.fail("Email dan password wajib diisi")
	}
	v.setBusy(true)
	defer v.setBusy(false)

	result, err := v.deps.API.Login(email, password)
	if err != nil {
		return v.fail(err.Error())
	}
	if err := v.deps.Session.Login(result.User); err != nil {
		return v.fail("Gagal menyimpan sesi")
	}
	v.deps.Nav.Reset(navigation.ScreenHome)
	return nil
}

// Register creates an account and logs in in one step, like the original
// registration flow.
func (v *AuthView) Register(email, password, fullName string) error {
	if email == "" || password == "" || fullName == "" {
		return v.fail("Semua field wajib diisi")
	}
	v.setBusy(true)
	defer v.setBusy(false)

	result, err := v.deps.API.Register(email, password, fullName)
	if err != nil {
		return v.fail(err.Error())
	}
	if err := v.deps.Session.Login(result.User); err != nil {
		return v.fail("Gagal menyimpan sesi")
	}
	v.deps.Nav.Reset(navigation.ScreenHome)
	return nil
}

func (v *AuthView) fail(msg string) error {
	v.mu.Lock()
	v.Message = msg
	v.mu.Unlock()
	return fmt.Errorf("%s", msg)
}

func (v *AuthView) setBusy(b bool) {
	v.mu.Lock()
	v.Busy = b
	v.mu.Unlock()
}
