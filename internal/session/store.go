// Package session owns the authenticated identity: a file-persisted record
// mirrored in memory, with a broadcast to interested views on every change.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"soraifarm/internal/logging"
	"soraifarm/internal/models"
	"soraifarm/internal/navigation"
)

// SplashDelay is how long the splash screen stays up before an
// unauthenticated boot moves on to the auth screen.
const SplashDelay = 2500 * time.Millisecond

// Navigator is the slice of the navigation controller the store needs to
// steer the boot decision.
type Navigator interface {
	Current() navigation.Screen
	Reset(navigation.Screen)
}

// Store is the single owner of the session record. The persisted file and
// the in-memory copy are kept consistent by routing every write through
// Login/Logout/Update, each of which persists and then notifies
// subscribers. A write that skips the broadcast would leave dependent
// chrome (the header avatar) stale.
type Store struct {
	mu   sync.Mutex
	path string
	user *models.User
	subs []func(*models.User)

	splashDelay time.Duration
	splashTimer *time.Timer

	// selectedRecipe is the transient one-shot handoff between the home
	// view and the recipes view. Process-scoped, never persisted.
	selectedRecipe    int64
	hasSelectedRecipe bool
}

// Open loads the persisted session from path. An unreadable or corrupt
// file means "no session", never a failed boot.
func Open(path string) *Store {
	s := &Store{path: path, splashDelay: SplashDelay}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warnf("session: unreadable session file, treating as logged out: %v", err)
		}
		return s
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil || user.ID == 0 {
		logging.Warnf("session: corrupt session file, treating as logged out")
		return s
	}
	s.user = &user
	return s
}

// Bootstrap decides the boot screen: straight to Home when a session was
// restored, otherwise to Auth after the splash delay - unless something
// already navigated away from the splash in the meantime.
func (s *Store) Bootstrap(nav Navigator) {
	s.mu.Lock()
	user := s.user
	delay := s.splashDelay
	s.mu.Unlock()

	if user != nil {
		nav.Reset(navigation.ScreenHome)
		return
	}
	s.mu.Lock()
	s.splashTimer = time.AfterFunc(delay, func() {
		if nav.Current() == navigation.ScreenSplash {
			nav.Reset(navigation.ScreenAuth)
		}
	})
	s.mu.Unlock()
}

// Current returns a copy of the session record, or nil when logged out.
func (s *Store) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether a session record is present.
func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Login stores user as the current session, persists it and notifies
// subscribers. Authentication itself happens elsewhere; this only manages
// the resulting identity.
func (s *Store) Login(user models.User) error {
	s.mu.Lock()
	s.user = &user
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return err
}

// Logout clears the persisted and in-memory record. Idempotent: a second
// call is a no-op and does not re-notify.
func (s *Store) Logout() {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	s.user = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logging.Warnf("session: failed to remove session file: %v", err)
	}
	s.mu.Unlock()

	s.notify()
}

// Update applies mutate to a copy of the full record, replaces the stored
// record with it, persists, and broadcasts - read-modify-write as one step,
// so two views editing different fields in close succession cannot lose
// each other's write mid-flight. Last writer fully wins.
func (s *Store) Update(mutate func(*models.User)) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil
	}
	updated := *s.user
	mutate(&updated)
	s.user = &updated
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return err
}

// Subscribe registers fn to run after every session mutation. fn receives
// a copy of the new record, or nil after logout.
func (s *Store) Subscribe(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(s.user)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(*models.User), len(s.subs))
	copy(subs, s.subs)
	user := s.user
	s.mu.Unlock()

	for _, fn := range subs {
		if user == nil {
			fn(nil)
		} else {
			u := *user
			fn(&u)
		}
	}
}

// SetSelectedRecipe stashes a recipe id for the next view to pick up.
func (s *Store) SetSelectedRecipe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedRecipe = id
	s.hasSelectedRecipe = true
}

// TakeSelectedRecipe returns and clears the stashed recipe id.
func (s *Store) TakeSelectedRecipe() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasSelectedRecipe {
		return 0, false
	}
	s.hasSelectedRecipe = false
	return s.selectedRecipe, true
}

// setSplashDelay shortens the splash timer in tests.
func (s *Store) setSplashDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.splashDelay = d
}
