// Package views holds one controller per screen. Controllers fetch on
// mount, keep their full dataset for client-side filtering, and apply
// remote responses only when they are still the freshest request for a
// still-mounted view.
package views

import (
	"sync"

	"soraifarm/internal/apiclient"
	"soraifarm/internal/gemini"
	"soraifarm/internal/navigation"
	"soraifarm/internal/session"
	"soraifarm/internal/weather"
)

// Deps bundles the collaborators every controller is constructed with.
type Deps struct {
	API      *apiclient.Client
	AI       *gemini.Service
	Weather  *weather.Service
	Session  *session.Store
	Nav      *navigation.Controller
	Notifier Notifier
}

// lifecycle tracks mount state and a fetch generation per resource.
// A response is applied only while the view is mounted AND no newer
// request for the same resource has started since.
type lifecycle struct {
	mu      sync.Mutex
	mounted bool
	gen     map[string]uint64
}

func (l *lifecycle) mount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mounted = true
	if l.gen == nil {
		l.gen = make(map[string]uint64)
	}
}

func (l *lifecycle) unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mounted = false
}

// begin starts a new fetch for the named resource and returns its
// generation token.
func (l *lifecycle) begin(resource string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen == nil {
		l.gen = make(map[string]uint64)
	}
	l.gen[resource]++
	return l.gen[resource]
}

// current reports whether token is still the latest fetch for the
// resource on a mounted view.
func (l *lifecycle) current(resource string, token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted && l.gen[resource] == token
}
