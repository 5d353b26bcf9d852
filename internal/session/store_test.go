package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soraifarm/internal/models"
	"soraifarm/internal/navigation"
)

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestLoginRoundTrip(t *testing.T) {
	path := sessionPath(t)

	s := Open(path)
	require.False(t, s.LoggedIn())
	require.NoError(t, s.Login(models.User{ID: 1, Email: "a@b.com"}))

	// A fresh bootstrap re-reads the persisted record.
	restored := Open(path)
	require.True(t, restored.LoggedIn())
	assert.Equal(t, int64(1), restored.Current().ID)
	assert.Equal(t, "a@b.com", restored.Current().Email)
}

func TestLogoutClearsPersistedSession(t *testing.T) {
	path := sessionPath(t)

	s := Open(path)
	require.NoError(t, s.Login(models.User{ID: 7, Email: "x@y.com"}))
	s.Logout()

	assert.False(t, s.LoggedIn())
	assert.False(t, Open(path).LoggedIn())
}

func TestLogoutIdempotent(t *testing.T) {
	s := Open(sessionPath(t))
	require.NoError(t, s.Login(models.User{ID: 2, Email: "a@b.com"}))

	var notifications int
	s.Subscribe(func(*models.User) { notifications++ })

	s.Logout()
	s.Logout()
	assert.Equal(t, 1, notifications, "second logout is a no-op")
}

func TestCorruptFileTreatedAsLoggedOut(t *testing.T) {
	path := sessionPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	assert.False(t, Open(path).LoggedIn())
}

func TestUpdateBroadcastsFullRecord(t *testing.T) {
	s := Open(sessionPath(t))
	require.NoError(t, s.Login(models.User{ID: 3, Email: "a@b.com", Location: "Bandung"}))

	var got *models.User
	s.Subscribe(func(u *models.User) { got = u })

	require.NoError(t, s.Update(func(u *models.User) {
		u.AvatarURL = "http://localhost:3001/uploads/me.png"
	}))

	require.NotNil(t, got)
	assert.Equal(t, "http://localhost:3001/uploads/me.png", got.AvatarURL)
	assert.Equal(t, "Bandung", got.Location, "unrelated fields survive the rewrite")
	assert.Equal(t, got.AvatarURL, s.Current().AvatarURL)

	// The persisted copy matches the broadcast copy.
	assert.Equal(t, got.AvatarURL, Open(s.path).Current().AvatarURL)
}

func TestUpdateWithoutSessionIsNoop(t *testing.T) {
	s := Open(sessionPath(t))
	called := false
	s.Subscribe(func(*models.User) { called = true })
	require.NoError(t, s.Update(func(u *models.User) { u.Location = "x" }))
	assert.False(t, called)
}

func TestBootstrapWithSessionGoesHome(t *testing.T) {
	path := sessionPath(t)
	require.NoError(t, Open(path).Login(models.User{ID: 4, Email: "a@b.com"}))

	nav := navigation.New()
	Open(path).Bootstrap(nav)
	assert.Equal(t, navigation.ScreenHome, nav.Current())
}

func TestBootstrapWithoutSessionGoesAuthAfterSplash(t *testing.T) {
	s := Open(sessionPath(t))
	s.setSplashDelay(10 * time.Millisecond)

	nav := navigation.New()
	s.Bootstrap(nav)
	assert.Equal(t, navigation.ScreenSplash, nav.Current(), "still on splash before the delay")

	assert.Eventually(t, func() bool {
		return nav.Current() == navigation.ScreenAuth
	}, time.Second, 5*time.Millisecond)
}

func TestBootstrapRespectsManualNavigation(t *testing.T) {
	s := Open(sessionPath(t))
	s.setSplashDelay(20 * time.Millisecond)

	nav := navigation.New()
	s.Bootstrap(nav)
	nav.Reset(navigation.ScreenAuth)
	nav.Navigate(navigation.ScreenHome)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, navigation.ScreenHome, nav.Current(),
		"splash timer must not clobber a navigation that already happened")
}

func TestSelectedRecipeHandoffIsOneShot(t *testing.T) {
	s := Open(sessionPath(t))

	_, ok := s.TakeSelectedRecipe()
	assert.False(t, ok)

	s.SetSelectedRecipe(42)
	id, ok := s.TakeSelectedRecipe()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = s.TakeSelectedRecipe()
	assert.False(t, ok, "handoff slot is one-shot")
}
