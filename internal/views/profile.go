package views

import (
	"sync"

	"soraifarm/internal/apiclient"
	"soraifarm/internal/logging"
	"soraifarm/internal/models"
)

// ProfileView shows the user's profile with land and recipe aggregates
// and edits it. Edits go to the backend first, then into the session
// store as a whole-record update so every subscribed view repaints.
type ProfileView struct {
	lifecycle
	deps Deps

	mu      sync.Mutex
	Profile *apiclient.UserProfile
	Message string
}

func NewProfileView(deps Deps) *ProfileView {
	return &ProfileView{deps: deps}
}

func (v *ProfileView) Unmount() { v.unmount() }

func (v *ProfileView) Mount() {
	v.mount()
	v.fetchProfile()
}

func (v *ProfileView) fetchProfile() {
	user := v.deps.Session.Current()
	if user == nil {
		return
	}
	token := v.begin("profile")
	go func() {
		profile, err := v.deps.API.GetUser(user.ID)
		if err != nil {
			logging.Warnf("profile: fetch failed: %v", err)
			return
		}
		if !v.current("profile", token) {
			return
		}
		v.mu.Lock()
		v.Profile = profile
		v.mu.Unlock()
	}()
}

// Save pushes the edited fields to the backend and mirrors them into the
// session record.
func (v *ProfileView) Save(fullName, location, landArea string) error {
	user := v.deps.Session.Current()
	if user == nil {
		return nil
	}
	update := apiclient.UserUpdate{
		FullName:  fullName,
		Location:  location,
		LandArea:  landArea,
		AvatarURL: user.AvatarURL,
	}
	if err := v.deps.API.UpdateUser(user.ID, update); err != nil {
		v.setMessage(err.Error())
		return err
	}

	v.deps.Session.Update(func(u *models.User) {
		u.FullName = fullName
		u.Location = location
		u.LandArea = landArea
	})
	v.setMessage("Profil berhasil diupdate")
	v.fetchProfile()
	return nil
}

// SetAvatar uploads the photo, saves its URL on the profile and
// broadcasts the new record.
func (v *ProfileView) SetAvatar(imagePath string) error {
	user := v.deps.Session.Current()
	if user == nil {
		return nil
	}
	uploaded, err := v.deps.API.UploadProfileImage(imagePath)
	if err != nil {
		v.setMessage(err.Error())
		return err
	}

	update := apiclient.UserUpdate{
		FullName:  user.FullName,
		Location:  user.Location,
		LandArea:  user.LandArea,
		AvatarURL: uploaded.URL,
	}
	if err := v.deps.API.UpdateUser(user.ID, update); err != nil {
		v.setMessage(err.Error())
		return err
	}

	v.deps.Session.Update(func(u *models.User) { u.AvatarURL = uploaded.URL })
	v.fetchProfile()
	return nil
}

func (v *ProfileView) setMessage(msg string) {
	v.mu.Lock()
	v.Message = msg
	v.mu.Unlock()
}

// Snapshot returns the profile for rendering.
func (v *ProfileView) Snapshot() *apiclient.UserProfile {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Profile
}
