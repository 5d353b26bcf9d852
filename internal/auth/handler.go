package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dummyEmails rejects throwaway addresses people type into demos.
var dummyEmails = []string{"test@test", "a@a", "email@email", "123@123", "asd@asd"}

func validEmail(email string) bool {
	if !emailPattern.MatchString(email) {
		return false
	}
	lower := strings.ToLower(email)
	for _, dummy := range dummyEmails {
		if strings.Contains(lower, dummy) {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

func RegisterHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Permintaan tidak valid")
			return
		}
		if req.Email == "" || req.Password == "" || req.FullName == "" {
			writeError(w, http.StatusBadRequest, "Semua field wajib diisi")
			return
		}
		if !validEmail(req.Email) {
			writeError(w, http.StatusBadRequest, "Email tidak valid. Gunakan email yang benar.")
			return
		}
		if len(req.Password) < 6 {
			writeError(w, http.StatusBadRequest, "Password minimal 6 karakter")
			return
		}

		user, err := RegisterUser(db, req.Email, req.Password, req.FullName)
		if err != nil {
			if errors.Is(err, ErrEmailTaken) {
				writeError(w, http.StatusBadRequest, "Email sudah terdaftar")
				return
			}
			writeError(w, http.StatusInternalServerError, "Gagal mendaftar")
			return
		}

		token, err := IssueToken(user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal mendaftar")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    user,
			"token":   token,
			"message": "Registrasi berhasil",
		})
	}
}

func LoginHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Permintaan tidak valid")
			return
		}

		user, err := AuthenticateUser(db, req.Email, req.Password)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Email atau password salah")
			return
		}

		token, err := IssueToken(user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal masuk")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    user,
			"token":   token,
			"message": "Login berhasil",
		})
	}
}
