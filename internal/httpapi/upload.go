package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxUploadSize caps uploads at 5 MB.
const maxUploadSize = 5 << 20

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadHandler stores one image from the multipart field and returns its
// hosted URL. Field is "avatar" for profile uploads and "image" for recipe
// uploads.
func UploadHandler(uploadDir, baseURL, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "Ukuran file terlalu besar. Maksimal 5MB.")
			return
		}

		file, header, err := r.FormFile(field)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Tidak ada file yang diupload")
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedImageExts[ext] {
			writeError(w, http.StatusBadRequest,
				"Hanya file gambar yang diizinkan (jpeg, jpg, png, gif, webp)")
			return
		}

		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal mengupload file")
			return
		}

		filename := fmt.Sprintf("%s-%s%s", field, uuid.NewString(), ext)
		dst, err := os.Create(filepath.Join(uploadDir, filename))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal mengupload file")
			return
		}
		defer dst.Close()

		if _, err := io.Copy(dst, file); err != nil {
			writeError(w, http.StatusInternalServerError, "Gagal mengupload file")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"url":      fmt.Sprintf("%s/uploads/%s", baseURL, filename),
			"filename": filename,
		})
	}
}
