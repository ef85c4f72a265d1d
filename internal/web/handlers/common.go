package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/gallery"
)

// maxUploadBytes bounds enrollment/recognition image uploads.
const maxUploadBytes = 20 << 20

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps gallery/database errors onto HTTP statuses. The
// engine itself never errors; everything here comes from the caller-side
// policy (face counts, thresholds) or storage.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gallery.ErrNoFace):
		respondError(w, http.StatusUnprocessableEntity, "no face detected")
	case errors.Is(err, gallery.ErrMultipleFaces):
		respondError(w, http.StatusUnprocessableEntity, "multiple faces detected")
	case errors.Is(err, gallery.ErrLowSimilarity):
		respondError(w, http.StatusConflict, "similarity below update threshold")
	case errors.Is(err, database.ErrDuplicatePerson):
		respondError(w, http.StatusConflict, "person already enrolled")
	case errors.Is(err, database.ErrPersonNotFound):
		respondError(w, http.StatusNotFound, "person not found")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// readImageUpload extracts the uploaded image from a multipart form. The
// part name is "image".
func readImageUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
