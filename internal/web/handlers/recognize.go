package handlers

import (
	"net/http"
	"strconv"

	"github.com/facegate/facegate/internal/gallery"
)

// RecognizeHandler serves the recognition endpoint.
type RecognizeHandler struct {
	svc *gallery.Service
}

// NewRecognizeHandler creates a new recognize handler.
func NewRecognizeHandler(svc *gallery.Service) *RecognizeHandler {
	return &RecognizeHandler{svc: svc}
}

// Recognize scores an uploaded image against the gallery.
// POST /api/v1/recognize, multipart form with "image" and optional
// "threshold" (defaults to the configured search threshold).
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	imageData, err := readImageUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing or invalid image upload")
		return
	}

	var threshold float64
	if s := r.FormValue("threshold"); s != "" {
		threshold, err = strconv.ParseFloat(s, 64)
		if err != nil || threshold < 0 || threshold > 100 {
			respondError(w, http.StatusBadRequest, "threshold must be a number in [0,100]")
			return
		}
	}

	result, err := h.svc.Recognize(r.Context(), imageData, threshold)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
