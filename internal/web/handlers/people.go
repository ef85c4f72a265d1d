package handlers

import (
	"encoding/base64"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/gallery"
)

// PeopleHandler serves the enrolled gallery CRUD endpoints.
type PeopleHandler struct {
	svc *gallery.Service
}

// NewPeopleHandler creates a new people handler.
func NewPeopleHandler(svc *gallery.Service) *PeopleHandler {
	return &PeopleHandler{svc: svc}
}

// personResponse is the wire form of an enrolled person. Features stays the
// engine's serialized record verbatim; the image travels base64-encoded.
type personResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Features  string    `json:"features"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toPersonResponse(p *database.Person, withImage bool) personResponse {
	resp := personResponse{
		ID:        p.ID,
		Name:      p.Name,
		Features:  p.Features,
		CreatedAt: p.CreatedAt,
	}
	if withImage && len(p.Image) > 0 {
		resp.Image = base64.StdEncoding.EncodeToString(p.Image)
	}
	return resp
}

// List returns every enrolled person. GET /api/v1/people
func (h *PeopleHandler) List(w http.ResponseWriter, r *http.Request) {
	people, err := h.svc.ListPeople(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responses := make([]personResponse, 0, len(people))
	for i := range people {
		responses = append(responses, toPersonResponse(&people[i], false))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"people": responses,
		"count":  len(responses),
	})
}

// Get returns one person including the enrollment image.
// GET /api/v1/people/{id}
func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	person, err := h.svc.GetPerson(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if person == nil {
		respondError(w, http.StatusNotFound, "person not found")
		return
	}
	respondJSON(w, http.StatusOK, toPersonResponse(person, true))
}

// Enroll adds a new person from a multipart form with "name" and "image".
// POST /api/v1/people
func (h *PeopleHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	imageData, err := readImageUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing or invalid image upload")
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	person, err := h.svc.Enroll(r.Context(), name, imageData)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("enrolled %s as %s", sanitizeForLog(name), person.ID)
	respondJSON(w, http.StatusCreated, toPersonResponse(person, false))
}

// UpdatePhoto replaces a person's enrollment photo after the similarity
// check. PUT /api/v1/people/{id}/photo
func (h *PeopleHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	imageData, err := readImageUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing or invalid image upload")
		return
	}

	person, err := h.svc.UpdatePhoto(r.Context(), id, imageData)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPersonResponse(person, false))
}

// Delete removes a person. DELETE /api/v1/people/{id}
func (h *PeopleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
