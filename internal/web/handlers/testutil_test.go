package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/database/mock"
	"github.com/facegate/facegate/internal/detector"
	"github.com/facegate/facegate/internal/faceid"
	"github.com/facegate/facegate/internal/gallery"
)

// fakeDetector returns a fixed set of faces for any image.
type fakeDetector struct {
	faces []detector.Face
}

func (f *fakeDetector) DetectOrEmpty(ctx context.Context, imageData []byte) []detector.Face {
	return f.faces
}

func testFace(eyeX float64) detector.Face {
	return detector.Face{
		BoundingBox: faceid.Box{Left: 0, Top: 0, Right: 200, Bottom: 200},
		Landmarks: []faceid.Landmark{
			{Type: faceid.LeftEye, X: eyeX, Y: 60},
			{Type: faceid.RightEye, X: eyeX + 80, Y: 60},
		},
	}
}

// newTestService builds a gallery service over the mock repository and a
// fake detector that always reports the given faces.
func newTestService(faces ...detector.Face) (*gallery.Service, *mock.PersonRepository, *database.Notifier) {
	repo := mock.NewPersonRepository()
	notifier := database.NewNotifier()
	thresholds := config.ThresholdsConfig{Search: 65, Update: 75}
	svc := gallery.NewService(repo, &fakeDetector{faces: faces}, notifier, thresholds)
	return svc, repo, notifier
}

// seedPerson enrolls a person directly into the mock repository.
func seedPerson(t *testing.T, repo *mock.PersonRepository, id, name string, eyeX float64) database.Person {
	t.Helper()
	rec := &faceid.FeatureRecord{
		BoundingBox: faceid.Box{Left: 0, Top: 0, Right: 200, Bottom: 200},
		Landmarks: []faceid.Landmark{
			{Type: faceid.LeftEye, X: eyeX, Y: 60},
			{Type: faceid.RightEye, X: eyeX + 80, Y: 60},
		},
	}
	features, err := faceid.Serialize(rec)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	p := database.Person{
		ID:          id,
		Name:        name,
		Image:       []byte{0xff, 0xd8, 0xff},
		Features:    features,
		LandmarkVec: faceid.LandmarkVector(rec),
		CreatedAt:   time.Now().UTC(),
	}
	repo.AddPerson(p)
	return p
}

// multipartImageRequest builds a multipart request with an "image" part and
// optional extra form fields.
func multipartImageRequest(t *testing.T, method, path string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "face.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake-jpeg-bytes")); err != nil {
		t.Fatalf("write image part: %v", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// requestWithChiParams creates a request with chi URL parameters.
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
