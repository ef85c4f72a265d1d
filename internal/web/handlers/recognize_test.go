package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facegate/facegate/internal/gallery"
)

func TestRecognize(t *testing.T) {
	// Enrolled at eyeX=60, query at eyeX=65: the 5px shift scores around
	// 95, well above the default search threshold.
	svc, repo, _ := newTestService(testFace(65))
	seedPerson(t, repo, "id-1", "Jan Novák", 60)
	seedPerson(t, repo, "id-2", "Petra Svobodová", 400)
	handler := NewRecognizeHandler(svc)

	req := multipartImageRequest(t, http.MethodPost, "/api/v1/recognize", nil)
	rec := httptest.NewRecorder()
	handler.Recognize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var result gallery.RecognizeResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Matched {
		t.Error("expected a match above the default threshold")
	}
	if result.Threshold != 65 {
		t.Errorf("threshold = %v, want the configured default 65", result.Threshold)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(result.Matches))
	}
	if result.Matches[0].PersonID != "id-1" {
		t.Errorf("best match = %s, want id-1", result.Matches[0].PersonID)
	}
	if result.Matches[0].Score <= result.Matches[1].Score {
		t.Errorf("matches not sorted by score: %v then %v",
			result.Matches[0].Score, result.Matches[1].Score)
	}
}

func TestRecognizeExplicitThreshold(t *testing.T) {
	svc, repo, _ := newTestService(testFace(65))
	seedPerson(t, repo, "id-1", "Jan Novák", 60)
	handler := NewRecognizeHandler(svc)

	// A 5px shift scores around 95; a threshold of 99 rejects it.
	req := multipartImageRequest(t, http.MethodPost, "/api/v1/recognize", map[string]string{"threshold": "99"})
	rec := httptest.NewRecorder()
	handler.Recognize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var result gallery.RecognizeResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Matched {
		t.Error("match should fall below an explicit threshold of 99")
	}
	if result.Threshold != 99 {
		t.Errorf("threshold = %v, want 99", result.Threshold)
	}
}

func TestRecognizeInvalidThreshold(t *testing.T) {
	svc, _, _ := newTestService(testFace(65))
	handler := NewRecognizeHandler(svc)

	for _, bad := range []string{"abc", "-5", "101"} {
		req := multipartImageRequest(t, http.MethodPost, "/api/v1/recognize", map[string]string{"threshold": bad})
		rec := httptest.NewRecorder()
		handler.Recognize(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("threshold %q: status = %d, want %d", bad, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestRecognizeNoFace(t *testing.T) {
	svc, _, _ := newTestService()
	handler := NewRecognizeHandler(svc)

	req := multipartImageRequest(t, http.MethodPost, "/api/v1/recognize", nil)
	rec := httptest.NewRecorder()
	handler.Recognize(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestRecognizeMissingImage(t *testing.T) {
	svc, _, _ := newTestService(testFace(65))
	handler := NewRecognizeHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recognize", nil)
	rec := httptest.NewRecorder()
	handler.Recognize(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
