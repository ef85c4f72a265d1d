package detector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facegate/facegate/internal/faceid"
)

func newDetectServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/detect", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDetect(t *testing.T) {
	server := newDetectServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"faces": []map[string]any{
				{
					"boundingBox":     map[string]float64{"left": 10, "top": 20, "right": 110, "bottom": 140},
					"headEulerAngleX": -2.5,
					"headEulerAngleY": 8,
					"headEulerAngleZ": 0.5,
					"landmarks": []map[string]any{
						{"type": 4, "x": 40.0, "y": 60.0},
						{"type": 10, "x": 80.0, "y": 61.0},
					},
					"smilingProbability": 0.85,
				},
			},
		})
	})

	client := NewClient(server.URL)
	faces, err := client.Detect(context.Background(), []byte("fake-jpeg"))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(faces) != 1 {
		t.Fatalf("got %d faces, want 1", len(faces))
	}

	face := &faces[0]
	if face.Bounds() != (faceid.Box{Left: 10, Top: 20, Right: 110, Bottom: 140}) {
		t.Errorf("unexpected bounds %+v", face.Bounds())
	}
	if p, ok := face.Landmark(faceid.LeftEye); !ok || p.X != 40 || p.Y != 60 {
		t.Errorf("left eye = %+v ok=%v, want (40,60) true", p, ok)
	}
	if _, ok := face.Landmark(faceid.NoseBase); ok {
		t.Error("nose base should be absent")
	}
	if v, ok := face.SmilingProbability(); !ok || v != 0.85 {
		t.Errorf("smiling = %v ok=%v, want 0.85 true", v, ok)
	}
	if _, ok := face.LeftEyeOpenProbability(); ok {
		t.Error("left eye open probability should be absent")
	}

	// Extraction straight from the detector face must preserve landmarks.
	rec := faceid.Extract(face)
	if len(rec.Landmarks) != 2 {
		t.Errorf("extracted %d landmarks, want 2", len(rec.Landmarks))
	}
}

func TestDetectNoFaces(t *testing.T) {
	server := newDetectServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"faces":[]}`))
	})

	faces, err := NewClient(server.URL).Detect(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(faces) != 0 {
		t.Errorf("got %d faces, want 0", len(faces))
	}
}

func TestDetectServerError(t *testing.T) {
	server := newDetectServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	if _, err := NewClient(server.URL).Detect(context.Background(), []byte("img")); err == nil {
		t.Error("Detect() expected error for 500 response")
	}
}

func TestDetectOrEmpty(t *testing.T) {
	// Unreachable server: boundary maps the failure to zero faces.
	client := NewClient("http://127.0.0.1:1")
	faces := client.DetectOrEmpty(context.Background(), []byte("img"))
	if faces == nil || len(faces) != 0 {
		t.Errorf("DetectOrEmpty() = %v, want empty slice", faces)
	}
}
