package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatsGet(t *testing.T) {
	svc, repo, _ := newTestService()
	seedPerson(t, repo, "id-1", "Jan Novák", 60)
	seedPerson(t, repo, "id-2", "Petra Svobodová", 90)
	handler := NewStatsHandler(svc)

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		People     int `json:"people"`
		Thresholds struct {
			Search float64 `json:"search"`
			Update float64 `json:"update"`
		} `json:"thresholds"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.People != 2 {
		t.Errorf("people = %d, want 2", body.People)
	}
	if body.Thresholds.Search != 65 || body.Thresholds.Update != 75 {
		t.Errorf("thresholds = %+v, want search 65 update 75", body.Thresholds)
	}
}
