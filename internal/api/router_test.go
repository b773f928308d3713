package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/arsenicprojects/police-plate-gate/internal/gate"
	"github.com/arsenicprojects/police-plate-gate/internal/recognize"
)

func newTestServer() (*Server, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	controller := gate.NewController(gate.Options{
		HomeownerPlates: []string{"R3944FG"},
	}, nil)
	s := NewServer(controller)
	return s, s.Router()
}

func TestHealth(t *testing.T) {
	_, router := newTestServer()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestStatusReflectsLastResult(t *testing.T) {
	s, router := newTestServer()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["recognition"] != nil {
		t.Errorf("recognition before any frame = %v, want null", body["recognition"])
	}

	s.SetLastResult(&recognize.Result{RawText: "R3944FG", CleanedText: "R3944FG", Valid: true, Confidence: 1})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	rec, ok := body["recognition"].(map[string]any)
	if !ok {
		t.Fatalf("recognition = %v, want object", body["recognition"])
	}
	if rec["cleaned_text"] != "R3944FG" {
		t.Errorf("cleaned_text = %v, want R3944FG", rec["cleaned_text"])
	}
}

func TestPlateManagement(t *testing.T) {
	_, router := newTestServer()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/plates",
		strings.NewReader(`{"plate":"B1234CD","guest":true}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /plates = %d, want 201", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/plates", nil))
	var body map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body["guests"]) != 1 || body["guests"][0] != "B1234CD" {
		t.Errorf("guests = %v, want [B1234CD]", body["guests"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/plates/B1234CD", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE /plates = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/plates/B1234CD", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("repeated DELETE = %d, want 404", w.Code)
	}
}

func TestAddPlateRejectsEmptyBody(t *testing.T) {
	_, router := newTestServer()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/plates",
		strings.NewReader(`{}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /plates with no plate = %d, want 400", w.Code)
	}
}
