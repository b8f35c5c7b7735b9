package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sharepeak/internal/domain/dto"
	"github.com/guttosm/sharepeak/internal/domain/models"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mockReportService{entries: []models.MaxPrice{
		{Company: "Acme", Year: 2021, Month: "Jul", Price: 12.3, Observed: true},
	}}
	r := NewRouter(NewHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/shares_2021", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var out dto.ReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.Source != "shares_2021" || len(out.Entries) != 1 || *out.Entries[0].MaxPrice != 12.3 {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockReportService{}))

	// one analyze call so the counter family is exported
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(sharesCSV))
	req.Header.Set("Content-Type", "text/csv")
	r.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "sharepeak_analyze_requests_total") {
		t.Fatalf("analyze counter missing from /metrics output")
	}
}
