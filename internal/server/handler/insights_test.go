package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/nocturnehq/nocturne/internal/night"
	"github.com/nocturnehq/nocturne/internal/server/handler"
	"github.com/nocturnehq/nocturne/internal/service/insight"
)

func TestInsightsNoData(t *testing.T) {
	t.Parallel()

	h := handler.NewInsights(insight.New(night.NewWindow()))

	routes := []struct {
		name string
		fn   http.HandlerFunc
	}{
		{"summary", h.HandleSummary},
		{"nights", h.HandleNights},
		{"score", h.HandleScore},
	}

	for _, route := range routes {
		t.Run(route.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			route.fn(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
		})
	}
}

func TestInsightsAfterIngest(t *testing.T) {
	t.Parallel()

	service := insight.New(night.NewWindow())
	if _, err := service.Ingest(t.Context(), strings.NewReader(exportXML)); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	h := handler.NewInsights(service)

	rec := httptest.NewRecorder()
	h.HandleSummary(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var summary night.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if summary.Nights != 1 {
		t.Errorf("Nights = %d, want 1", summary.Nights)
	}

	rec = httptest.NewRecorder()
	h.HandleNights(rec, httptest.NewRequest(http.MethodGet, "/api/nights", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("nights status = %d", rec.Code)
	}

	var nights struct {
		Nights []night.Night `json:"nights"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &nights); err != nil {
		t.Fatalf("unmarshal nights: %v", err)
	}
	if len(nights.Nights) != 1 {
		t.Fatalf("len(nights) = %d, want 1", len(nights.Nights))
	}
	if got := nights.Nights[0].Date; got != "2024-11-01" {
		t.Errorf("night date = %q, want 2024-11-01", got)
	}

	rec = httptest.NewRecorder()
	h.HandleScore(rec, httptest.NewRequest(http.MethodGet, "/api/sleep-score", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("score status = %d", rec.Code)
	}

	var score night.ScoreBreakdown
	if err := json.Unmarshal(rec.Body.Bytes(), &score); err != nil {
		t.Fatalf("unmarshal score: %v", err)
	}
	if score.Score < 0 || score.Score > 100 {
		t.Errorf("score = %v, want within [0, 100]", score.Score)
	}
}
