package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/services"
)

func TestAnalyticsShow(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "mehta@college.edu", "FACULTY123")
	ts.sm.analytics.report = &models.AnalyticsReport{
		ByCompany:   []models.CompanyApplications{{CompanyName: "Acme Corp", ApplicationCount: 4}, {CompanyName: "Globex", ApplicationCount: 2}},
		ByStatus:    []models.StatusCount{{Status: models.ApplicationApplied, Count: 3}, {Status: models.ApplicationDone, Count: 3}},
		Timeline:    []models.MonthlyApplications{{Month: "2026-09", Count: 2}, {Month: "2026-10", Count: 4}},
		TotalApps:   6,
		DoneApps:    3,
		SuccessRate: 50,
	}

	rec := ts.do(http.MethodGet, "/faculty/analytics", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"50.00%", "Acme Corp", "Applied", "2026-10",
		`src="/faculty/analytics/companies.svg"`,
		`src="/faculty/analytics/statuses.svg"`,
		`src="/faculty/analytics/timeline.svg"`,
		`href="/faculty/analytics/export.xlsx"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("analytics page does not contain %q", want)
		}
	}
	if strings.Contains(body, "<script") || strings.Contains(body, "style=") {
		t.Error("analytics page must not need inline script or style")
	}
}

func TestAnalyticsShow_EmptyReportHasNoCharts(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "mehta@college.edu", "FACULTY123")

	rec := ts.do(http.MethodGet, "/faculty/analytics", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, ".svg") {
		t.Error("empty report must not link charts")
	}
	if !strings.Contains(body, "No applications yet.") {
		t.Error("missing empty-state message")
	}
}

func TestAnalyticsChart(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "mehta@college.edu", "FACULTY123")
	ts.sm.analytics.report = &models.AnalyticsReport{
		ByCompany: []models.CompanyApplications{{CompanyName: "Acme Corp", ApplicationCount: 4}, {CompanyName: "Initech", ApplicationCount: 0}},
		ByStatus:  []models.StatusCount{{Status: models.ApplicationDone, Count: 3}},
		Timeline:  []models.MonthlyApplications{{Month: "2026-10", Count: 4}},
	}

	tests := []struct {
		path string
		want string
	}{
		{"/faculty/analytics/companies.svg", "Initech"},
		{"/faculty/analytics/statuses.svg", "Done"},
		{"/faculty/analytics/timeline.svg", "2026-10"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := ts.do(http.MethodGet, tt.path, nil, cookie)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != svgContentType {
				t.Errorf("Content-Type = %q", got)
			}
			if got := rec.Header().Get("Content-Security-Policy"); got != chartCSP {
				t.Errorf("Content-Security-Policy = %q", got)
			}
			body := rec.Body.String()
			if !strings.Contains(body, "<svg") || !strings.Contains(body, tt.want) {
				t.Errorf("chart does not contain %q", tt.want)
			}
		})
	}
}

func TestAnalyticsChart_Errors(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "mehta@college.edu", "FACULTY123")

	for _, path := range []string{"/faculty/analytics/companies.svg", "/faculty/analytics/statuses.svg", "/faculty/analytics/timeline.svg"} {
		if rec := ts.do(http.MethodGet, path, nil, cookie); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s with no data status = %d, want 404", path, rec.Code)
		}
	}

	ts.sm.analytics.err = services.ErrConnection
	rec := ts.do(http.MethodGet, "/faculty/analytics/timeline.svg", nil, cookie)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("chart error body = %q, want empty", rec.Body.String())
	}
}

func TestAnalyticsExport(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "mehta@college.edu", "FACULTY123")

	rec := ts.do(http.MethodGet, "/faculty/analytics/export.xlsx", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxContentType {
		t.Errorf("Content-Type = %q", got)
	}
	wantDisposition := "attachment; filename=internship-analytics-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	if got := rec.Header().Get("Content-Disposition"); got != wantDisposition {
		t.Errorf("Content-Disposition = %q, want %q", got, wantDisposition)
	}
	if rec.Body.String() != "PK-workbook" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestAnalytics_DatabaseDown(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "mehta@college.edu", "FACULTY123")
	ts.sm.analytics.err = services.ErrConnection

	for _, path := range []string{"/faculty/analytics", "/faculty/analytics/export.xlsx"} {
		rec := ts.do(http.MethodGet, path, nil, cookie)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s status = %d, want 503", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "PostgreSQL is running") {
			t.Errorf("GET %s does not show connection guidance", path)
		}
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if resp.Status != "healthy" || resp.Service != "internship-tracker" || resp.Checks["database"] != "ok" {
		t.Errorf("health = %+v", resp)
	}

	ts.checks["redis"] = func(ctx context.Context) error { return errors.New("connection refused") }
	rec = ts.do(http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if resp.Status != "unhealthy" || resp.Checks["redis"] != "connection refused" {
		t.Errorf("health = %+v", resp)
	}
}

func TestNoRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/nowhere", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}
