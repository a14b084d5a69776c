package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mr1hm/go-wait-dashboard/internal/models"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchWaitTimes_Success(t *testing.T) {
	body := `{
		"success": true,
		"data": [
			{"hospital": "Antrim Area", "status": "Open", "wait_mins": 95, "display_wait": "1 hour 35 mins", "severity": "moderate"},
			{"hospital": "Causeway", "status": "Open", "wait_mins": null, "display_wait": "N/A", "severity": "unknown"}
		],
		"stats": {"total_hospitals": 2, "moderate": 1, "unknown": 1, "average_wait": 95, "max_wait": 95, "min_wait": 95},
		"alerts": [{"type": "individual_wait", "severity": "high", "message": "Antrim Area has 95 minute wait time", "timestamp": "2026-10-15T09:00:00+00:00"}],
		"last_updated": "15 October 2026 10:00"
	}`
	srv := newTestServer(t, http.StatusOK, body)

	c := NewClient(srv.URL, 5*time.Second)
	got, err := c.FetchWaitTimes(context.Background())
	if err != nil {
		t.Fatalf("FetchWaitTimes failed: %v", err)
	}

	if len(got.Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got.Data))
	}
	if got.Data[0].Wait() != 95 {
		t.Errorf("expected 95 mins, got %d", got.Data[0].Wait())
	}
	if got.Data[1].HasWait() {
		t.Error("expected null wait for Causeway")
	}
	if got.Data[1].Severity != models.SeverityUnknown {
		t.Errorf("expected unknown severity, got %s", got.Data[1].Severity)
	}
	if got.Stats.TotalHospitals != 2 || got.Stats.AverageWait != 95 {
		t.Errorf("unexpected stats: %+v", got.Stats)
	}
	if len(got.Alerts) != 1 || !got.Alerts[0].IsHigh() {
		t.Errorf("unexpected alerts: %+v", got.Alerts)
	}
	if got.LastUpdated != "15 October 2026 10:00" {
		t.Errorf("unexpected last_updated %q", got.LastUpdated)
	}
}

func TestFetchWaitTimes_BackendFailure(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `{"success": false, "error": "upstream table missing"}`)

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.FetchWaitTimes(context.Background())
	if !errors.Is(err, ErrBackendFailure) {
		t.Fatalf("expected ErrBackendFailure, got %v", err)
	}
}

func TestFetchWaitTimes_BadBody(t *testing.T) {
	srv := newTestServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.FetchWaitTimes(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}
	if errors.Is(err, ErrBackendFailure) {
		t.Error("decode errors should not be reported as backend failures")
	}
}

func TestFetchWaitTimes_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	if _, err := c.FetchWaitTimes(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestFetchHistorical(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"success": true,
			"hours": 6,
			"data": [
				{"timestamp": "2026-10-15T08:00:00.123456+00:00", "display_timestamp": "08:00", "stats": {"average_wait": 80, "max_wait": 200}},
				{"timestamp": "garbage", "stats": {"average_wait": 1}},
				{"timestamp": "2026-10-15 09:00:00 GMT", "stats": {"average_wait": 95, "max_wait": 260}}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 5*time.Second)
	snaps, err := c.FetchHistorical(context.Background(), 6)
	if err != nil {
		t.Fatalf("FetchHistorical failed: %v", err)
	}
	if gotQuery != "hours=6" {
		t.Errorf("expected hours=6 query, got %q", gotQuery)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots (bad timestamp dropped), got %d", len(snaps))
	}
	if snaps[0].Stats.MaxWait != 200 || snaps[1].Stats.AverageWait != 95 {
		t.Errorf("unexpected stats: %+v", snaps)
	}
	if snaps[1].Timestamp.Hour() != 9 {
		t.Errorf("expected 09:00, got %v", snaps[1].Timestamp)
	}
}

func TestExportURL(t *testing.T) {
	c := NewClient("http://waits.local:5001/", time.Second)

	if got := c.ExportURL("csv"); got != "http://waits.local:5001/api/export/csv" {
		t.Errorf("unexpected export url %s", got)
	}
	if got := c.ExportURL("a/b"); got != "http://waits.local:5001/api/export/a%2Fb" {
		t.Errorf("format should be a single escaped segment, got %s", got)
	}
}
