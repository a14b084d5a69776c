package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-wait-dashboard/internal/models"
)

// ErrBackendFailure is returned when the backend answers with success=false.
var ErrBackendFailure = errors.New("backend reported failure")

// WaitTimes is the body of GET /api/wait-times.
type WaitTimes struct {
	Success     bool                    `json:"success"`
	Data        []models.HospitalRecord `json:"data"`
	Stats       models.Stats            `json:"stats"`
	Alerts      []models.Alert          `json:"alerts"`
	LastUpdated string                  `json:"last_updated"`
	Error       string                  `json:"error,omitempty"`
}

type historicalResponse struct {
	Success bool              `json:"success"`
	Data    []historicalPoint `json:"data"`
	Hours   int               `json:"hours"`
	Error   string            `json:"error,omitempty"`
}

type historicalPoint struct {
	Timestamp        string       `json:"timestamp"`
	DisplayTimestamp string       `json:"display_timestamp"`
	Stats            models.Stats `json:"stats"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) FetchWaitTimes(ctx context.Context) (*WaitTimes, error) {
	var data WaitTimes
	if err := c.getJSON(ctx, c.baseURL+"/api/wait-times", &data); err != nil {
		return nil, err
	}
	if !data.Success {
		return nil, fmt.Errorf("%w: %s", ErrBackendFailure, data.Error)
	}
	return &data, nil
}

// FetchHistorical returns aggregate snapshots for the last hours, oldest
// first. Points with an unreadable timestamp are dropped.
func (c *Client) FetchHistorical(ctx context.Context, hours int) ([]models.Snapshot, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))

	var data historicalResponse
	if err := c.getJSON(ctx, c.baseURL+"/api/historical?"+q.Encode(), &data); err != nil {
		return nil, err
	}
	if !data.Success {
		return nil, fmt.Errorf("%w: %s", ErrBackendFailure, data.Error)
	}

	snapshots := make([]models.Snapshot, 0, len(data.Data))
	for _, p := range data.Data {
		ts, err := ParseTimestamp(p.Timestamp)
		if err != nil {
			slog.Warn("historical timestamp parsing failed", "timestamp", p.Timestamp, "error", err.Error())
			continue
		}
		snapshots = append(snapshots, models.Snapshot{
			Timestamp:        ts,
			DisplayTimestamp: p.DisplayTimestamp,
			Stats:            p.Stats,
		})
	}

	return snapshots, nil
}

// ExportURL is where the browser is sent to download an export. The
// format is passed through as a single path segment.
func (c *Client) ExportURL(format string) string {
	return c.baseURL + "/api/export/" + url.PathEscape(format)
}

// getJSON decodes the body whatever the status: the backend reports
// failures as {"success": false} with a 5xx.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("error decoding resp.Body (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05 MST",
	time.RFC1123,
}

// ParseTimestamp accepts the ISO-8601 timestamps the backend stores and
// the older "YYYY-MM-DD HH:MM:SS GMT" display form.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
