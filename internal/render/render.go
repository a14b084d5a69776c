package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-wait-dashboard/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// MaxBanners is how many alerts get a banner; the alerts modal lists all.
const MaxBanners = 3

// Frame is one complete redraw of the data-driven parts of the page.
type Frame struct {
	Hospitals  template.HTML
	Stats      template.HTML
	Alerts     template.HTML
	AlertCount int
}

// Renderer projects records, stats and alerts to HTML. It holds no
// dashboard state; the same input always renders the same bytes.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("dashboard").Funcs(template.FuncMap{
		"num": formatNumber,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

type card struct {
	Name        string
	Status      string
	Label       string
	Gradient    string
	Badge       string
	HasWait     bool
	Wait        int
	DisplayWait string
	Indicator   string
	BarWidth    string
	Delay       string
}

type tile struct {
	Icon   string
	Tone   string
	Border string
	Value  string
	Label  string
}

type banner struct {
	High    bool
	Message string
}

func cards(records []models.HospitalRecord) []card {
	out := make([]card, 0, len(records))
	for i, r := range records {
		st := StyleFor(r.Severity)
		c := card{
			Name:        r.Hospital,
			Status:      r.Status,
			Label:       r.Severity.Label(),
			Gradient:    st.Gradient,
			Badge:       st.Badge,
			HasWait:     r.HasWait(),
			DisplayWait: r.DisplayWait,
			Delay:       strconv.FormatFloat(float64(i)*0.05, 'f', 2, 64),
		}
		if c.HasWait {
			c.Wait = *r.WaitMins
			c.Indicator = WaitDescription(c.Wait)
			c.BarWidth = barWidth(c.Wait)
		}
		out = append(out, c)
	}
	return out
}

func tiles(s models.Stats) []tile {
	return []tile{
		{Icon: "fa-hospital", Tone: "text-white", Border: "border-white/10", Value: strconv.Itoa(s.TotalHospitals), Label: "Total Hospitals"},
		{Icon: "fa-exclamation-triangle", Tone: "text-red-500", Border: "border-red-500/30", Value: strconv.Itoa(s.Critical), Label: "Critical"},
		{Icon: "fa-exclamation-circle", Tone: "text-orange-500", Border: "border-orange-500/30", Value: strconv.Itoa(s.High), Label: "High"},
		{Icon: "fa-clock", Tone: "text-yellow-500", Border: "border-yellow-500/30", Value: strconv.Itoa(s.Moderate), Label: "Moderate"},
		{Icon: "fa-check-circle", Tone: "text-green-500", Border: "border-green-500/30", Value: strconv.Itoa(s.Low), Label: "Low"},
		{Icon: "fa-chart-line", Tone: "text-purple-400", Border: "border-purple-500/30", Value: formatNumber(s.AverageWait), Label: "Avg (mins)"},
	}
}

func banners(alerts []models.Alert) []banner {
	n := min(len(alerts), MaxBanners)
	out := make([]banner, 0, n)
	for _, a := range alerts[:n] {
		out = append(out, banner{High: a.IsHigh(), Message: a.Message})
	}
	return out
}

// Frame renders the hospital list (records already filtered and sorted),
// the stats tiles and the alert banners.
func (r *Renderer) Frame(records []models.HospitalRecord, stats models.Stats, alerts []models.Alert) (Frame, error) {
	hospitals, err := r.execute("hospitals", cards(records))
	if err != nil {
		return Frame{}, err
	}
	tilesHTML, err := r.execute("stats", tiles(stats))
	if err != nil {
		return Frame{}, err
	}
	bannersHTML, err := r.execute("alerts", banners(alerts))
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Hospitals:  hospitals,
		Stats:      tilesHTML,
		Alerts:     bannersHTML,
		AlertCount: len(alerts),
	}, nil
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("error rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Phase names as used by the page template.
const (
	PhaseLoading = "loading"
	PhaseReady   = "ready"
	PhaseError   = "error"
)

// PageData is everything the full page needs besides the frame.
type PageData struct {
	Phase         string
	LastUpdated   string
	Countdown     int
	Refreshing    bool
	Filter        string
	Sort          string
	Frame         Frame
	ExportOpen    bool
	ExportFormats []string
	AlertsOpen    bool
	AlertsLoaded  bool
	AlertsList    []models.Alert
	TrendChart    bool
	SeverityChart bool
}

type alertRow struct {
	High    bool
	Message string
	When    string
}

type pageView struct {
	PageData
	Filters    []string
	Sorts      []sortOption
	AlertRows  []alertRow
	ShowList   bool
	ShowError  bool
	ShowLoader bool
}

type sortOption struct {
	Key   string
	Label string
}

var sortOptions = []sortOption{
	{Key: "wait-desc", Label: "Longest wait"},
	{Key: "wait-asc", Label: "Shortest wait"},
	{Key: "name-asc", Label: "Name A-Z"},
	{Key: "name-desc", Label: "Name Z-A"},
}

// Page writes the whole dashboard document.
func (r *Renderer) Page(w io.Writer, d PageData) error {
	v := pageView{
		PageData:   d,
		Filters:    []string{"all", "critical", "high", "moderate", "low"},
		Sorts:      sortOptions,
		ShowList:   d.Phase == PhaseReady,
		ShowError:  d.Phase == PhaseError,
		ShowLoader: d.Phase != PhaseReady && d.Phase != PhaseError,
	}
	for _, a := range d.AlertsList {
		v.AlertRows = append(v.AlertRows, alertRow{High: a.IsHigh(), Message: a.Message, When: alertTime(a.Timestamp)})
	}

	if err := r.tmpl.ExecuteTemplate(w, "page", v); err != nil {
		return fmt.Errorf("error rendering page: %w", err)
	}
	return nil
}

func alertTime(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(ts))
	if err != nil {
		return ts
	}
	return t.UTC().Format("02/01/2006, 15:04:05")
}
