package dashboard

import (
	"errors"
	"fmt"

	"github.com/mr1hm/go-wait-dashboard/internal/models"
	"github.com/mr1hm/go-wait-dashboard/internal/render"
	"github.com/mr1hm/go-wait-dashboard/internal/view"
)

var (
	ErrStopped      = errors.New("dashboard stopped")
	ErrUnknownModal = errors.New("unknown modal")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

type Modal string

const (
	ModalExport Modal = "export"
	ModalAlerts Modal = "alerts"
)

func ParseModal(s string) (Modal, error) {
	switch m := Modal(s); m {
	case ModalExport, ModalAlerts:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModal, s)
}

// View is a published, read-only copy of the dashboard state. Slices are
// shared between views and must not be modified.
type View struct {
	Phase       Phase
	Countdown   int
	Refreshing  bool
	LastUpdated string
	LastError   string

	Filter  view.Filter
	Sort    view.SortKey
	Records []models.HospitalRecord // filtered and sorted
	Total   int                     // records in the store
	Stats   models.Stats
	Alerts  []models.Alert
	Frame   render.Frame

	ExportOpen   bool
	AlertsOpen   bool
	AlertsLoaded bool
	AlertsList   []models.Alert

	TrendChart    bool
	SeverityChart bool

	// Issued counts wait-time requests; Resolved counts responses handled,
	// applied or discarded. Applied is the generation on screen.
	Issued   uint64
	Resolved uint64
	Applied  uint64
}

// state is owned by the event loop and never touched from elsewhere.
type state struct {
	phase       Phase
	countdown   int
	refreshing  bool
	manualGen   uint64
	lastUpdated string
	lastErr     string

	filter  view.Filter
	sort    view.SortKey
	records []models.HospitalRecord
	total   int
	stats   models.Stats
	alerts  []models.Alert
	frame   render.Frame

	exportOpen   bool
	alertsOpen   bool
	alertsLoaded bool
	alertsList   []models.Alert

	issued   uint64
	resolved uint64
	applied  uint64
}

func (s *state) snapshot() *View {
	return &View{
		Phase:        s.phase,
		Countdown:    s.countdown,
		Refreshing:   s.refreshing,
		LastUpdated:  s.lastUpdated,
		LastError:    s.lastErr,
		Filter:       s.filter,
		Sort:         s.sort,
		Records:      s.records,
		Total:        s.total,
		Stats:        s.stats,
		Alerts:       s.alerts,
		Frame:        s.frame,
		ExportOpen:   s.exportOpen,
		AlertsOpen:   s.alertsOpen,
		AlertsLoaded: s.alertsLoaded,
		AlertsList:   s.alertsList,
		Issued:       s.issued,
		Resolved:     s.resolved,
		Applied:      s.applied,
	}
}
