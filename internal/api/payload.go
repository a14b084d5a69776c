package api

import (
	"github.com/mr1hm/go-wait-dashboard/internal/dashboard"
	"github.com/mr1hm/go-wait-dashboard/internal/models"
	"github.com/mr1hm/go-wait-dashboard/internal/render"
)

type StateResponse struct {
	Phase       string                  `json:"phase"`
	Countdown   int                     `json:"countdown"`
	Refreshing  bool                    `json:"refreshing"`
	LastUpdated string                  `json:"last_updated"`
	Error       string                  `json:"error,omitempty"`
	Filter      string                  `json:"filter"`
	Sort        string                  `json:"sort"`
	Total       int                     `json:"total"`
	Data        []models.HospitalRecord `json:"data"`
	Stats       models.Stats            `json:"stats"`
	Alerts      []models.Alert          `json:"alerts"`
	Modals      ModalState              `json:"modals"`
	Charts      ChartState              `json:"charts"`
}

type ModalState struct {
	Export bool `json:"export"`
	Alerts bool `json:"alerts"`
}

type ChartState struct {
	Trend    bool `json:"trend"`
	Severity bool `json:"severity"`
}

func toState(v dashboard.View) StateResponse {
	data := v.Records
	if data == nil {
		data = []models.HospitalRecord{}
	}
	alerts := v.Alerts
	if alerts == nil {
		alerts = []models.Alert{}
	}

	return StateResponse{
		Phase:       v.Phase.String(),
		Countdown:   v.Countdown,
		Refreshing:  v.Refreshing,
		LastUpdated: v.LastUpdated,
		Error:       v.LastError,
		Filter:      string(v.Filter),
		Sort:        string(v.Sort),
		Total:       v.Total,
		Data:        data,
		Stats:       v.Stats,
		Alerts:      alerts,
		Modals:      ModalState{Export: v.ExportOpen, Alerts: v.AlertsOpen},
		Charts:      ChartState{Trend: v.TrendChart, Severity: v.SeverityChart},
	}
}

func pageData(v dashboard.View) render.PageData {
	phase := render.PhaseLoading
	switch v.Phase {
	case dashboard.PhaseReady:
		phase = render.PhaseReady
	case dashboard.PhaseError:
		phase = render.PhaseError
	}

	return render.PageData{
		Phase:         phase,
		LastUpdated:   v.LastUpdated,
		Countdown:     v.Countdown,
		Refreshing:    v.Refreshing,
		Filter:        string(v.Filter),
		Sort:          string(v.Sort),
		Frame:         v.Frame,
		ExportOpen:    v.ExportOpen,
		ExportFormats: exportFormats,
		AlertsOpen:    v.AlertsOpen,
		AlertsLoaded:  v.AlertsLoaded,
		AlertsList:    v.AlertsList,
		TrendChart:    v.TrendChart,
		SeverityChart: v.SeverityChart,
	}
}
