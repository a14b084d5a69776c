package chart

import (
	"bytes"
	"fmt"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mr1hm/go-wait-dashboard/internal/models"
)

const (
	defaultWidth  = 640
	defaultHeight = 320
)

var (
	averageColor = drawing.ColorFromHex("0066cc")
	maximumColor = drawing.ColorFromHex("dc2626")
)

// TrendAdapter draws average and maximum wait over time.
type TrendAdapter struct {
	slot
	Width  int
	Height int
}

func NewTrendAdapter() *TrendAdapter {
	return &TrendAdapter{
		slot:   slot{kind: "trend"},
		Width:  defaultWidth,
		Height: defaultHeight,
	}
}

// Redraw replaces the chart with one built from snapshots, which must be
// oldest first. With no snapshots the current chart is kept.
func (a *TrendAdapter) Redraw(snapshots []models.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	return a.replace(func() ([]byte, error) {
		return a.render(snapshots)
	})
}

func (a *TrendAdapter) render(snapshots []models.Snapshot) ([]byte, error) {
	times := make([]time.Time, 0, len(snapshots)+1)
	avg := make([]float64, 0, len(snapshots)+1)
	peak := make([]float64, 0, len(snapshots)+1)
	top := 1.0

	for _, s := range snapshots {
		times = append(times, s.Timestamp)
		avg = append(avg, s.Stats.AverageWait)
		peak = append(peak, s.Stats.MaxWait)
		top = max(top, s.Stats.AverageWait, s.Stats.MaxWait)
	}

	// go-chart needs two x values to build a range
	if len(times) == 1 {
		times = append(times, times[0].Add(time.Minute))
		avg = append(avg, avg[0])
		peak = append(peak, peak[0])
	}

	ch := gochart.Chart{
		Width:      a.Width,
		Height:     a.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 16, Bottom: 10}},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("15:04"),
		},
		YAxis: gochart.YAxis{
			Name:  "minutes",
			Range: &gochart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Average Wait",
				XValues: times,
				YValues: avg,
				Style: gochart.Style{
					StrokeColor: averageColor,
					FillColor:   averageColor.WithAlpha(26),
					StrokeWidth: 2,
				},
			},
			gochart.TimeSeries{
				Name:    "Maximum Wait",
				XValues: times,
				YValues: peak,
				Style: gochart.Style{
					StrokeColor: maximumColor,
					FillColor:   maximumColor.WithAlpha(26),
					StrokeWidth: 2,
				},
			},
		},
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("error rendering trend chart: %w", err)
	}
	return buf.Bytes(), nil
}
