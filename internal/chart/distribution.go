package chart

import (
	"bytes"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mr1hm/go-wait-dashboard/internal/models"
	"github.com/mr1hm/go-wait-dashboard/internal/view"
)

var bucketColors = map[models.Severity]drawing.Color{
	models.SeverityCritical: drawing.ColorFromHex("dc2626"),
	models.SeverityHigh:     drawing.ColorFromHex("f97316"),
	models.SeverityModerate: drawing.ColorFromHex("eab308"),
	models.SeverityLow:      drawing.ColorFromHex("10b981"),
}

var bucketLabels = map[models.Severity]string{
	models.SeverityCritical: "Critical",
	models.SeverityHigh:     "High",
	models.SeverityModerate: "Moderate",
	models.SeverityLow:      "Low",
}

// DistributionAdapter draws how many hospitals sit in each severity bucket.
type DistributionAdapter struct {
	slot
	Width  int
	Height int
}

func NewDistributionAdapter() *DistributionAdapter {
	return &DistributionAdapter{
		slot:   slot{kind: "distribution"},
		Width:  defaultHeight,
		Height: defaultHeight,
	}
}

// Redraw recounts the buckets from records and replaces the chart. When
// no record falls in a graded bucket the adapter is left empty.
func (a *DistributionAdapter) Redraw(records []models.HospitalRecord) error {
	counts := view.CountBySeverity(records)
	return a.replace(func() ([]byte, error) {
		return a.render(counts)
	})
}

func (a *DistributionAdapter) render(counts map[models.Severity]int) ([]byte, error) {
	var values []gochart.Value
	for _, s := range models.Buckets {
		if counts[s] == 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s (%d)", bucketLabels[s], counts[s]),
			Value: float64(counts[s]),
			Style: gochart.Style{
				FillColor:   bucketColors[s],
				StrokeColor: bucketColors[s],
				FontColor:   drawing.ColorWhite,
			},
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	donut := gochart.DonutChart{
		Width:  a.Width,
		Height: a.Height,
		Values: values,
	}

	var buf bytes.Buffer
	if err := donut.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("error rendering distribution chart: %w", err)
	}
	return buf.Bytes(), nil
}
