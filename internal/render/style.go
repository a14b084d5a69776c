package render

import (
	"strconv"

	"github.com/mr1hm/go-wait-dashboard/internal/models"
)

// Style is the fixed visual treatment for a severity.
type Style struct {
	Label    string
	Gradient string
	Badge    string
}

var styles = map[models.Severity]Style{
	models.SeverityCritical: {
		Label:    "Critical",
		Gradient: "from-red-600 to-red-800",
		Badge:    "bg-red-500/20 text-red-400 border border-red-500/30",
	},
	models.SeverityHigh: {
		Label:    "High",
		Gradient: "from-orange-600 to-orange-800",
		Badge:    "bg-orange-500/20 text-orange-400 border border-orange-500/30",
	},
	models.SeverityModerate: {
		Label:    "Moderate",
		Gradient: "from-yellow-600 to-yellow-800",
		Badge:    "bg-yellow-500/20 text-yellow-400 border border-yellow-500/30",
	},
	models.SeverityLow: {
		Label:    "Low",
		Gradient: "from-green-600 to-green-800",
		Badge:    "bg-green-500/20 text-green-400 border border-green-500/30",
	},
	models.SeverityUnknown: {
		Label:    "Unknown",
		Gradient: "from-gray-600 to-gray-800",
		Badge:    "bg-gray-500/20 text-gray-400 border border-gray-500/30",
	},
}

// StyleFor never fails: anything unrecognised gets the neutral style.
func StyleFor(s models.Severity) Style {
	return styles[s.Normalize()]
}

// WaitDescription buckets a wait for the card indicator.
func WaitDescription(minutes int) string {
	switch {
	case minutes < 60:
		return "Excellent"
	case minutes < 120:
		return "Good"
	case minutes < 240:
		return "Busy"
	default:
		return "Very Busy"
	}
}

// barScaleMins is the wait that fills the indicator bar.
const barScaleMins = 300

func barWidth(minutes int) string {
	pct := float64(minutes) / barScaleMins * 100
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return strconv.FormatFloat(pct, 'f', 2, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
