package models

import "time"

type Stats struct {
	TotalHospitals int     `json:"total_hospitals"`
	Critical       int     `json:"critical"`
	High           int     `json:"high"`
	Moderate       int     `json:"moderate"`
	Low            int     `json:"low"`
	Unknown        int     `json:"unknown"`
	AverageWait    float64 `json:"average_wait"`
	MaxWait        float64 `json:"max_wait"`
	MinWait        float64 `json:"min_wait"`
}

// Snapshot is one historical aggregate point used by the trend chart.
type Snapshot struct {
	Timestamp        time.Time
	DisplayTimestamp string
	Stats            Stats
}
