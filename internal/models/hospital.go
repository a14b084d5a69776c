package models

import "strings"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
	SeverityUnknown  Severity = "unknown"
)

// Buckets are the graded severities in display order. Unknown is not a bucket.
var Buckets = []Severity{SeverityCritical, SeverityHigh, SeverityModerate, SeverityLow}

func (s Severity) Known() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityModerate, SeverityLow, SeverityUnknown:
		return true
	}
	return false
}

// Normalize maps anything the backend sends that we don't recognise to unknown.
func (s Severity) Normalize() Severity {
	if s.Known() {
		return s
	}
	return SeverityUnknown
}

func (s Severity) Label() string {
	return strings.ToUpper(string(s.Normalize()))
}

// HospitalRecord is one emergency department as reported by the backend
// on a single poll. Severity is assigned upstream and kept verbatim.
type HospitalRecord struct {
	Hospital    string   `json:"hospital"`
	Status      string   `json:"status"`
	WaitMins    *int     `json:"wait_mins"`
	DisplayWait string   `json:"display_wait"`
	Severity    Severity `json:"severity"`
}

// Wait returns the wait in minutes, treating an unknown wait as 0.
func (h HospitalRecord) Wait() int {
	if h.WaitMins == nil {
		return 0
	}
	return *h.WaitMins
}

func (h HospitalRecord) HasWait() bool {
	return h.WaitMins != nil
}
