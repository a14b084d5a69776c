package models

type Alert struct {
	Type      string `json:"type,omitempty"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Hospital  string `json:"hospital,omitempty"`
}

// IsHigh reports whether the alert gets the high (red) treatment; every
// other severity is shown as a warning.
func (a Alert) IsHigh() bool {
	return a.Severity == "high"
}
