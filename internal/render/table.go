package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/mr1hm/go-wait-dashboard/internal/models"
)

// WriteTable prints records as an aligned plain-text table.
func WriteTable(w io.Writer, records []models.HospitalRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HOSPITAL\tSEVERITY\tWAIT (MINS)\tAVERAGE\tSTATUS")
	for _, r := range records {
		wait := "—"
		if r.HasWait() {
			wait = strconv.Itoa(*r.WaitMins)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Hospital, r.Severity.Label(), wait, r.DisplayWait, r.Status)
	}
	return tw.Flush()
}
