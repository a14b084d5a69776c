// Package view turns the current record set into what the hospital list
// shows: a filtered, ordered copy. Nothing here touches shared state.
package view

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mr1hm/go-wait-dashboard/internal/models"
)

var (
	ErrUnknownFilter = errors.New("unknown severity filter")
	ErrUnknownSort   = errors.New("unknown sort key")
)

// Filter is either FilterAll or a severity.
type Filter string

const FilterAll Filter = "all"

type SortKey string

const (
	SortWaitDesc SortKey = "wait-desc"
	SortWaitAsc  SortKey = "wait-asc"
	SortNameAsc  SortKey = "name-asc"
	SortNameDesc SortKey = "name-desc"
)

func ParseFilter(s string) (Filter, error) {
	if Filter(s) == FilterAll {
		return FilterAll, nil
	}
	if models.Severity(s).Known() {
		return Filter(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortWaitDesc, SortWaitAsc, SortNameAsc, SortNameDesc:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

func (f Filter) Match(r models.HospitalRecord) bool {
	return f == FilterAll || Filter(r.Severity) == f
}

// Apply returns the records matching f, ordered by key. The result is a
// new slice; records is left as is. Equal keys keep their input order.
// A record with no wait compares as a zero wait. An unrecognised key
// leaves the filtered order alone.
func Apply(records []models.HospitalRecord, f Filter, key SortKey) []models.HospitalRecord {
	out := make([]models.HospitalRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}

	if less := comparator(key); less != nil {
		slices.SortStableFunc(out, less)
	}
	return out
}

func comparator(key SortKey) func(a, b models.HospitalRecord) int {
	switch key {
	case SortWaitDesc:
		return func(a, b models.HospitalRecord) int { return cmp.Compare(b.Wait(), a.Wait()) }
	case SortWaitAsc:
		return func(a, b models.HospitalRecord) int { return cmp.Compare(a.Wait(), b.Wait()) }
	case SortNameAsc:
		c := newCollator()
		return func(a, b models.HospitalRecord) int { return c.CompareString(a.Hospital, b.Hospital) }
	case SortNameDesc:
		c := newCollator()
		return func(a, b models.HospitalRecord) int { return c.CompareString(b.Hospital, a.Hospital) }
	}
	return nil
}

// A Collator keeps scratch buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// CountBySeverity scans records once per graded bucket.
func CountBySeverity(records []models.HospitalRecord) map[models.Severity]int {
	counts := make(map[models.Severity]int, len(models.Buckets))
	for _, s := range models.Buckets {
		n := 0
		for _, r := range records {
			if r.Severity == s {
				n++
			}
		}
		counts[s] = n
	}
	return counts
}
