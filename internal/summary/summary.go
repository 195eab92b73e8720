// Package summary derives dashboard aggregates from a fetched student list.
// Nothing here touches the network; callers recompute after every fetch.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Gungunbajpai07/TutorTrack/internal/students"
)

type Totals struct {
	Students int   `json:"totalStudents"`
	Income   int64 `json:"totalIncome"`
	Pending  int64 `json:"totalPending"`
}

// MonthTotal is the paid sum for one calendar month, labelled "January 2024".
type MonthTotal struct {
	Label string     `json:"label"`
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Paid  int64      `json:"paid"`
}

// ChartPoint is the paid sum for a month of the year across all years.
type ChartPoint struct {
	Month string `json:"month"`
	Paid  int64  `json:"paid"`
}

type Report struct {
	Totals  Totals       `json:"totals"`
	Monthly []MonthTotal `json:"monthly"`
	Chart   []ChartPoint `json:"chart"`
}

// Compute builds the dashboard view. Totals cover the visible (filtered)
// rows while the monthly summary and chart always cover the full list.
func Compute(visible, all []students.Student) Report {
	return Report{
		Totals:  Total(visible),
		Monthly: Monthly(all),
		Chart:   Chart(all),
	}
}

// Total sums paid and pending. Pending is not clamped, so overpayment
// lowers it.
func Total(list []students.Student) Totals {
	t := Totals{Students: len(list)}
	for _, s := range list {
		t.Income += s.Paid
		t.Pending += s.Pending()
	}
	return t
}

// Monthly groups paid amounts by payment month in chronological order.
func Monthly(list []students.Student) []MonthTotal {
	type key struct {
		year  int
		month time.Month
	}
	sums := make(map[key]int64)
	for _, s := range list {
		d := s.Date.UTC()
		sums[key{d.Year(), d.Month()}] += s.Paid
	}
	out := make([]MonthTotal, 0, len(sums))
	for k, paid := range sums {
		out = append(out, MonthTotal{
			Label: fmt.Sprintf("%s %d", k.month, k.year),
			Year:  k.year,
			Month: k.month,
			Paid:  paid,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// Chart merges paid amounts by month of year, ordered Jan..Dec. Months with
// no payments are omitted.
func Chart(list []students.Student) []ChartPoint {
	var sums [12]int64
	var seen [12]bool
	for _, s := range list {
		m := s.Date.UTC().Month() - 1
		sums[m] += s.Paid
		seen[m] = true
	}
	out := make([]ChartPoint, 0, 12)
	for i := range sums {
		if !seen[i] {
			continue
		}
		out = append(out, ChartPoint{Month: time.Month(i + 1).String()[:3], Paid: sums[i]})
	}
	return out
}

// SearchByName keeps students whose name contains q, ignoring case.
// An empty query keeps everything.
func SearchByName(list []students.Student, q string) []students.Student {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]students.Student, 0, len(list))
	for _, s := range list {
		if q == "" || strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

// InMonth keeps students whose payment date falls in month m of any year.
func InMonth(list []students.Student, m time.Month) []students.Student {
	out := make([]students.Student, 0, len(list))
	for _, s := range list {
		if s.Date.UTC().Month() == m {
			out = append(out, s)
		}
	}
	return out
}
