package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Gungunbajpai07/TutorTrack/internal/students"
	"github.com/Gungunbajpai07/TutorTrack/internal/summary"
)

func render(out io.Writer, list []students.Student, r summary.Report) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFEES\tPAID\tPENDING\tDATE\tATTENDANCE")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%d\n",
			s.ID, s.Name, s.Fees, s.Paid, s.Pending(), s.Date.Format("2006-01-02"), s.Attendance)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total students\t%d\n", r.Totals.Students)
	fmt.Fprintf(w, "Total income\t%d\n", r.Totals.Income)
	fmt.Fprintf(w, "Total pending\t%d\n", r.Totals.Pending)
	if len(r.Monthly) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "MONTH\tPAID")
		for _, m := range r.Monthly {
			fmt.Fprintf(w, "%s\t%d\n", m.Label, m.Paid)
		}
	}
	if len(r.Chart) > 0 {
		fmt.Fprintln(w)
		for _, p := range r.Chart {
			fmt.Fprintf(w, "%s\t%d\n", p.Month, p.Paid)
		}
	}
	return w.Flush()
}
