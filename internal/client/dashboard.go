package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Gungunbajpai07/TutorTrack/internal/students"
	"github.com/Gungunbajpai07/TutorTrack/internal/summary"
)

// Dashboard holds one tutor's fetched list and view filters. Filters only
// narrow the local copy; mutations go to the server and are followed by a
// re-fetch.
type Dashboard struct {
	api *Client
	now func() time.Time

	mu     sync.Mutex
	all    []students.Student
	search string
	month  time.Month
}

func NewDashboard(api *Client) *Dashboard {
	return &Dashboard{api: api, now: time.Now}
}

// Refresh replaces the local list with the server's.
func (d *Dashboard) Refresh(ctx context.Context) error {
	list, err := d.api.ListStudents(ctx)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.all = list
	d.mu.Unlock()
	return nil
}

// Search narrows the view by case-insensitive name substring.
func (d *Dashboard) Search(q string) {
	d.mu.Lock()
	d.search = q
	d.mu.Unlock()
}

// CurrentMonth narrows the view to payments made in the current month of
// any year.
func (d *Dashboard) CurrentMonth() {
	d.mu.Lock()
	d.month = d.now().Month()
	d.mu.Unlock()
}

// ShowAll clears every filter.
func (d *Dashboard) ShowAll() {
	d.mu.Lock()
	d.search = ""
	d.month = 0
	d.mu.Unlock()
}

// Visible returns the filtered rows.
func (d *Dashboard) Visible() []students.Student {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visibleLocked()
}

func (d *Dashboard) visibleLocked() []students.Student {
	out := summary.SearchByName(d.all, d.search)
	if d.month != 0 {
		out = summary.InMonth(out, d.month)
	}
	return out
}

// Report computes totals over the visible rows and the monthly summary and
// chart over the full list.
func (d *Dashboard) Report() summary.Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	return summary.Compute(d.visibleLocked(), d.all)
}

func (d *Dashboard) Add(ctx context.Context, in students.Input) (students.Student, error) {
	st, err := d.api.CreateStudent(ctx, in)
	if err != nil {
		return students.Student{}, err
	}
	return st, d.Refresh(ctx)
}

func (d *Dashboard) Update(ctx context.Context, id string, p students.Patch) (students.Student, error) {
	st, err := d.api.UpdateStudent(ctx, id, p)
	if err != nil {
		return students.Student{}, err
	}
	return st, d.Refresh(ctx)
}

// Pay sets the paid amount to the full fee.
func (d *Dashboard) Pay(ctx context.Context, id string) (students.Student, error) {
	cur, err := d.api.GetStudent(ctx, id)
	if err != nil {
		return students.Student{}, err
	}
	fees := cur.Fees
	return d.Update(ctx, id, students.Patch{Paid: &fees})
}

func (d *Dashboard) MarkPresent(ctx context.Context, id string) (students.Student, error) {
	st, err := d.api.MarkAttendance(ctx, id)
	if err != nil {
		return students.Student{}, err
	}
	return st, d.Refresh(ctx)
}

func (d *Dashboard) Remove(ctx context.Context, id string) error {
	if err := d.api.DeleteStudent(ctx, id); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

// Find returns the first fetched student whose name matches exactly,
// ignoring case.
func (d *Dashboard) Find(name string) (students.Student, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.all {
		if strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return students.Student{}, false
}

// Reminder returns the fee reminder line for a student.
func Reminder(s students.Student) string {
	return "Reminder sent to " + s.Name
}
