package students

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("student not found")
	ErrInvalidInput = errors.New("invalid student")
)

// Student is a tuition and attendance record owned by one tutor.
// Amounts are whole currency units.
type Student struct {
	ID         string    `json:"id"`
	TutorID    string    `json:"tutor,omitempty"`
	Name       string    `json:"name" validate:"required"`
	Fees       int64     `json:"fees" validate:"min=0"`
	Paid       int64     `json:"paid" validate:"min=0"`
	Date       time.Time `json:"date" validate:"required"`
	Attendance int64     `json:"attendance" validate:"min=0"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Pending is fees minus paid. Negative when the student overpaid.
func (s Student) Pending() int64 { return s.Fees - s.Paid }

// MarshalJSON mirrors the id under "_id" for clients written against the
// document-store API.
func (s Student) MarshalJSON() ([]byte, error) {
	type plain Student
	return json.Marshal(struct {
		LegacyID string `json:"_id"`
		plain
	}{LegacyID: s.ID, plain: plain(s)})
}

// Input carries the fields accepted when creating a student. Any tutor field
// sent by the client is decoded and then ignored.
type Input struct {
	Name       string `json:"name" validate:"required"`
	Fees       *int64 `json:"fees" validate:"required,min=0"`
	Paid       *int64 `json:"paid" validate:"required,min=0"`
	Date       *Date  `json:"date,omitempty"`
	Attendance *int64 `json:"attendance,omitempty" validate:"omitempty,min=0"`

	Tutor string `json:"tutor,omitempty"`
}

// Patch carries a partial update. Nil fields keep their stored value.
// Record metadata echoed back by clients is accepted and ignored.
type Patch struct {
	Name       *string `json:"name,omitempty"`
	Fees       *int64  `json:"fees,omitempty"`
	Paid       *int64  `json:"paid,omitempty"`
	Date       *Date   `json:"date,omitempty"`
	Attendance *int64  `json:"attendance,omitempty"`

	ID        string          `json:"id,omitempty"`
	LegacyID  string          `json:"_id,omitempty"`
	Tutor     string          `json:"tutor,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
	Version   json.RawMessage `json:"__v,omitempty"`
}

// Date is a payment date accepted as YYYY-MM-DD or RFC 3339.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD or RFC 3339 input.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return Date{t.UTC()}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return Date{}, errors.New("date must be YYYY-MM-DD or RFC 3339")
	}
	return Date{t.UTC()}, nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.New("date must be a string")
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}
