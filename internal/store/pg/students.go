package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Gungunbajpai07/TutorTrack/internal/ids"
	"github.com/Gungunbajpai07/TutorTrack/internal/students"
)

type studentStore struct{ db *sql.DB }

var _ students.Store = (*studentStore)(nil)

const studentColumns = `id, tutor_id, name, fees, paid, paid_on, attendance, created_at, updated_at`

func (s *studentStore) List(ctx context.Context, tutorID string) ([]students.Student, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+studentColumns+`
		from students
		where tutor_id=$1
		order by created_at desc, id desc
	`, tutorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]students.Student, 0)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *studentStore) Get(ctx context.Context, tutorID, id string) (students.Student, error) {
	return scanStudent(s.db.QueryRowContext(ctx, `
		select `+studentColumns+`
		from students where id=$1 and tutor_id=$2
	`, id, tutorID))
}

func (s *studentStore) Create(ctx context.Context, st students.Student) (students.Student, error) {
	if st.ID == "" {
		st.ID = ids.New()
	}
	return scanStudent(s.db.QueryRowContext(ctx, `
		insert into students(id, tutor_id, name, fees, paid, paid_on, attendance)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning `+studentColumns,
		st.ID, st.TutorID, st.Name, st.Fees, st.Paid, st.Date.UTC(), st.Attendance))
}

// Update writes only the supplied columns so a concurrent attendance mark is
// not overwritten by a payment edit.
func (s *studentStore) Update(ctx context.Context, tutorID, id string, ch students.Changes) (students.Student, error) {
	var date any
	if ch.Date != nil {
		date = ch.Date.UTC()
	}
	return scanStudent(s.db.QueryRowContext(ctx, `
		update students
		set name = coalesce($3, name),
			fees = coalesce($4, fees),
			paid = coalesce($5, paid),
			paid_on = coalesce($6, paid_on),
			attendance = coalesce($7, attendance),
			updated_at = now()
		where id=$1 and tutor_id=$2
		returning `+studentColumns,
		id, tutorID, optional(ch.Name), optional(ch.Fees), optional(ch.Paid), date, optional(ch.Attendance)))
}

func (s *studentStore) Delete(ctx context.Context, tutorID, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from students where id=$1 and tutor_id=$2`, id, tutorID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return students.ErrNotFound
	}
	return nil
}

// IncrementAttendance performs the read-modify-write in one statement so
// concurrent marks are never lost.
func (s *studentStore) IncrementAttendance(ctx context.Context, tutorID, id string) (students.Student, error) {
	return scanStudent(s.db.QueryRowContext(ctx, `
		update students
		set attendance = coalesce(attendance, 0) + 1, updated_at = now()
		where id=$1 and tutor_id=$2
		returning `+studentColumns,
		id, tutorID))
}

// optional turns a nil pointer into a SQL NULL.
func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (students.Student, error) {
	var (
		st    students.Student
		tutor sql.NullString
	)
	err := row.Scan(&st.ID, &tutor, &st.Name, &st.Fees, &st.Paid, &st.Date, &st.Attendance, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return students.Student{}, students.ErrNotFound
	}
	if err != nil {
		return students.Student{}, err
	}
	st.TutorID = tutor.String
	st.Date = st.Date.UTC()
	return st, nil
}
