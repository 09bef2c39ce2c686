package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hospital-scheduler-api/internal/model"
)

const appointmentCols = `id, scheduled_date, start_time, end_time, title, description,
	status, patient_id, doctor_id, color, created_at, updated_at`

func (s *Store) Insert(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, scheduled_date, start_time, end_time, title, description,
		                           status, patient_id, doctor_id, color)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING created_at, updated_at`,
		a.ID, a.ScheduledDate, a.StartTime, a.EndTime, a.Title, a.Description,
		string(a.Status), a.PatientID, a.DoctorID, a.Color,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return s.busyScope(ctx, a, mapErr(err))
}

// busyScope reports a doctor clash ahead of a patient clash when both
// constraints would reject a, whichever one Postgres happened to check first.
func (s *Store) busyScope(ctx context.Context, a *model.Appointment, err error) error {
	if !errors.Is(err, model.ErrPatientBusy) {
		return err
	}
	var doctorBusy bool
	qerr := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM appointments
		   WHERE doctor_id = $1 AND scheduled_date = $2
		     AND start_time < $3 AND end_time > $4
		     AND id <> $5 AND status <> $6)`,
		a.DoctorID, a.ScheduledDate, a.EndTime, a.StartTime, a.ID, string(model.StatusCancelled),
	).Scan(&doctorBusy)
	if qerr == nil && doctorBusy {
		return model.ErrDoctorBusy
	}
	return err
}

// Find builds the WHERE clause from the non-zero filter fields. The overlap
// predicate matches model.Overlaps: start < window end AND end > window start.
func (s *Store) Find(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.DoctorID != "" {
		add("doctor_id = $%d", f.DoctorID)
	}
	if f.PatientID != "" {
		add("patient_id = $%d", f.PatientID)
	}
	if !f.Date.IsZero() {
		add("scheduled_date = $%d", model.DateOf(f.Date))
	}
	if f.HasWindow() {
		add("start_time < $%d", f.WindowEnd)
		add("end_time > $%d", f.WindowStart)
	}
	if f.ExcludeID != "" {
		add("id <> $%d", f.ExcludeID)
	}
	if f.ActiveOnly {
		add("status <> $%d", string(model.StatusCancelled))
	}

	q := `SELECT ` + appointmentCols + ` FROM appointments`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY scheduled_date, start_time, id`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	row := s.pool.QueryRow(ctx, `SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id)
	if err := scanAppointment(row, a); err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (s *Store) UpdateByID(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET scheduled_date=$1, start_time=$2, end_time=$3, title=$4, description=$5,
		     status=$6, patient_id=$7, doctor_id=$8, color=$9, updated_at=NOW()
		 WHERE id=$10
		 RETURNING created_at, updated_at`,
		a.ScheduledDate, a.StartTime, a.EndTime, a.Title, a.Description,
		string(a.Status), a.PatientID, a.DoctorID, a.Color, a.ID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return s.busyScope(ctx, a, mapErr(err))
}

func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		if mapErr(err) == model.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row scanner, a *model.Appointment) error {
	var status string
	err := row.Scan(
		&a.ID, &a.ScheduledDate, &a.StartTime, &a.EndTime, &a.Title, &a.Description,
		&status, &a.PatientID, &a.DoctorID, &a.Color, &a.CreatedAt, &a.UpdatedAt,
	)
	a.Status = model.Status(status)
	return err
}
