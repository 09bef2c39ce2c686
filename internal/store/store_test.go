package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-scheduler-api/internal/model"
)

func newMock(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func sampleAppointment() *model.Appointment {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return &model.Appointment{
		ID:            "a1",
		ScheduledDate: day,
		StartTime:     day.Add(9 * time.Hour),
		EndTime:       day.Add(9*time.Hour + 30*time.Minute),
		Title:         "Checkup",
		Status:        model.StatusScheduled,
		PatientID:     "p1",
		DoctorID:      "d1",
		Color:         "#3174ad",
	}
}

func TestInsertAppointment(t *testing.T) {
	st, mock := newMock(t)
	a := sampleAppointment()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(a.ID, a.ScheduledDate, a.StartTime, a.EndTime, a.Title, a.Description,
			"scheduled", a.PatientID, a.DoctorID, a.Color).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, st.Insert(context.Background(), a))
	assert.Equal(t, now, a.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertExclusionViolation(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		doctorBusy *bool // nil: no re-check expected
		want       error
	}{
		{"doctor", "appointments_doctor_no_overlap", nil, model.ErrDoctorBusy},
		{"patient only", "appointments_patient_no_overlap", ptrBool(false), model.ErrPatientBusy},
		{"patient reported but doctor also busy", "appointments_patient_no_overlap", ptrBool(true), model.ErrDoctorBusy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, mock := newMock(t)
			a := sampleAppointment()
			mock.ExpectQuery("INSERT INTO appointments").
				WillReturnError(&pgconn.PgError{Code: "23P01", ConstraintName: tt.constraint})
			if tt.doctorBusy != nil {
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs(a.DoctorID, a.ScheduledDate, a.EndTime, a.StartTime, a.ID, "cancelled").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(*tt.doctorBusy))
			}

			err := st.Insert(context.Background(), a)
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func ptrBool(b bool) *bool { return &b }

func TestFindBuildsOverlapQuery(t *testing.T) {
	st, mock := newMock(t)
	a := sampleAppointment()

	where := regexp.QuoteMeta(`WHERE doctor_id = $1 AND scheduled_date = $2 AND start_time < $3 AND end_time > $4 AND id <> $5 AND status <> $6 ORDER BY scheduled_date, start_time, id`)
	cols := []string{"id", "scheduled_date", "start_time", "end_time", "title", "description",
		"status", "patient_id", "doctor_id", "color", "created_at", "updated_at"}
	mock.ExpectQuery(where).
		WithArgs("d1", a.ScheduledDate, a.EndTime, a.StartTime, "self", "cancelled").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(
			"a2", a.ScheduledDate, a.StartTime, a.EndTime, "Other", "", "scheduled",
			"p2", "d1", "#fff", time.Now(), time.Now(),
		))

	got, err := st.Find(context.Background(), model.AppointmentFilter{
		DoctorID:    "d1",
		Date:        a.ScheduledDate.Add(13 * time.Hour),
		WindowStart: a.StartTime,
		WindowEnd:   a.EndTime,
		ExcludeID:   "self",
		ActiveOnly:  true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a2", got[0].ID)
	assert.Equal(t, model.StatusScheduled, got[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindWithoutFilter(t *testing.T) {
	st, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM appointments ORDER BY scheduled_date, start_time, id`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "scheduled_date", "start_time", "end_time", "title",
			"description", "status", "patient_id", "doctor_id", "color", "created_at", "updated_at"}))

	got, err := st.Find(context.Background(), model.AppointmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestGetNotFound(t *testing.T) {
	st, mock := newMock(t)
	mock.ExpectQuery("FROM appointments WHERE id").WithArgs("nope").WillReturnError(pgx.ErrNoRows)

	_, err := st.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetMalformedID(t *testing.T) {
	st, mock := newMock(t)
	mock.ExpectQuery("FROM appointments WHERE id").WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := st.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateMissingRow(t *testing.T) {
	st, mock := newMock(t)
	mock.ExpectQuery("UPDATE appointments").WillReturnError(pgx.ErrNoRows)

	err := st.UpdateByID(context.Background(), sampleAppointment())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	st, mock := newMock(t)
	mock.ExpectExec("DELETE FROM appointments").WithArgs("a1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM appointments").WithArgs("a2").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	ok, err := st.DeleteByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.DeleteByID(context.Background(), "a2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateAccountDoctor(t *testing.T) {
	st, mock := newMock(t)
	u := &model.User{ID: "u1", Email: "doc@example.com", PasswordHash: "h", Name: "Dr. Ada", Role: model.RoleDoctor}
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u1", "doc@example.com", "h", "Dr. Ada", "doctor").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("INSERT INTO doctors").
		WithArgs(pgxmock.AnyArg(), "u1", "cardiology").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, st.CreateAccount(context.Background(), u, "cardiology"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	st, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	mock.ExpectRollback()

	err := st.CreateAccount(context.Background(), &model.User{ID: "u1", Role: model.RolePatient}, "")
	assert.ErrorIs(t, err, model.ErrDuplicate)
}

func TestFindDoctorByUserID(t *testing.T) {
	st, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE d.user_id = $1`)).WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "specialty", "created_at"}).
			AddRow("d1", "u1", "Dr. Ada", "cardiology", time.Now()))

	d, err := st.FindDoctorByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "d1", d.ID)
	assert.Equal(t, "Dr. Ada", d.Name)
}

func TestMapErrPassesThrough(t *testing.T) {
	boom := errors.New("connection reset")
	assert.Same(t, boom, mapErr(boom))
	assert.Nil(t, mapErr(nil))
}

func TestMigrateAppliesFilesInOrder(t *testing.T) {
	st, mock := newMock(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_b.sql"), []byte("SELECT 2"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_a.sql"), []byte("SELECT 1"), 0o600))

	mock.ExpectExec("SELECT 1").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec("SELECT 2").WillReturnResult(pgxmock.NewResult("SELECT", 1))

	applied, err := st.Migrate(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, applied, 2)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = st.Migrate(context.Background(), t.TempDir())
	assert.Error(t, err)
}
