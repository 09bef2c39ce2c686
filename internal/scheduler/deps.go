package scheduler

import (
	"context"

	"hospital-scheduler-api/internal/model"
)

// Directories return model.ErrNotFound for unknown ids.
type PatientDirectory interface {
	FindPatientByUserID(ctx context.Context, userID string) (*model.Patient, error)
	FindPatientByID(ctx context.Context, id string) (*model.Patient, error)
}

type DoctorDirectory interface {
	FindDoctorByUserID(ctx context.Context, userID string) (*model.Doctor, error)
	FindDoctorByID(ctx context.Context, id string) (*model.Doctor, error)
}

// AppointmentStore returns results of Find sorted by date then start time.
// Insert and UpdateByID may report model.ErrDoctorBusy or model.ErrPatientBusy
// when the storage layer itself enforces non-overlap.
type AppointmentStore interface {
	Find(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error)
	Get(ctx context.Context, id string) (*model.Appointment, error)
	Insert(ctx context.Context, a *model.Appointment) error
	UpdateByID(ctx context.Context, a *model.Appointment) error
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// Locker serializes the read-then-write overlap check. Lock blocks until every
// key is held or ctx is done; the returned func releases all of them.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// Backend is implemented by lockers that want their name on metrics.
type Backend interface {
	Backend() string
}
