package model

import (
	"errors"
	"time"
)

// persistence-level errors shared by every store implementation
var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("record already exists")
	ErrDoctorBusy  = errors.New("doctor slot already taken")
	ErrPatientBusy = errors.New("patient slot already taken")
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Patient and Doctor are keyed by their own id but looked up by the owning user.
type Patient struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}

type Doctor struct {
	ID        string
	UserID    string
	Name      string
	Specialty string
	CreatedAt time.Time
}

type RefreshToken struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}

type Appointment struct {
	ID            string
	ScheduledDate time.Time
	StartTime     time.Time
	EndTime       time.Time
	Title         string
	Description   string
	Status        Status
	PatientID     string
	DoctorID      string
	Color         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AppointmentDetail is an appointment with its participants' display names.
type AppointmentDetail struct {
	Appointment
	PatientUserID string
	PatientName   string
	DoctorUserID  string
	DoctorName    string
}
