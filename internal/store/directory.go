package store

import (
	"context"

	"hospital-scheduler-api/internal/model"
)

// Patients and doctors take their display name from the owning user.

const patientCols = `SELECT p.id, p.user_id, u.name, p.created_at
	FROM patients p JOIN users u ON u.id = p.user_id `

const doctorCols = `SELECT d.id, d.user_id, u.name, d.specialty, d.created_at
	FROM doctors d JOIN users u ON u.id = d.user_id `

func (s *Store) FindPatientByUserID(ctx context.Context, userID string) (*model.Patient, error) {
	return s.patient(ctx, `WHERE p.user_id = $1`, userID)
}

func (s *Store) FindPatientByID(ctx context.Context, id string) (*model.Patient, error) {
	return s.patient(ctx, `WHERE p.id = $1`, id)
}

func (s *Store) patient(ctx context.Context, where string, arg string) (*model.Patient, error) {
	p := &model.Patient{}
	err := s.pool.QueryRow(ctx, patientCols+where, arg).
		Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *Store) FindDoctorByUserID(ctx context.Context, userID string) (*model.Doctor, error) {
	return s.doctor(ctx, `WHERE d.user_id = $1`, userID)
}

func (s *Store) FindDoctorByID(ctx context.Context, id string) (*model.Doctor, error) {
	return s.doctor(ctx, `WHERE d.id = $1`, id)
}

func (s *Store) doctor(ctx context.Context, where string, arg string) (*model.Doctor, error) {
	d := &model.Doctor{}
	err := s.pool.QueryRow(ctx, doctorCols+where, arg).
		Scan(&d.ID, &d.UserID, &d.Name, &d.Specialty, &d.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}
