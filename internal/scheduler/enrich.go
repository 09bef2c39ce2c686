package scheduler

import (
	"context"

	"hospital-scheduler-api/internal/model"
)

func detail(a *model.Appointment, p *model.Patient, d *model.Doctor) *model.AppointmentDetail {
	return &model.AppointmentDetail{
		Appointment:   *a,
		PatientUserID: p.UserID,
		PatientName:   p.Name,
		DoctorUserID:  d.UserID,
		DoctorName:    d.Name,
	}
}

// namer caches directory lookups for the lifetime of one list call.
type namer struct {
	s        *Service
	patients map[string]*model.Patient
	doctors  map[string]*model.Doctor
}

func newNamer(s *Service) *namer {
	return &namer{
		s:        s,
		patients: make(map[string]*model.Patient),
		doctors:  make(map[string]*model.Doctor),
	}
}

func (n *namer) detail(ctx context.Context, a *model.Appointment) (*model.AppointmentDetail, error) {
	p, ok := n.patients[a.PatientID]
	if !ok {
		var err error
		if p, err = n.s.patients.FindPatientByID(ctx, a.PatientID); err != nil {
			return nil, lookupErr("patient", err)
		}
		n.patients[a.PatientID] = p
	}
	d, ok := n.doctors[a.DoctorID]
	if !ok {
		var err error
		if d, err = n.s.doctors.FindDoctorByID(ctx, a.DoctorID); err != nil {
			return nil, lookupErr("doctor", err)
		}
		n.doctors[a.DoctorID] = d
	}
	return detail(a, p, d), nil
}
