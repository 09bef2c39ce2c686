// Package memory is a map-backed store for development and tests. It mirrors
// the Postgres store's behaviour, including the non-overlap constraints.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hospital-scheduler-api/internal/model"
)

type Store struct {
	mu           sync.RWMutex
	users        map[string]model.User
	patients     map[string]model.Patient
	doctors      map[string]model.Doctor
	appointments map[string]model.Appointment
	tokens       map[string]model.RefreshToken
}

func New() *Store {
	return &Store{
		users:        make(map[string]model.User),
		patients:     make(map[string]model.Patient),
		doctors:      make(map[string]model.Doctor),
		appointments: make(map[string]model.Appointment),
		tokens:       make(map[string]model.RefreshToken),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

// ----- accounts -----

func (s *Store) CreateAccount(_ context.Context, u *model.User, specialty string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *u

	switch u.Role {
	case model.RolePatient:
		p := model.Patient{ID: uuid.New().String(), UserID: u.ID, Name: u.Name, CreatedAt: now}
		s.patients[p.ID] = p
	case model.RoleDoctor:
		d := model.Doctor{ID: uuid.New().String(), UserID: u.ID, Name: u.Name, Specialty: specialty, CreatedAt: now}
		s.doctors[d.ID] = d
	}
	return nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *Store) UserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &u, nil
}

// ----- directories -----

func (s *Store) FindPatientByUserID(_ context.Context, userID string) (*model.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *Store) FindPatientByID(_ context.Context, id string) (*model.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &p, nil
}

func (s *Store) FindDoctorByUserID(_ context.Context, userID string) (*model.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.doctors {
		if d.UserID == userID {
			return &d, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *Store) FindDoctorByID(_ context.Context, id string) (*model.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.doctors[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &d, nil
}

// ----- appointments -----

func (s *Store) Find(_ context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Appointment{}
	for _, a := range s.appointments {
		if f.Matches(&a) {
			out = append(out, a)
		}
	}
	model.SortAppointments(out)
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &a, nil
}

func (s *Store) Insert(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[a.ID]; ok {
		return model.ErrDuplicate
	}
	if err := s.checkExclusion(a); err != nil {
		return err
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	s.appointments[a.ID] = *a
	return nil
}

func (s *Store) UpdateByID(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.appointments[a.ID]
	if !ok {
		return model.ErrNotFound
	}
	if err := s.checkExclusion(a); err != nil {
		return err
	}
	a.CreatedAt = cur.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	s.appointments[a.ID] = *a
	return nil
}

func (s *Store) DeleteByID(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return false, nil
	}
	delete(s.appointments, id)
	return true, nil
}

// checkExclusion is the in-memory twin of the gist exclusion constraints.
func (s *Store) checkExclusion(a *model.Appointment) error {
	if !a.Status.Active() {
		return nil
	}
	f := model.AppointmentFilter{
		Date:        a.ScheduledDate,
		WindowStart: a.StartTime,
		WindowEnd:   a.EndTime,
		ExcludeID:   a.ID,
		ActiveOnly:  true,
	}
	// doctor clashes win over patient clashes regardless of map order
	patientBusy := false
	for _, other := range s.appointments {
		if !f.Matches(&other) {
			continue
		}
		if other.DoctorID == a.DoctorID {
			return model.ErrDoctorBusy
		}
		if other.PatientID == a.PatientID {
			patientBusy = true
		}
	}
	if patientBusy {
		return model.ErrPatientBusy
	}
	return nil
}

// ----- refresh tokens -----

func (s *Store) CreateRefreshToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.tokens[id] = model.RefreshToken{
		ID: id, UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt, CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

func (s *Store) GetRefreshTokenByHash(_ context.Context, tokenHash string) (*model.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rt := range s.tokens {
		if rt.TokenHash == tokenHash {
			return &rt, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *Store) RotateRefreshToken(_ context.Context, oldID, newID, userID, newHash string, newExpiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.tokens[oldID]
	if !ok || old.Revoked {
		return model.ErrNotFound
	}
	old.Revoked = true
	old.ReplacedBy = &newID
	s.tokens[oldID] = old
	s.tokens[newID] = model.RefreshToken{
		ID: newID, UserID: userID, TokenHash: newHash, ExpiresAt: newExpiry, CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *Store) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rt := range s.tokens {
		if rt.UserID == userID && !rt.Revoked {
			rt.Revoked = true
			s.tokens[id] = rt
		}
	}
	return nil
}
