package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"hospital-scheduler-api/internal/lock"
	"hospital-scheduler-api/internal/metrics"
	"hospital-scheduler-api/internal/model"
)

const DefaultColor = "#3174ad"

var tracer = otel.Tracer("hospital-scheduler-api/scheduler")

// Service validates and commits appointments. It is safe for concurrent use;
// overlapping writes for the same doctor or patient day are serialized by the Locker.
type Service struct {
	patients PatientDirectory
	doctors  DoctorDirectory
	store    AppointmentStore

	locker             Locker
	log                *zap.Logger
	metrics            *metrics.Collector
	enforceTransitions bool
	defaultColor       string
}

type Option func(*Service)

func WithLocker(l Locker) Option { return func(s *Service) { s.locker = l } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

func WithMetrics(m *metrics.Collector) Option { return func(s *Service) { s.metrics = m } }

// WithStatusTransitions toggles the status graph check on update. When off,
// any known status is accepted.
func WithStatusTransitions(on bool) Option {
	return func(s *Service) { s.enforceTransitions = on }
}

func WithDefaultColor(c string) Option {
	return func(s *Service) {
		if c != "" {
			s.defaultColor = c
		}
	}
}

func New(patients PatientDirectory, doctors DoctorDirectory, store AppointmentStore, opts ...Option) *Service {
	s := &Service{
		patients:           patients,
		doctors:            doctors,
		store:              store,
		locker:             lock.NewLocal(),
		log:                zap.NewNop(),
		enforceTransitions: true,
		defaultColor:       DefaultColor,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// resolved is a candidate that passed every check that needs no lock.
type resolved struct {
	appt    model.Appointment
	patient *model.Patient
	doctor  *model.Doctor
}

// prepare runs the fixed-order checks: fields, patient, doctor, interval, date, status.
func (s *Service) prepare(ctx context.Context, c *Candidate) (*resolved, error) {
	if f := c.missingField(); f != "" {
		return nil, missing(f)
	}

	p, err := s.patients.FindPatientByUserID(ctx, c.PatientRef)
	if err != nil {
		return nil, lookupErr("patient", err)
	}
	d, err := s.doctors.FindDoctorByUserID(ctx, c.DoctorRef)
	if err != nil {
		return nil, lookupErr("doctor", err)
	}

	if !c.EndTime.After(c.StartTime) {
		return nil, &Error{Kind: ErrInvalidInterval}
	}

	date, ok := ParseDate(c.Date)
	if !ok {
		return nil, &Error{Kind: ErrInvalidDate, Subject: c.Date}
	}
	if !c.keepDay && !onDay(c.StartTime, date) {
		return nil, &Error{Kind: ErrInvalidDate, Subject: c.Date}
	}

	st := c.Status
	if st == "" {
		st = model.StatusScheduled
	}
	if !st.Valid() {
		return nil, &Error{Kind: ErrInvalidStatus, Subject: string(st)}
	}

	color := c.Color
	if color == "" {
		color = s.defaultColor
	}

	return &resolved{
		appt: model.Appointment{
			ScheduledDate: date,
			StartTime:     c.StartTime,
			EndTime:       c.EndTime,
			Title:         c.Title,
			Description:   *c.Description,
			Status:        st,
			PatientID:     p.ID,
			DoctorID:      d.ID,
			Color:         color,
		},
		patient: p,
		doctor:  d,
	}, nil
}

func lookupErr(entity string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return notFound(entity)
	}
	return persistence("find "+entity, err)
}

// Create validates c and stores it as a new appointment.
func (s *Service) Create(ctx context.Context, c Candidate) (*model.AppointmentDetail, error) {
	ctx, span := tracer.Start(ctx, "scheduler.Create")
	defer span.End()

	out, err := s.create(ctx, &c)
	s.finish(span, "create", err)
	return out, err
}

func (s *Service) create(ctx context.Context, c *Candidate) (*model.AppointmentDetail, error) {
	r, err := s.prepare(ctx, c)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockSlots(ctx, &r.appt)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkOverlap(ctx, &r.appt, ""); err != nil {
		return nil, err
	}

	r.appt.ID = uuid.New().String()
	if err := s.store.Insert(ctx, &r.appt); err != nil {
		return nil, writeErr("insert appointment", err)
	}

	s.log.Debug("appointment created",
		zap.String("id", r.appt.ID),
		zap.String("doctor_id", r.appt.DoctorID),
		zap.String("patient_id", r.appt.PatientID),
	)
	return detail(&r.appt, r.patient, r.doctor), nil
}

// Update applies p to the stored appointment id and revalidates the result
// against every other appointment.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*model.AppointmentDetail, error) {
	ctx, span := tracer.Start(ctx, "scheduler.Update")
	defer span.End()
	span.SetAttributes(attribute.String("appointment.id", id))

	out, err := s.update(ctx, id, p)
	s.finish(span, "update", err)
	return out, err
}

func (s *Service) update(ctx context.Context, id string, p Patch) (*model.AppointmentDetail, error) {
	// held from the read through the write so concurrent patches see each other
	release, err := s.acquire(ctx, appointmentKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, lookupErr("appointment", err)
	}

	c, err := s.candidateFrom(ctx, cur)
	if err != nil {
		return nil, err
	}
	c.keepDay = p.Date == nil && p.StartTime == nil && p.EndTime == nil
	p.apply(c)

	r, err := s.prepare(ctx, c)
	if err != nil {
		return nil, err
	}
	if s.enforceTransitions && !cur.Status.CanTransitionTo(r.appt.Status) {
		return nil, &Error{Kind: ErrInvalidTransition, Subject: string(cur.Status) + " -> " + string(r.appt.Status)}
	}

	r.appt.ID = cur.ID
	r.appt.CreatedAt = cur.CreatedAt

	unlock, err := s.lockSlots(ctx, &r.appt)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkOverlap(ctx, &r.appt, cur.ID); err != nil {
		return nil, err
	}

	if err := s.store.UpdateByID(ctx, &r.appt); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, notFound("appointment")
		}
		return nil, writeErr("update appointment", err)
	}
	return detail(&r.appt, r.patient, r.doctor), nil
}

// candidateFrom turns a stored appointment back into user-level references.
func (s *Service) candidateFrom(ctx context.Context, a *model.Appointment) (*Candidate, error) {
	p, err := s.patients.FindPatientByID(ctx, a.PatientID)
	if err != nil {
		return nil, lookupErr("patient", err)
	}
	d, err := s.doctors.FindDoctorByID(ctx, a.DoctorID)
	if err != nil {
		return nil, lookupErr("doctor", err)
	}
	desc := a.Description
	return &Candidate{
		Date:        FormatDate(a.ScheduledDate),
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Title:       a.Title,
		Description: &desc,
		PatientRef:  p.UserID,
		DoctorRef:   d.UserID,
		Status:      a.Status,
		Color:       a.Color,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "scheduler.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("appointment.id", id))

	err := s.delete(ctx, id)
	s.finish(span, "delete", err)
	return err
}

func (s *Service) delete(ctx context.Context, id string) error {
	release, err := s.acquire(ctx, appointmentKey(id))
	if err != nil {
		return err
	}
	defer release()

	ok, err := s.store.DeleteByID(ctx, id)
	switch {
	case err != nil:
		return persistence("delete appointment", err)
	case !ok:
		return notFound("appointment")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.AppointmentDetail, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, lookupErr("appointment", err)
	}
	n := newNamer(s)
	return n.detail(ctx, a)
}

// ListFilter selects by doctor and/or patient user id; empty means all.
type ListFilter struct {
	DoctorRef  string
	PatientRef string
}

// List returns matching appointments ordered by date then start time.
// Unknown references match nothing.
func (s *Service) List(ctx context.Context, lf ListFilter) ([]model.AppointmentDetail, error) {
	ctx, span := tracer.Start(ctx, "scheduler.List")
	defer span.End()

	var f model.AppointmentFilter
	if lf.DoctorRef != "" {
		d, err := s.doctors.FindDoctorByUserID(ctx, lf.DoctorRef)
		if errors.Is(err, model.ErrNotFound) {
			return []model.AppointmentDetail{}, nil
		} else if err != nil {
			return nil, persistence("find doctor", err)
		}
		f.DoctorID = d.ID
	}
	if lf.PatientRef != "" {
		p, err := s.patients.FindPatientByUserID(ctx, lf.PatientRef)
		if errors.Is(err, model.ErrNotFound) {
			return []model.AppointmentDetail{}, nil
		} else if err != nil {
			return nil, persistence("find patient", err)
		}
		f.PatientID = p.ID
	}

	list, err := s.store.Find(ctx, f)
	if err != nil {
		return nil, persistence("find appointments", err)
	}
	model.SortAppointments(list)

	n := newNamer(s)
	out := make([]model.AppointmentDetail, 0, len(list))
	for i := range list {
		d, err := n.detail(ctx, &list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// checkOverlap looks for active appointments of the same doctor, then the
// same patient, on the same day whose interval intersects a's.
func (s *Service) checkOverlap(ctx context.Context, a *model.Appointment, excludeID string) error {
	if !a.Status.Active() {
		return nil
	}
	base := model.AppointmentFilter{
		Date:        a.ScheduledDate,
		WindowStart: a.StartTime,
		WindowEnd:   a.EndTime,
		ExcludeID:   excludeID,
		ActiveOnly:  true,
	}

	byDoctor := base
	byDoctor.DoctorID = a.DoctorID
	hits, err := s.store.Find(ctx, byDoctor)
	if err != nil {
		return persistence("doctor overlap", err)
	}
	if len(hits) > 0 {
		return conflict("doctor")
	}

	byPatient := base
	byPatient.PatientID = a.PatientID
	hits, err = s.store.Find(ctx, byPatient)
	if err != nil {
		return persistence("patient overlap", err)
	}
	if len(hits) > 0 {
		return conflict("patient")
	}
	return nil
}

func appointmentKey(id string) string { return "appointment:" + id }

func (s *Service) lockSlots(ctx context.Context, a *model.Appointment) (func(), error) {
	day := FormatDate(a.ScheduledDate)
	return s.acquire(ctx, "doctor:"+a.DoctorID+":"+day, "patient:"+a.PatientID+":"+day)
}

// acquire takes keys from the locker and records the wait.
func (s *Service) acquire(ctx context.Context, keys ...string) (func(), error) {
	start := time.Now()
	unlock, err := s.locker.Lock(ctx, keys...)
	if s.metrics != nil {
		backend := "custom"
		if b, ok := s.locker.(Backend); ok {
			backend = b.Backend()
		}
		s.metrics.LockWait.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, persistence("acquire lock", err)
	}
	return unlock, nil
}

// writeErr maps storage-level overlap rejections onto the conflict kind.
func writeErr(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrDoctorBusy):
		return conflict("doctor")
	case errors.Is(err, model.ErrPatientBusy):
		return conflict("patient")
	}
	return persistence(op, err)
}

func (s *Service) finish(span trace.Span, op string, err error) {
	kind := Kind(err)
	if s.metrics != nil {
		s.metrics.Decisions.WithLabelValues(op, kind).Inc()
	}
	if err == nil {
		return
	}
	span.SetAttributes(attribute.String("scheduler.outcome", kind))
	if errors.Is(err, ErrPersistence) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Error("appointment operation failed", zap.String("op", op), zap.Error(err))
		return
	}
	s.log.Info("appointment rejected",
		zap.String("op", op),
		zap.String("kind", kind),
		zap.String("subject", Subject(err)),
	)
}
