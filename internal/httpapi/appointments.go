package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hospital-scheduler-api/internal/model"
	"hospital-scheduler-api/internal/scheduler"
)

// appointmentRequest is shared by create and update. Every field is optional
// on the wire; create treats absent as missing, update as unchanged.
type appointmentRequest struct {
	Date        *string    `json:"date"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	PatientID   *string    `json:"patientId"`
	DoctorID    *string    `json:"doctorId"`
	Status      *string    `json:"status"`
	Color       *string    `json:"color"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (req *appointmentRequest) candidate() scheduler.Candidate {
	return scheduler.Candidate{
		Date:        deref(req.Date),
		StartTime:   deref(req.StartTime),
		EndTime:     deref(req.EndTime),
		Title:       deref(req.Title),
		Description: req.Description,
		PatientRef:  deref(req.PatientID),
		DoctorRef:   deref(req.DoctorID),
		Status:      model.Status(deref(req.Status)),
		Color:       deref(req.Color),
	}
}

func (req *appointmentRequest) patch() scheduler.Patch {
	p := scheduler.Patch{
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Title:       req.Title,
		Description: req.Description,
		PatientRef:  req.PatientID,
		DoctorRef:   req.DoctorID,
		Color:       req.Color,
	}
	if req.Status != nil {
		st := model.Status(*req.Status)
		p.Status = &st
	}
	return p
}

type appointmentResponse struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	DoctorID    string    `json:"doctorId"`
	DoctorName  string    `json:"doctorName"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(d *model.AppointmentDetail) appointmentResponse {
	return appointmentResponse{
		ID:          d.ID,
		Date:        scheduler.FormatDate(d.ScheduledDate),
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		Title:       d.Title,
		Description: d.Description,
		Status:      string(d.Status),
		PatientID:   d.PatientUserID,
		PatientName: d.PatientName,
		DoctorID:    d.DoctorUserID,
		DoctorName:  d.DoctorName,
		Color:       d.Color,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (a *api) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := a.scheduler.Create(r.Context(), req.candidate())
	if err != nil {
		a.schedulerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(d))
}

func (a *api) getAppointment(w http.ResponseWriter, r *http.Request) {
	d, err := a.scheduler.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.schedulerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(d))
}

func (a *api) updateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := a.scheduler.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		a.schedulerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(d))
}

func (a *api) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := a.scheduler.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.schedulerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) listAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a.list(w, r, scheduler.ListFilter{DoctorRef: q.Get("doctor"), PatientRef: q.Get("patient")})
}

func (a *api) listByDoctor(w http.ResponseWriter, r *http.Request) {
	a.list(w, r, scheduler.ListFilter{DoctorRef: chi.URLParam(r, "userID")})
}

func (a *api) listByPatient(w http.ResponseWriter, r *http.Request) {
	a.list(w, r, scheduler.ListFilter{PatientRef: chi.URLParam(r, "userID")})
}

func (a *api) list(w http.ResponseWriter, r *http.Request, f scheduler.ListFilter) {
	list, err := a.scheduler.List(r.Context(), f)
	if err != nil {
		a.schedulerError(w, err)
		return
	}
	out := make([]appointmentResponse, len(list))
	for i := range list {
		out[i] = toResponse(&list[i])
	}
	writeJSON(w, http.StatusOK, out)
}
