package model

import (
	"sort"
	"time"
)

// AppointmentFilter narrows a Find. Zero fields are ignored.
type AppointmentFilter struct {
	DoctorID  string
	PatientID string
	Date      time.Time // compared by calendar day

	// Overlap window, half-open: an appointment matches when
	// its start < WindowEnd and its end > WindowStart.
	WindowStart time.Time
	WindowEnd   time.Time

	ExcludeID  string
	ActiveOnly bool
}

func (f AppointmentFilter) HasWindow() bool {
	return !f.WindowStart.IsZero() && !f.WindowEnd.IsZero()
}

func (f AppointmentFilter) Matches(a *Appointment) bool {
	if f.DoctorID != "" && a.DoctorID != f.DoctorID {
		return false
	}
	if f.PatientID != "" && a.PatientID != f.PatientID {
		return false
	}
	if !f.Date.IsZero() && !SameDay(a.ScheduledDate, f.Date) {
		return false
	}
	if f.HasWindow() && !Overlaps(a.StartTime, a.EndTime, f.WindowStart, f.WindowEnd) {
		return false
	}
	if f.ExcludeID != "" && a.ID == f.ExcludeID {
		return false
	}
	if f.ActiveOnly && !a.Status.Active() {
		return false
	}
	return true
}

// Overlaps treats both intervals as [start, end) so back-to-back slots do not collide.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// SortAppointments orders by scheduled date, then start time, then id for stability.
func SortAppointments(list []Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.ScheduledDate.Equal(b.ScheduledDate) {
			return a.ScheduledDate.Before(b.ScheduledDate)
		}
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		return a.ID < b.ID
	})
}
