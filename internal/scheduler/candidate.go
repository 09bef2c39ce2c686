package scheduler

import (
	"strings"
	"time"

	"hospital-scheduler-api/internal/model"
)

// Candidate is a proposed new appointment. PatientRef and DoctorRef are user ids.
// Description is a pointer so that "absent" and "empty" stay distinguishable.
type Candidate struct {
	Date        string
	StartTime   time.Time
	EndTime     time.Time
	Title       string
	Description *string
	PatientRef  string
	DoctorRef   string
	Status      model.Status
	Color       string

	// set by updates that leave the date and both times untouched
	keepDay bool
}

// Patch is a partial update; nil fields keep the stored value.
type Patch struct {
	Date        *string
	StartTime   *time.Time
	EndTime     *time.Time
	Title       *string
	Description *string
	PatientRef  *string
	DoctorRef   *string
	Status      *model.Status
	Color       *string
}

func (c *Candidate) missingField() string {
	switch {
	case strings.TrimSpace(c.Date) == "":
		return "date"
	case c.StartTime.IsZero():
		return "startTime"
	case c.EndTime.IsZero():
		return "endTime"
	case strings.TrimSpace(c.Title) == "":
		return "title"
	case c.Description == nil:
		return "description"
	case c.PatientRef == "":
		return "patientRef"
	case c.DoctorRef == "":
		return "doctorRef"
	}
	return ""
}

// apply overlays p on the candidate built from the stored appointment.
func (p Patch) apply(c *Candidate) {
	if p.Date != nil {
		c.Date = *p.Date
	}
	if p.StartTime != nil {
		c.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		c.EndTime = *p.EndTime
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = p.Description
	}
	if p.PatientRef != nil {
		c.PatientRef = *p.PatientRef
	}
	if p.DoctorRef != nil {
		c.DoctorRef = *p.DoctorRef
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
}

const dateLayout = "2006-01-02"

// ParseDate accepts a bare calendar date or a full RFC 3339 timestamp and
// returns the calendar day at UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		// keep the caller's calendar day, not the UTC one
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// onDay reports whether t falls on the calendar day date, read either in
// t's own offset or in UTC.
func onDay(t, date time.Time) bool {
	y, m, d := date.Date()
	if ty, tm, td := t.Date(); ty == y && tm == m && td == d {
		return true
	}
	uy, um, ud := t.UTC().Date()
	return uy == y && um == m && ud == d
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
