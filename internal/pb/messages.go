package pb

import (
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// ----- accounts -----

type RegisterRequest struct {
	Email     string // 1
	Password  string // 2
	Name      string // 3
	Role      string // 4
	Specialty string // 5
}

func (m *RegisterRequest) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.Email)
	out = appendString(out, 2, m.Password)
	out = appendString(out, 3, m.Name)
	out = appendString(out, 4, m.Role)
	out = appendString(out, 5, m.Specialty)
	return out
}

func (m *RegisterRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case 1:
			m.Email = string(v)
		case 2:
			m.Password = string(v)
		case 3:
			m.Name = string(v)
		case 4:
			m.Role = string(v)
		case 5:
			m.Specialty = string(v)
		}
		return nil
	})
}

type RegisterResponse struct {
	UserId       string // 1
	Token        string // 2
	RefreshToken string // 3
	Role         string // 4
}

func (m *RegisterResponse) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.UserId)
	out = appendString(out, 2, m.Token)
	out = appendString(out, 3, m.RefreshToken)
	out = appendString(out, 4, m.Role)
	return out
}

func (m *RegisterResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case 1:
			m.UserId = string(v)
		case 2:
			m.Token = string(v)
		case 3:
			m.RefreshToken = string(v)
		case 4:
			m.Role = string(v)
		}
		return nil
	})
}

type LoginRequest struct {
	Email    string // 1
	Password string // 2
}

func (m *LoginRequest) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.Email)
	out = appendString(out, 2, m.Password)
	return out
}

func (m *LoginRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case 1:
			m.Email = string(v)
		case 2:
			m.Password = string(v)
		}
		return nil
	})
}

type LoginResponse struct {
	Token        string // 1
	UserId       string // 2
	Name         string // 3
	RefreshToken string // 4
	Role         string // 5
}

func (m *LoginResponse) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.Token)
	out = appendString(out, 2, m.UserId)
	out = appendString(out, 3, m.Name)
	out = appendString(out, 4, m.RefreshToken)
	out = appendString(out, 5, m.Role)
	return out
}

func (m *LoginResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case 1:
			m.Token = string(v)
		case 2:
			m.UserId = string(v)
		case 3:
			m.Name = string(v)
		case 4:
			m.RefreshToken = string(v)
		case 5:
			m.Role = string(v)
		}
		return nil
	})
}

type RefreshRequest struct {
	RefreshToken string // 1
}

func (m *RefreshRequest) MarshalWire() []byte {
	return appendString(nil, 1, m.RefreshToken)
}

func (m *RefreshRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if num == 1 && typ == protowire.BytesType {
			m.RefreshToken = string(v)
		}
		return nil
	})
}

type RefreshResponse struct {
	Token        string // 1
	RefreshToken string // 2
}

func (m *RefreshResponse) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.Token)
	out = appendString(out, 2, m.RefreshToken)
	return out
}

func (m *RefreshResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case 1:
			m.Token = string(v)
		case 2:
			m.RefreshToken = string(v)
		}
		return nil
	})
}

// Empty is used for Logout and DeleteAppointment replies and the Logout request.
type Empty struct{}

func (*Empty) MarshalWire() []byte { return nil }

func (*Empty) UnmarshalWire(b []byte) error {
	return walk(b, func(protowire.Number, protowire.Type, []byte, uint64) error { return nil })
}

// ----- appointments -----

// Appointment carries user ids for PatientId and DoctorId, never internal record ids.
type Appointment struct {
	Id          string                 // 1
	Date        string                 // 2, YYYY-MM-DD
	StartTime   *timestamppb.Timestamp // 3
	EndTime     *timestamppb.Timestamp // 4
	Title       string                 // 5
	Description string                 // 6
	Status      string                 // 7
	PatientId   string                 // 8
	PatientName string                 // 9
	DoctorId    string                 // 10
	DoctorName  string                 // 11
	Color       string                 // 12
	CreatedAt   *timestamppb.Timestamp // 13
	UpdatedAt   *timestamppb.Timestamp // 14
}

func (m *Appointment) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.Id)
	out = appendString(out, 2, m.Date)
	out = appendTimestamp(out, 3, m.StartTime)
	out = appendTimestamp(out, 4, m.EndTime)
	out = appendString(out, 5, m.Title)
	out = appendString(out, 6, m.Description)
	out = appendString(out, 7, m.Status)
	out = appendString(out, 8, m.PatientId)
	out = appendString(out, 9, m.PatientName)
	out = appendString(out, 10, m.DoctorId)
	out = appendString(out, 11, m.DoctorName)
	out = appendString(out, 12, m.Color)
	out = appendTimestamp(out, 13, m.CreatedAt)
	out = appendTimestamp(out, 14, m.UpdatedAt)
	return out
}

func (m *Appointment) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if typ != protowire.BytesType {
			return nil
		}
		var err error
		switch num {
		case 1:
			m.Id = string(v)
		case 2:
			m.Date = string(v)
		case 3:
			m.StartTime, err = parseTimestamp(v)
		case 4:
			m.EndTime, err = parseTimestamp(v)
		case 5:
			m.Title = string(v)
		case 6:
			m.Description = string(v)
		case 7:
			m.Status = string(v)
		case 8:
			m.PatientId = string(v)
		case 9:
			m.PatientName = string(v)
		case 10:
			m.DoctorId = string(v)
		case 11:
			m.DoctorName = string(v)
		case 12:
			m.Color = string(v)
		case 13:
			m.CreatedAt, err = parseTimestamp(v)
		case 14:
			m.UpdatedAt, err = parseTimestamp(v)
		}
		return err
	})
}

// AppointmentReply wraps a single appointment (field 1) for Create, Get and Update.
type AppointmentReply struct {
	Appointment *Appointment
}

func (m *AppointmentReply) MarshalWire() []byte {
	if m.Appointment == nil {
		return nil
	}
	return appendMessage(nil, 1, m.Appointment.MarshalWire())
}

func (m *AppointmentReply) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if num == 1 && typ == protowire.BytesType {
			m.Appointment = &Appointment{}
			return m.Appointment.UnmarshalWire(v)
		}
		return nil
	})
}

type CreateAppointmentRequest struct {
	Date        string                 // 1
	StartTime   *timestamppb.Timestamp // 2
	EndTime     *timestamppb.Timestamp // 3
	Title       string                 // 4
	Description *string                // 5, presence tracked
	PatientId   string                 // 6
	DoctorId    string                 // 7
	Status      string                 // 8
	Color       string                 // 9
}

func (m *CreateAppointmentRequest) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.Date)
	out = appendTimestamp(out, 2, m.StartTime)
	out = appendTimestamp(out, 3, m.EndTime)
	out = appendString(out, 4, m.Title)
	out = appendOptString(out, 5, m.Description)
	out = appendString(out, 6, m.PatientId)
	out = appendString(out, 7, m.DoctorId)
	out = appendString(out, 8, m.Status)
	out = appendString(out, 9, m.Color)
	return out
}

func (m *CreateAppointmentRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if typ != protowire.BytesType {
			return nil
		}
		var err error
		switch num {
		case 1:
			m.Date = string(v)
		case 2:
			m.StartTime, err = parseTimestamp(v)
		case 3:
			m.EndTime, err = parseTimestamp(v)
		case 4:
			m.Title = string(v)
		case 5:
			m.Description = strPtr(v)
		case 6:
			m.PatientId = string(v)
		case 7:
			m.DoctorId = string(v)
		case 8:
			m.Status = string(v)
		case 9:
			m.Color = string(v)
		}
		return err
	})
}

// IdRequest selects one appointment for Get and Delete.
type IdRequest struct {
	Id string // 1
}

func (m *IdRequest) MarshalWire() []byte {
	return appendString(nil, 1, m.Id)
}

func (m *IdRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if num == 1 && typ == protowire.BytesType {
			m.Id = string(v)
		}
		return nil
	})
}

type ListAppointmentsRequest struct {
	DoctorId  string // 1
	PatientId string // 2
}

func (m *ListAppointmentsRequest) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.DoctorId)
	out = appendString(out, 2, m.PatientId)
	return out
}

func (m *ListAppointmentsRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case 1:
			m.DoctorId = string(v)
		case 2:
			m.PatientId = string(v)
		}
		return nil
	})
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment // 1, repeated
}

func (m *ListAppointmentsResponse) MarshalWire() []byte {
	var out []byte
	for _, a := range m.Appointments {
		out = appendMessage(out, 1, a.MarshalWire())
	}
	return out
}

func (m *ListAppointmentsResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if num != 1 || typ != protowire.BytesType {
			return nil
		}
		a := &Appointment{}
		if err := a.UnmarshalWire(v); err != nil {
			return err
		}
		m.Appointments = append(m.Appointments, a)
		return nil
	})
}

// UpdateAppointmentRequest is a partial update: nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	Id          string                 // 1
	Date        *string                // 2
	StartTime   *timestamppb.Timestamp // 3
	EndTime     *timestamppb.Timestamp // 4
	Title       *string                // 5
	Description *string                // 6
	PatientId   *string                // 7
	DoctorId    *string                // 8
	Status      *string                // 9
	Color       *string                // 10
}

func (m *UpdateAppointmentRequest) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.Id)
	out = appendOptString(out, 2, m.Date)
	out = appendTimestamp(out, 3, m.StartTime)
	out = appendTimestamp(out, 4, m.EndTime)
	out = appendOptString(out, 5, m.Title)
	out = appendOptString(out, 6, m.Description)
	out = appendOptString(out, 7, m.PatientId)
	out = appendOptString(out, 8, m.DoctorId)
	out = appendOptString(out, 9, m.Status)
	out = appendOptString(out, 10, m.Color)
	return out
}

func (m *UpdateAppointmentRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if typ != protowire.BytesType {
			return nil
		}
		var err error
		switch num {
		case 1:
			m.Id = string(v)
		case 2:
			m.Date = strPtr(v)
		case 3:
			m.StartTime, err = parseTimestamp(v)
		case 4:
			m.EndTime, err = parseTimestamp(v)
		case 5:
			m.Title = strPtr(v)
		case 6:
			m.Description = strPtr(v)
		case 7:
			m.PatientId = strPtr(v)
		case 8:
			m.DoctorId = strPtr(v)
		case 9:
			m.Status = strPtr(v)
		case 10:
			m.Color = strPtr(v)
		}
		return err
	})
}
