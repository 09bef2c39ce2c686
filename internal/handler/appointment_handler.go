package handler

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hospital-scheduler-api/internal/model"
	"hospital-scheduler-api/internal/pb"
	"hospital-scheduler-api/internal/scheduler"
)

func (h *Handler) CreateAppointment(ctx context.Context, req *pb.CreateAppointmentRequest) (*pb.AppointmentReply, error) {
	d, err := h.scheduler.Create(ctx, scheduler.Candidate{
		Date:        req.Date,
		StartTime:   pb.Time(req.StartTime),
		EndTime:     pb.Time(req.EndTime),
		Title:       req.Title,
		Description: req.Description,
		PatientRef:  req.PatientId,
		DoctorRef:   req.DoctorId,
		Status:      model.Status(req.Status),
		Color:       req.Color,
	})
	if err != nil {
		return nil, h.schedErr(err)
	}
	return &pb.AppointmentReply{Appointment: toProto(d)}, nil
}

func (h *Handler) GetAppointment(ctx context.Context, req *pb.IdRequest) (*pb.AppointmentReply, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	d, err := h.scheduler.Get(ctx, req.Id)
	if err != nil {
		return nil, h.schedErr(err)
	}
	return &pb.AppointmentReply{Appointment: toProto(d)}, nil
}

func (h *Handler) ListAppointments(ctx context.Context, req *pb.ListAppointmentsRequest) (*pb.ListAppointmentsResponse, error) {
	list, err := h.scheduler.List(ctx, scheduler.ListFilter{DoctorRef: req.DoctorId, PatientRef: req.PatientId})
	if err != nil {
		return nil, h.schedErr(err)
	}
	out := make([]*pb.Appointment, len(list))
	for i := range list {
		out[i] = toProto(&list[i])
	}
	return &pb.ListAppointmentsResponse{Appointments: out}, nil
}

func (h *Handler) UpdateAppointment(ctx context.Context, req *pb.UpdateAppointmentRequest) (*pb.AppointmentReply, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	p := scheduler.Patch{
		Date:        req.Date,
		StartTime:   timePtr(req.StartTime != nil, pb.Time(req.StartTime)),
		EndTime:     timePtr(req.EndTime != nil, pb.Time(req.EndTime)),
		Title:       req.Title,
		Description: req.Description,
		PatientRef:  req.PatientId,
		DoctorRef:   req.DoctorId,
		Color:       req.Color,
	}
	if req.Status != nil {
		st := model.Status(*req.Status)
		p.Status = &st
	}

	d, err := h.scheduler.Update(ctx, req.Id, p)
	if err != nil {
		return nil, h.schedErr(err)
	}
	return &pb.AppointmentReply{Appointment: toProto(d)}, nil
}

func (h *Handler) DeleteAppointment(ctx context.Context, req *pb.IdRequest) (*pb.Empty, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	if err := h.scheduler.Delete(ctx, req.Id); err != nil {
		return nil, h.schedErr(err)
	}
	return &pb.Empty{}, nil
}

func timePtr(ok bool, t time.Time) *time.Time {
	if !ok {
		return nil
	}
	return &t
}

func toProto(d *model.AppointmentDetail) *pb.Appointment {
	return &pb.Appointment{
		Id:          d.ID,
		Date:        scheduler.FormatDate(d.ScheduledDate),
		StartTime:   pb.Timestamp(d.StartTime),
		EndTime:     pb.Timestamp(d.EndTime),
		Title:       d.Title,
		Description: d.Description,
		Status:      string(d.Status),
		PatientId:   d.PatientUserID,
		PatientName: d.PatientName,
		DoctorId:    d.DoctorUserID,
		DoctorName:  d.DoctorName,
		Color:       d.Color,
		CreatedAt:   pb.Timestamp(d.CreatedAt),
		UpdatedAt:   pb.Timestamp(d.UpdatedAt),
	}
}
