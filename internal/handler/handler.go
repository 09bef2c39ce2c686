// Package handler implements the hospital.v1.SchedulerService gRPC server.
package handler

import (
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hospital-scheduler-api/internal/account"
	"hospital-scheduler-api/internal/pb"
	"hospital-scheduler-api/internal/scheduler"
)

type Handler struct {
	pb.UnimplementedSchedulerServiceServer
	accounts  *account.Service
	scheduler *scheduler.Service
	log       *zap.Logger
}

func New(accounts *account.Service, sched *scheduler.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{accounts: accounts, scheduler: sched, log: log}
}

// schedErr turns a scheduler failure into a gRPC status. Persistence details
// stay in the logs.
func (h *Handler) schedErr(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrMissingField),
		errors.Is(err, scheduler.ErrInvalidInterval),
		errors.Is(err, scheduler.ErrInvalidDate),
		errors.Is(err, scheduler.ErrInvalidStatus):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, scheduler.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, scheduler.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, scheduler.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	h.log.Error("scheduler failure", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

func (h *Handler) accountErr(err error) error {
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, account.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, account.ErrInvalidCredentials), errors.Is(err, account.ErrInvalidRefresh):
		return status.Error(codes.Unauthenticated, err.Error())
	}
	h.log.Error("account failure", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}
