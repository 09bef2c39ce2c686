package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hospital-scheduler-api/internal/account"
	"hospital-scheduler-api/internal/middleware"
	"hospital-scheduler-api/internal/model"
	"hospital-scheduler-api/internal/pb"
)

func (h *Handler) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	sess, err := h.accounts.Register(ctx, account.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Role:      model.Role(req.Role),
		Specialty: req.Specialty,
	})
	if err != nil {
		return nil, h.accountErr(err)
	}
	return &pb.RegisterResponse{
		UserId:       sess.UserID,
		Token:        sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		Role:         string(sess.Role),
	}, nil
}

func (h *Handler) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	sess, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, h.accountErr(err)
	}
	return &pb.LoginResponse{
		Token:        sess.AccessToken,
		UserId:       sess.UserID,
		Name:         sess.Name,
		RefreshToken: sess.RefreshToken,
		Role:         string(sess.Role),
	}, nil
}

func (h *Handler) Refresh(ctx context.Context, req *pb.RefreshRequest) (*pb.RefreshResponse, error) {
	sess, err := h.accounts.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, h.accountErr(err)
	}
	return &pb.RefreshResponse{Token: sess.AccessToken, RefreshToken: sess.RefreshToken}, nil
}

func (h *Handler) Logout(ctx context.Context, _ *pb.Empty) (*pb.Empty, error) {
	uid := middleware.UserID(ctx)
	if uid == "" {
		return nil, status.Error(codes.Unauthenticated, "no token")
	}
	if err := h.accounts.Logout(ctx, uid); err != nil {
		return nil, h.accountErr(err)
	}
	return &pb.Empty{}, nil
}
