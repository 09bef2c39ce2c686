// Package account registers users and issues access and refresh tokens.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hospital-scheduler-api/internal/auth"
	"hospital-scheduler-api/internal/model"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("registration failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

const minPasswordLen = 8

type Store interface {
	CreateAccount(ctx context.Context, u *model.User, specialty string) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)

	CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (string, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID, newID, userID, newHash string, newExpiry time.Time) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}

type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	Role      model.Role
	Specialty string
}

// Session is what a successful register, login or refresh hands back.
type Session struct {
	UserID       string
	Name         string
	Role         model.Role
	AccessToken  string
	RefreshToken string
}

type Service struct {
	store  Store
	secret string
	log    *zap.Logger
	now    func() time.Time
}

func New(st Store, secret string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, secret: secret, log: log, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: email, password and name required", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password too short", ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = model.RolePatient
	}
	// admins are provisioned out of band
	if !in.Role.Valid() || in.Role == model.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         in.Role,
	}
	if err := s.store.CreateAccount(ctx, u, in.Specialty); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			// don't reveal which emails exist
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.log.Info("account registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return s.issue(ctx, u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}
	u, err := s.store.UserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, model.ErrNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Refresh rotates a refresh token. Presenting an already rotated token revokes
// every token of its owner.
func (s *Service) Refresh(ctx context.Context, raw string) (*Session, error) {
	if raw == "" {
		return nil, ErrInvalidRefresh
	}
	rt, err := s.store.GetRefreshTokenByHash(ctx, auth.HashRefreshToken(raw))
	if errors.Is(err, model.ErrNotFound) {
		return nil, ErrInvalidRefresh
	} else if err != nil {
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}
	if rt.Revoked {
		s.log.Warn("revoked refresh token reused", zap.String("user_id", rt.UserID))
		if err := s.store.RevokeAllRefreshTokens(ctx, rt.UserID); err != nil {
			s.log.Error("revoke tokens", zap.Error(err))
		}
		return nil, ErrInvalidRefresh
	}
	if s.now().After(rt.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}

	u, err := s.store.UserByID(ctx, rt.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	newRaw, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	newID := uuid.New().String()
	err = s.store.RotateRefreshToken(ctx, rt.ID, newID, u.ID, newHash, s.now().Add(auth.RefreshTTL))
	if errors.Is(err, model.ErrNotFound) {
		// lost a concurrent rotation
		return nil, ErrInvalidRefresh
	} else if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	tok, err := auth.MakeToken(u.ID, u.Role, s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{UserID: u.ID, Name: u.Name, Role: u.Role, AccessToken: tok, RefreshToken: newRaw}, nil
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.store.RevokeAllRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}

func (s *Service) issue(ctx context.Context, u *model.User) (*Session, error) {
	tok, err := auth.MakeToken(u.ID, u.Role, s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if _, err := s.store.CreateRefreshToken(ctx, u.ID, hash, s.now().Add(auth.RefreshTTL)); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &Session{UserID: u.ID, Name: u.Name, Role: u.Role, AccessToken: tok, RefreshToken: raw}, nil
}
