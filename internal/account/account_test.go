package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-scheduler-api/internal/auth"
	"hospital-scheduler-api/internal/model"
	"hospital-scheduler-api/internal/store/memory"
)

const secret = "test-secret"

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	return New(st, secret, nil), st
}

func TestRegisterDoctorCreatesProfile(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, RegisterInput{
		Email: "house@example.com", Password: "testpass123", Name: "Dr. House",
		Role: model.RoleDoctor, Specialty: "diagnostics",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, sess.Role)
	assert.NotEmpty(t, sess.RefreshToken)

	claims, err := auth.ParseToken(sess.AccessToken, secret)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, claims.UserID)
	assert.Equal(t, model.RoleDoctor, claims.Role)

	d, err := st.FindDoctorByUserID(ctx, sess.UserID)
	require.NoError(t, err)
	assert.Equal(t, "diagnostics", d.Specialty)
	assert.Equal(t, "Dr. House", d.Name)
}

func TestRegisterDefaultsToPatient(t *testing.T) {
	svc, st := newService(t)
	sess, err := svc.Register(context.Background(), RegisterInput{
		Email: "p@example.com", Password: "testpass123", Name: "Pat",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, sess.Role)

	_, err = st.FindPatientByUserID(context.Background(), sess.UserID)
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"empty email", RegisterInput{Password: "testpass123", Name: "X"}},
		{"empty password", RegisterInput{Email: "a@b.com", Name: "X"}},
		{"short password", RegisterInput{Email: "a@b.com", Password: "short", Name: "X"}},
		{"empty name", RegisterInput{Email: "a@b.com", Password: "testpass123"}},
		{"admin role", RegisterInput{Email: "a@b.com", Password: "testpass123", Name: "X", Role: model.RoleAdmin}},
		{"unknown role", RegisterInput{Email: "a@b.com", Password: "testpass123", Name: "X", Role: "nurse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			_, err := svc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	in := RegisterInput{Email: "dup@example.com", Password: "testpass123", Name: "First"}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	in.Email = "DUP@example.com"
	_, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "l@example.com", Password: "testpass123", Name: "Login User"})
	require.NoError(t, err)

	sess, err := svc.Login(ctx, "l@example.com", "testpass123")
	require.NoError(t, err)
	assert.Equal(t, "Login User", sess.Name)

	_, err = svc.Login(ctx, "l@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "testpass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRefreshRotates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	first, err := svc.Register(ctx, RegisterInput{Email: "r@example.com", Password: "testpass123", Name: "R"})
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.UserID, second.UserID)

	// the rotated token is spent and its reuse burns the new one too
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefreshExpired(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	sess, err := svc.Register(ctx, RegisterInput{Email: "e@example.com", Password: "testpass123", Name: "E"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(auth.RefreshTTL + time.Hour) }
	_, err = svc.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefreshUnknown(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Refresh(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
	_, err = svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	sess, err := svc.Register(ctx, RegisterInput{Email: "o@example.com", Password: "testpass123", Name: "O"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.UserID))
	_, err = svc.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}
