package middleware

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"hospital-scheduler-api/internal/auth"
	"hospital-scheduler-api/internal/model"
	"hospital-scheduler-api/internal/pb"
)

type ctxKey string

const (
	userIDKey ctxKey = "uid"
	roleKey   ctxKey = "role"
)

// skip auth for these
var open = map[string]bool{
	pb.MethodRegister: true,
	pb.MethodLogin:    true,
	pb.MethodRefresh:  true,
}

// WithIdentity stores the authenticated caller on ctx.
func WithIdentity(ctx context.Context, uid string, role model.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, uid)
	return context.WithValue(ctx, roleKey, role)
}

// UserID returns the authenticated caller, or "" outside an authenticated call.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

func Role(ctx context.Context) model.Role {
	v, _ := ctx.Value(roleKey).(model.Role)
	return v
}

func bearer(v string) string {
	if len(v) > 7 && strings.EqualFold(v[:7], "Bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return ""
}

func Auth(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		// token from Authorization: Bearer <jwt>
		raw := ""
		if vals := md.Get("authorization"); len(vals) > 0 {
			raw = bearer(vals[0])
		}
		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "no token")
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "bad token")
		}
		return next(WithIdentity(ctx, claims.UserID, claims.Role), req)
	}
}

// HTTPAuth is the REST twin of Auth. Failures are written as JSON 401s.
func HTTPAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearer(r.Header.Get("Authorization"))
			if raw == "" {
				unauthorized(w, "no token")
				return
			}
			claims, err := auth.ParseToken(raw, secret)
			if err != nil {
				unauthorized(w, "bad token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.UserID, claims.Role)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `","kind":"unauthenticated"}`))
}
