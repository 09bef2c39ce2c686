package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"hospital-scheduler-api/internal/metrics"
)

// Logging logs every unary call with its status code and latency, and feeds
// the rpc metrics when m is non-nil.
func Logging(log *zap.Logger, m *metrics.Collector) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		elapsed := time.Since(start)
		code := status.Code(err)

		if m != nil {
			m.RPCRequests.WithLabelValues(info.FullMethod, code.String()).Inc()
			m.RPCDuration.WithLabelValues(info.FullMethod).Observe(elapsed.Seconds())
		}
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", elapsed),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		log.Info("grpc request", fields...)
		return resp, err
	}
}

// RequestLogger emits one structured line per HTTP request and records the
// http metrics under the matched chi route pattern.
func RequestLogger(log *zap.Logger, m *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set("X-Request-ID", reqID)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			st := ww.Status()
			if st == 0 {
				st = http.StatusOK
			}
			elapsed := time.Since(start)
			if m != nil {
				m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(st)).Inc()
				m.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
			}
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", st),
				zap.String("request_id", reqID),
				zap.String("remote_ip", r.RemoteAddr),
				zap.Duration("duration", elapsed),
			)
		})
	}
}
