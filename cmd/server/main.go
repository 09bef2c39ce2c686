package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"hospital-scheduler-api/internal/account"
	"hospital-scheduler-api/internal/config"
	gweb "hospital-scheduler-api/internal/grpcweb"
	"hospital-scheduler-api/internal/handler"
	"hospital-scheduler-api/internal/httpapi"
	"hospital-scheduler-api/internal/lock"
	"hospital-scheduler-api/internal/logger"
	"hospital-scheduler-api/internal/metrics"
	"hospital-scheduler-api/internal/middleware"
	"hospital-scheduler-api/internal/pb"
	"hospital-scheduler-api/internal/scheduler"
	"hospital-scheduler-api/internal/store"
	"hospital-scheduler-api/internal/store/memory"
)

// backend is everything the services need from persistence.
type backend interface {
	account.Store
	scheduler.PatientDirectory
	scheduler.DoctorDirectory
	scheduler.AppointmentStore
	Ping(ctx context.Context) error
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "hospital-scheduler",
		Short:        "Hospital appointment scheduling API",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC, gRPC-Web and REST servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL migrations to DATABASE_URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			pool, err := connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := store.New(pool).Migrate(cmd.Context(), cfg.MigrationsDir)
			if err != nil {
				return err
			}
			log.Info("migrations applied", zap.Strings("files", applied))
			return nil
		},
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}

func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (backend, func(), error) {
	if cfg.Store == "memory" {
		log.Warn("using in-memory store; data is lost on restart")
		return memory.New(), func() {}, nil
	}

	pool, err := connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("connected to postgres")

	st := store.New(pool)
	// best effort; `migrate` reports failures loudly
	if applied, err := st.Migrate(ctx, cfg.MigrationsDir); err != nil {
		log.Warn("migration skipped", zap.Error(err))
	} else {
		log.Info("migrations applied", zap.Strings("files", applied))
	}
	return st, pool.Close, nil
}

func openLocker(ctx context.Context, cfg *config.Config, log *zap.Logger) (scheduler.Locker, func(), error) {
	if cfg.LockBackend != "redis" {
		return lock.NewLocal(), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("slot locks in redis", zap.String("addr", opts.Addr), zap.Duration("ttl", cfg.LockTTL))
	return lock.NewRedis(client, cfg.LockTTL), func() { client.Close() }, nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	st, closeStore, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	locker, closeLocker, err := openLocker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLocker()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector(reg)

	sched := scheduler.New(st, st, st,
		scheduler.WithLocker(locker),
		scheduler.WithLogger(log.Named("scheduler")),
		scheduler.WithMetrics(m),
		scheduler.WithStatusTransitions(cfg.EnforceStatusTransitions),
		scheduler.WithDefaultColor(cfg.DefaultColor),
	)
	accounts := account.New(st, cfg.JWTSecret, log.Named("account"))
	h := handler.New(accounts, sched, log.Named("grpc"))

	// grpc server
	rl := middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	srv := grpc.NewServer(
		grpc.ForceServerCodec(pb.Codec{}),
		grpc.ChainUnaryInterceptor(
			middleware.Logging(log.Named("grpc"), m),
			middleware.RateLimit(rl),
			middleware.Auth(cfg.JWTSecret),
		),
	)
	pb.RegisterSchedulerServiceServer(srv, h)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	// grpc-web bridge -> forwards browser requests to grpc on localhost
	bridge, err := gweb.New("localhost:"+cfg.GRPCPort, log.Named("grpcweb"))
	if err != nil {
		return err
	}
	defer bridge.Close()

	httpSrv := &http.Server{
		Addr: ":" + cfg.WebPort,
		Handler: httpapi.New(httpapi.Config{
			Accounts:  accounts,
			Scheduler: sched,
			Secret:    cfg.JWTSecret,
			Logger:    log.Named("http"),
			Metrics:   m,
			Limiter:   rl,
			Health:    st.Ping,
			GRPCWeb:   bridge.Handler(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 2)
	go func() {
		log.Info("grpc listening", zap.String("addr", lis.Addr().String()))
		errc <- srv.Serve(lis)
	}()
	go func() {
		log.Info("http listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err = <-errc:
		log.Error("server stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	srv.GracefulStop()
	return err
}
