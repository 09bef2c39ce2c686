package handler_test

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"hospital-scheduler-api/internal/account"
	"hospital-scheduler-api/internal/handler"
	"hospital-scheduler-api/internal/middleware"
	"hospital-scheduler-api/internal/pb"
	"hospital-scheduler-api/internal/scheduler"
	"hospital-scheduler-api/internal/store/memory"
)

const secret = "test-secret"

// setup runs the full interceptor chain over an in-memory listener.
func setup(t *testing.T) *pb.SchedulerClient {
	t.Helper()
	st := memory.New()
	h := handler.New(account.New(st, secret, nil), scheduler.New(st, st, st), nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(
		grpc.ForceServerCodec(pb.Codec{}),
		grpc.ChainUnaryInterceptor(
			middleware.RateLimit(middleware.NewRateLimiter(ctx, 1000, 1000)),
			middleware.Auth(secret),
		),
	)
	pb.RegisterSchedulerServiceServer(srv, h)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return pb.NewSchedulerClient(conn)
}

func authed(tok string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+tok)
}

func register(t *testing.T, c *pb.SchedulerClient, role, name string) *pb.RegisterResponse {
	t.Helper()
	rr, err := c.Register(context.Background(), &pb.RegisterRequest{
		Email:    fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8]),
		Password: "testpass123",
		Name:     name,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", role, err)
	}
	return rr
}

type fixture struct {
	c       *pb.SchedulerClient
	ctx     context.Context
	doctor  string
	patient string
}

func newFixture(t *testing.T) *fixture {
	c := setup(t)
	d := register(t, c, "doctor", "Dr. Grey")
	p := register(t, c, "patient", "Pat Doe")
	return &fixture{c: c, ctx: authed(d.Token), doctor: d.UserId, patient: p.UserId}
}

var day = time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)

func (f *fixture) create(t *testing.T, title string, from, to time.Duration) (*pb.Appointment, error) {
	t.Helper()
	desc := "routine"
	resp, err := f.c.CreateAppointment(f.ctx, &pb.CreateAppointmentRequest{
		Date:        "2030-03-04",
		StartTime:   pb.Timestamp(day.Add(from)),
		EndTime:     pb.Timestamp(day.Add(to)),
		Title:       title,
		Description: &desc,
		PatientId:   f.patient,
		DoctorId:    f.doctor,
	})
	if err != nil {
		return nil, err
	}
	return resp.Appointment, nil
}

func code(err error) codes.Code {
	s, _ := status.FromError(err)
	return s.Code()
}

// ----- auth tests -----

func TestRegisterAndLogin(t *testing.T) {
	c := setup(t)
	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	rr, err := c.Register(context.Background(), &pb.RegisterRequest{
		Email: email, Password: "testpass123", Name: "Login User",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if rr.UserId == "" || rr.Token == "" || rr.RefreshToken == "" {
		t.Fatalf("incomplete register response: %+v", rr)
	}
	if rr.Role != "patient" {
		t.Errorf("expected default role patient, got %q", rr.Role)
	}

	lr, err := c.Login(context.Background(), &pb.LoginRequest{Email: email, Password: "testpass123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if lr.Name != "Login User" {
		t.Errorf("expected name 'Login User', got '%s'", lr.Name)
	}

	_, err = c.Login(context.Background(), &pb.LoginRequest{Email: email, Password: "wrongpassword"})
	if code(err) != codes.Unauthenticated {
		t.Errorf("expected Unauthenticated, got %v", code(err))
	}
}

func TestRegisterValidation(t *testing.T) {
	c := setup(t)
	tests := []struct {
		name string
		req  *pb.RegisterRequest
		want codes.Code
	}{
		{"empty email", &pb.RegisterRequest{Password: "testpass123", Name: "X"}, codes.InvalidArgument},
		{"short password", &pb.RegisterRequest{Email: "a@b.com", Password: "short", Name: "X"}, codes.InvalidArgument},
		{"bad role", &pb.RegisterRequest{Email: "a@b.com", Password: "testpass123", Name: "X", Role: "admin"}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Register(context.Background(), tt.req)
			if code(err) != tt.want {
				t.Errorf("expected %v, got %v", tt.want, code(err))
			}
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	c := setup(t)
	rr := register(t, c, "patient", "R")

	ref, err := c.Refresh(context.Background(), &pb.RefreshRequest{RefreshToken: rr.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if ref.RefreshToken == rr.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	if _, err := c.Logout(authed(ref.Token), &pb.Empty{}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, err = c.Refresh(context.Background(), &pb.RefreshRequest{RefreshToken: ref.RefreshToken})
	if code(err) != codes.Unauthenticated {
		t.Errorf("expected Unauthenticated after logout, got %v", code(err))
	}
}

func TestAppointmentsRequireToken(t *testing.T) {
	c := setup(t)
	_, err := c.ListAppointments(context.Background(), &pb.ListAppointmentsRequest{})
	if code(err) != codes.Unauthenticated {
		t.Errorf("expected Unauthenticated, got %v", code(err))
	}
}

// ----- appointment tests -----

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)
	a, err := f.create(t, "Checkup", 9*time.Hour, 10*time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Id == "" {
		t.Fatal("empty id")
	}
	if a.Status != "scheduled" || a.Color != "#3174ad" {
		t.Errorf("defaults not applied: status=%q color=%q", a.Status, a.Color)
	}
	if a.DoctorName != "Dr. Grey" || a.PatientName != "Pat Doe" {
		t.Errorf("names not enriched: %q / %q", a.DoctorName, a.PatientName)
	}
	if a.DoctorId != f.doctor || a.PatientId != f.patient {
		t.Error("refs should be user ids")
	}
	if a.Date != "2030-03-04" {
		t.Errorf("date = %q", a.Date)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newFixture(t)
	desc := ""
	base := func() *pb.CreateAppointmentRequest {
		return &pb.CreateAppointmentRequest{
			Date: "2030-03-04", StartTime: pb.Timestamp(day.Add(9 * time.Hour)), EndTime: pb.Timestamp(day.Add(10 * time.Hour)),
			Title: "x", Description: &desc, PatientId: f.patient, DoctorId: f.doctor,
		}
	}
	tests := []struct {
		name   string
		mutate func(*pb.CreateAppointmentRequest)
		want   codes.Code
	}{
		{"no title", func(r *pb.CreateAppointmentRequest) { r.Title = "" }, codes.InvalidArgument},
		{"no description", func(r *pb.CreateAppointmentRequest) { r.Description = nil }, codes.InvalidArgument},
		{"no times", func(r *pb.CreateAppointmentRequest) { r.StartTime = nil }, codes.InvalidArgument},
		{"end before start", func(r *pb.CreateAppointmentRequest) { r.EndTime = pb.Timestamp(day.Add(8 * time.Hour)) }, codes.InvalidArgument},
		{"bad date", func(r *pb.CreateAppointmentRequest) { r.Date = "04/03/2030" }, codes.InvalidArgument},
		{"bad status", func(r *pb.CreateAppointmentRequest) { r.Status = "done" }, codes.InvalidArgument},
		{"unknown patient", func(r *pb.CreateAppointmentRequest) { r.PatientId = "nobody" }, codes.NotFound},
		{"doctor as patient", func(r *pb.CreateAppointmentRequest) { r.PatientId = f.doctor }, codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(req)
			_, err := f.c.CreateAppointment(f.ctx, req)
			if code(err) != tt.want {
				t.Errorf("expected %v, got %v (%v)", tt.want, code(err), err)
			}
		})
	}
}

func TestGetAppointment(t *testing.T) {
	f := newFixture(t)
	a, err := f.create(t, "Get me", 9*time.Hour, 10*time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := f.c.GetAppointment(f.ctx, &pb.IdRequest{Id: a.Id})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Appointment.Title != "Get me" {
		t.Errorf("title = %q", got.Appointment.Title)
	}

	_, err = f.c.GetAppointment(f.ctx, &pb.IdRequest{Id: uuid.New().String()})
	if code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", code(err))
	}
}

func TestListAppointments(t *testing.T) {
	f := newFixture(t)
	for _, h := range []int{14, 9, 11} {
		if _, err := f.create(t, fmt.Sprintf("appt-%d", h), time.Duration(h)*time.Hour, time.Duration(h+1)*time.Hour); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	lr, err := f.c.ListAppointments(f.ctx, &pb.ListAppointmentsRequest{DoctorId: f.doctor})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lr.Appointments) != 3 {
		t.Fatalf("expected 3, got %d", len(lr.Appointments))
	}
	want := []string{"appt-9", "appt-11", "appt-14"}
	for i, a := range lr.Appointments {
		if a.Title != want[i] {
			t.Errorf("position %d: got %s, want %s", i, a.Title, want[i])
		}
	}

	lr, err = f.c.ListAppointments(f.ctx, &pb.ListAppointmentsRequest{DoctorId: "unknown"})
	if err != nil {
		t.Fatalf("list unknown: %v", err)
	}
	if len(lr.Appointments) != 0 {
		t.Errorf("expected empty list for unknown doctor, got %d", len(lr.Appointments))
	}
}

func TestUpdateAppointment(t *testing.T) {
	f := newFixture(t)
	a, err := f.create(t, "Original", 9*time.Hour, 10*time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Renamed"
	st := "in_progress"
	ur, err := f.c.UpdateAppointment(f.ctx, &pb.UpdateAppointmentRequest{Id: a.Id, Title: &title, Status: &st})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if ur.Appointment.Title != "Renamed" || ur.Appointment.Status != "in_progress" {
		t.Errorf("update not applied: %+v", ur.Appointment)
	}
	if ur.Appointment.Description != "routine" {
		t.Error("absent fields should keep stored values")
	}

	// in_progress cannot go back to scheduled
	back := "scheduled"
	_, err = f.c.UpdateAppointment(f.ctx, &pb.UpdateAppointmentRequest{Id: a.Id, Status: &back})
	if code(err) != codes.FailedPrecondition {
		t.Errorf("expected FailedPrecondition, got %v", code(err))
	}
}

func TestUpdateAppointmentConflict(t *testing.T) {
	f := newFixture(t)
	if _, err := f.create(t, "A", 9*time.Hour, 10*time.Hour); err != nil {
		t.Fatalf("create A: %v", err)
	}
	b, err := f.create(t, "B", 11*time.Hour, 12*time.Hour)
	if err != nil {
		t.Fatalf("create B: %v", err)
	}

	newStart := pb.Timestamp(day.Add(9*time.Hour + 30*time.Minute))
	_, err = f.c.UpdateAppointment(f.ctx, &pb.UpdateAppointmentRequest{Id: b.Id, StartTime: newStart})
	if code(err) != codes.AlreadyExists {
		t.Errorf("expected AlreadyExists, got %v", code(err))
	}
}

func TestDeleteAppointment(t *testing.T) {
	f := newFixture(t)
	a, err := f.create(t, "Delete me", 9*time.Hour, 10*time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.c.DeleteAppointment(f.ctx, &pb.IdRequest{Id: a.Id}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = f.c.DeleteAppointment(f.ctx, &pb.IdRequest{Id: a.Id})
	if code(err) != codes.NotFound {
		t.Errorf("expected NotFound on second delete, got %v", code(err))
	}
}

func TestOverlapPrevention(t *testing.T) {
	f := newFixture(t)
	if _, err := f.create(t, "Existing", 9*time.Hour, 10*time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// exact same slot
	if _, err := f.create(t, "Overlap", 9*time.Hour, 10*time.Hour); code(err) != codes.AlreadyExists {
		t.Fatalf("expected conflict, got %v", err)
	}
	// partial overlap
	if _, err := f.create(t, "Partial", 9*time.Hour+30*time.Minute, 10*time.Hour+30*time.Minute); code(err) != codes.AlreadyExists {
		t.Fatalf("expected conflict for partial overlap, got %v", err)
	}
	// adjacent: end is exclusive
	if _, err := f.create(t, "Adjacent", 10*time.Hour, 11*time.Hour); err != nil {
		t.Fatalf("adjacent should not conflict: %v", err)
	}
}

// ----- concurrent booking -----

func TestConcurrentBooking(t *testing.T) {
	f := newFixture(t)

	const n = 10
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.create(t, fmt.Sprintf("concurrent-%d", i), 15*time.Hour, 16*time.Hour)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	successes := 0
	conflicts := 0
	for err := range results {
		if err == nil {
			successes++
		} else if code(err) == codes.AlreadyExists {
			conflicts++
		} else {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 success, got %d", successes)
	}
	if conflicts != n-1 {
		t.Errorf("expected %d conflicts, got %d", n-1, conflicts)
	}
}
