package store_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"hospital-scheduler-api/internal/model"
	"hospital-scheduler-api/internal/scheduler"
	"hospital-scheduler-api/internal/store"
)

// noLock leaves the exclusion constraints as the only guard against double booking.
type noLock struct{}

func (noLock) Lock(context.Context, ...string) (func(), error) { return func() {}, nil }

func setupPostgres(t *testing.T) (*store.Store, *pgxpool.Pool) {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	st := store.New(pool)
	if _, err := st.Migrate(ctx, "../../db/migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st, pool
}

func createUser(t *testing.T, st *store.Store, pool *pgxpool.Pool, role model.Role) string {
	t.Helper()
	ctx := context.Background()
	u := &model.User{
		ID:           uuid.New().String(),
		Email:        uuid.New().String() + "@test.local",
		PasswordHash: "x",
		Name:         string(role) + " under test",
		Role:         role,
	}
	if err := st.CreateAccount(ctx, u, ""); err != nil {
		t.Fatalf("create %s: %v", role, err)
	}
	t.Cleanup(func() {
		pool.Exec(ctx, `DELETE FROM appointments WHERE patient_id IN (SELECT id FROM patients WHERE user_id = $1)
			OR doctor_id IN (SELECT id FROM doctors WHERE user_id = $1)`, u.ID)
		pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
	})
	return u.ID
}

func TestPostgresExclusionBlocksDoubleBooking(t *testing.T) {
	st, pool := setupPostgres(t)
	doctor := createUser(t, st, pool, model.RoleDoctor)

	patients := make([]string, 6)
	for i := range patients {
		patients[i] = createUser(t, st, pool, model.RolePatient)
	}

	svc := scheduler.New(st, st, st, scheduler.WithLocker(noLock{}))
	day := time.Date(2031, 1, 6, 0, 0, 0, 0, time.UTC)
	desc := ""

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for _, p := range patients {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), scheduler.Candidate{
				Date:        "2031-01-06",
				StartTime:   day.Add(9 * time.Hour),
				EndTime:     day.Add(10 * time.Hour),
				Title:       "race",
				Description: &desc,
				PatientRef:  p,
				DoctorRef:   doctor,
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
				return
			}
			if scheduler.Kind(err) != "conflict" {
				t.Errorf("unexpected error: %v", err)
			}
		}(p)
	}
	wg.Wait()

	if ok != 1 {
		t.Fatalf("expected exactly one booking, got %d", ok)
	}
}

func TestPostgresRoundTrip(t *testing.T) {
	st, pool := setupPostgres(t)
	doctor := createUser(t, st, pool, model.RoleDoctor)
	patient := createUser(t, st, pool, model.RolePatient)
	ctx := context.Background()

	svc := scheduler.New(st, st, st)
	day := time.Date(2031, 1, 7, 0, 0, 0, 0, time.UTC)
	desc := "fasting"
	a, err := svc.Create(ctx, scheduler.Candidate{
		Date: "2031-01-07", StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour),
		Title: "Bloods", Description: &desc, PatientRef: patient, DoctorRef: doctor,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "fasting" || got.DoctorUserID != doctor {
		t.Errorf("unexpected appointment: %+v", got)
	}
	if !got.ScheduledDate.Equal(day) {
		t.Errorf("scheduled date = %v, want %v", got.ScheduledDate, day)
	}

	cancelled := model.StatusCancelled
	if _, err := svc.Update(ctx, a.ID, scheduler.Patch{Status: &cancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Create(ctx, scheduler.Candidate{
		Date: "2031-01-07", StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour),
		Title: "Rebooked", Description: &desc, PatientRef: patient, DoctorRef: doctor,
	}); err != nil {
		t.Fatalf("rebook cancelled slot: %v", err)
	}

	list, err := svc.List(ctx, scheduler.ListFilter{DoctorRef: doctor})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list len = %d, want 2", len(list))
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, "not-a-uuid"); scheduler.Kind(err) != "not_found" {
		t.Errorf("malformed id: got %v", err)
	}
}
