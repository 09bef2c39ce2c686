package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hospital-scheduler-api/internal/model"
)

// DB is the subset of *pgxpool.Pool the store needs; pgxmock satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

type Store struct {
	pool DB
}

func New(pool DB) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate executes every *.sql file in dir in lexical order. Every statement
// is idempotent, so reruns are safe.
func (s *Store) Migrate(ctx context.Context, dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sql, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read migration: %w", err)
		}
		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			return nil, fmt.Errorf("apply %s: %w", filepath.Base(f), err)
		}
	}
	return files, nil
}

const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
	codeInvalidText        = "22P02"
)

// mapErr turns driver errors into the model's persistence sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeInvalidText:
			// a malformed uuid can never match a row
			return model.ErrNotFound
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", model.ErrDuplicate, pgErr.ConstraintName)
		case codeExclusionViolation:
			if pgErr.ConstraintName == "appointments_patient_no_overlap" {
				return model.ErrPatientBusy
			}
			return model.ErrDoctorBusy
		}
	}
	return err
}
