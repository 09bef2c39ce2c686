package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"hospital-scheduler-api/internal/model"
)

// CreateAccount inserts the user and, for patients and doctors, the matching
// directory record in one transaction.
func (s *Store) CreateAccount(ctx context.Context, u *model.User, specialty string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, name, role) VALUES ($1,$2,$3,$4,$5)
		 RETURNING created_at, updated_at`,
		u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role),
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}

	switch u.Role {
	case model.RolePatient:
		_, err = tx.Exec(ctx,
			`INSERT INTO patients (id, user_id) VALUES ($1,$2)`,
			uuid.New().String(), u.ID,
		)
	case model.RoleDoctor:
		_, err = tx.Exec(ctx,
			`INSERT INTO doctors (id, user_id, specialty) VALUES ($1,$2,$3)`,
			uuid.New().String(), u.ID, specialty,
		)
	}
	if err != nil {
		return fmt.Errorf("create %s profile: %w", u.Role, mapErr(err))
	}

	return tx.Commit(ctx)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.user(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	return s.user(ctx, `WHERE id = $1`, id)
}

func (s *Store) user(ctx context.Context, where string, arg any) (*model.User, error) {
	u := &model.User{}
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, created_at, updated_at
		 FROM users `+where, arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	u.Role = model.Role(role)
	return u, nil
}
