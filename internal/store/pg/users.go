package pg

import (
	"context"
	"errors"

	"github.com/dropDatabas3/kurso/internal/store"
	"github.com/jackc/pgx/v5"
)

func (s *Store) UpsertUserByExternalID(ctx context.Context, u store.User) (store.User, error) {
	role := u.Role
	if role == "" {
		role = "user"
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, external_id, email, display_name, role, grade, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (external_id)
		DO UPDATE SET email        = EXCLUDED.email,
					  display_name = EXCLUDED.display_name,
					  grade        = EXCLUDED.grade,
					  updated_at   = now()
		RETURNING id, external_id, email, display_name, role, grade, created_at, updated_at
	`, u.ExternalID, u.Email, u.DisplayName, role, u.Grade)

	var out store.User
	if err := row.Scan(&out.ID, &out.ExternalID, &out.Email, &out.DisplayName,
		&out.Role, &out.Grade, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return store.User{}, err
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (store.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, external_id, email, display_name, role, grade, created_at, updated_at
		FROM users WHERE id = $1
	`, id)

	var u store.User
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.DisplayName,
		&u.Role, &u.Grade, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.User{}, store.ErrNotFound
		}
		return store.User{}, err
	}
	return u, nil
}
