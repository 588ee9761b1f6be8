package sqlite

import (
	"context"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, full_name, username, password_hash, role, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, domain.NormalizeEmail(email)))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		domain.NormalizeEmail(u.Email),
		u.FullName,
		u.Username,
		u.PasswordHash,
		string(u.Role),
		toNanos(u.CreatedAt),
		toNanos(u.UpdatedAt),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *usersRepo) UpsertUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			full_name = CASE WHEN excluded.full_name = '' THEN users.full_name ELSE excluded.full_name END,
			username = excluded.username,
			role = excluded.role,
			updated_at = excluded.updated_at`,
		u.ID,
		domain.NormalizeEmail(u.Email),
		u.FullName,
		u.Username,
		u.PasswordHash,
		string(u.Role),
		toNanos(u.CreatedAt),
		toNanos(u.UpdatedAt),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u           domain.User
		role        string
		created, up int64
	)
	if err := s.Scan(&u.ID, &u.Email, &u.FullName, &u.Username, &u.PasswordHash, &role, &created, &up); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.CreatedAt = fromNanos(created)
	u.UpdatedAt = fromNanos(up)
	return u, nil
}
