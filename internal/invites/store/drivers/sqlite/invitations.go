package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
	"github.com/aussiebroadwan/tenancy/internal/invites/store"
)

type invitationsRepo struct {
	db dbtx
}

const invitationColumns = `id, email, username, property_id, property_name, landlord_id,
	code, status, expires_at, created_at, updated_at`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		domain.NormalizeEmail(inv.Email),
		mapStringNull(inv.Username),
		inv.PropertyID,
		inv.PropertyName,
		inv.LandlordID,
		domain.NormalizeCode(inv.Code),
		string(inv.Status),
		toNanos(inv.ExpiresAt),
		toNanos(inv.CreatedAt),
		toNanos(inv.UpdatedAt),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	return scanInvitation(row)
}

func (r *invitationsRepo) GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE code = ?`, domain.NormalizeCode(code))
	return scanInvitation(row)
}

func (r *invitationsRepo) FindByEmailAndStatus(
	ctx context.Context,
	email string,
	status domain.InvitationStatus,
) ([]domain.Invitation, error) {
	return r.list(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE email = ? AND status = ?
		ORDER BY created_at DESC, id DESC`,
		domain.NormalizeEmail(email), string(status))
}

func (r *invitationsRepo) ListByProperty(ctx context.Context, propertyID string) ([]domain.Invitation, error) {
	return r.list(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE property_id = ?
		ORDER BY created_at DESC, id DESC`,
		propertyID)
}

func (r *invitationsRepo) ListByLandlordAndStatus(
	ctx context.Context,
	landlordID string,
	status domain.InvitationStatus,
) ([]domain.Invitation, error) {
	return r.list(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE landlord_id = ? AND status = ?
		ORDER BY created_at DESC, id DESC`,
		landlordID, string(status))
}

func (r *invitationsRepo) ListByEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	return r.list(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE email = ?
		ORDER BY created_at DESC, id DESC`,
		domain.NormalizeEmail(email))
}

func (r *invitationsRepo) ListStalePending(
	ctx context.Context,
	now, ageCutoff time.Time,
) ([]domain.Invitation, error) {
	return r.list(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE status = 'pending' AND (expires_at < ? OR created_at < ?)
		ORDER BY created_at ASC, id ASC`,
		toNanos(now), toNanos(ageCutoff))
}

func (r *invitationsRepo) UpdateInvitationStatus(
	ctx context.Context,
	id string,
	from, to domain.InvitationStatus,
	now time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(to), toNanos(now), id, string(from))
	if err != nil {
		return mapConstraint(err)
	}
	return r.checkSwapped(ctx, res, id)
}

func (r *invitationsRepo) MarkInvitationAccepted(ctx context.Context, id, username string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET status = 'accepted', username = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		mapStringNull(username), toNanos(now), id)
	if err != nil {
		return mapConstraint(err)
	}
	return r.checkSwapped(ctx, res, id)
}

func (r *invitationsRepo) DeleteInvitation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// checkSwapped tells a lost compare-and-swap apart from a missing row.
func (r *invitationsRepo) checkSwapped(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM invitations WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return store.ErrConflict
}

func (r *invitationsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInvitation(s scanner) (domain.Invitation, error) {
	var (
		inv                  domain.Invitation
		username             sql.NullString
		status               string
		expires, created, up int64
	)
	err := s.Scan(
		&inv.ID,
		&inv.Email,
		&username,
		&inv.PropertyID,
		&inv.PropertyName,
		&inv.LandlordID,
		&inv.Code,
		&status,
		&expires,
		&created,
		&up,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	inv.Username = mapNullString(username)
	inv.Status = domain.InvitationStatus(status)
	if !inv.Status.Valid() {
		return domain.Invitation{}, fmt.Errorf("sqlite: invitation %s has unknown status %q", inv.ID, status)
	}
	inv.ExpiresAt = fromNanos(expires)
	inv.CreatedAt = fromNanos(created)
	inv.UpdatedAt = fromNanos(up)
	return inv, nil
}
