package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
	"github.com/aussiebroadwan/tenancy/internal/invites/store"
)

type propertiesRepo struct {
	db dbtx
}

const propertyColumns = `id, landlord_id, name, address, status,
	tenant_id, tenant_email, tenant_name, created_at, updated_at`

func (r *propertiesRepo) GetPropertyByID(ctx context.Context, id string) (domain.Property, error) {
	return scanProperty(r.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id))
}

func (r *propertiesRepo) CreateProperty(ctx context.Context, p domain.Property) error {
	status := p.Status
	if status == "" {
		status = domain.PropertyAvailable
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO properties (`+propertyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.LandlordID,
		p.Name,
		p.Address,
		string(status),
		mapStringNull(p.TenantID),
		mapStringNull(p.TenantEmail),
		mapStringNull(p.TenantName),
		toNanos(p.CreatedAt),
		toNanos(p.UpdatedAt),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *propertiesRepo) ListPropertiesByLandlord(ctx context.Context, landlordID string) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+propertyColumns+` FROM properties
		WHERE landlord_id = ?
		ORDER BY created_at DESC, id DESC`, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *propertiesRepo) UpdateTenantLink(
	ctx context.Context,
	propertyID string,
	link domain.TenantLink,
	now time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE properties
		SET tenant_id = ?, tenant_email = ?, tenant_name = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		mapStringNull(link.TenantID),
		mapStringNull(domain.NormalizeEmail(link.TenantEmail)),
		mapStringNull(link.TenantName),
		string(link.Status),
		toNanos(now),
		propertyID,
	)
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

func scanProperty(s scanner) (domain.Property, error) {
	var (
		p                               domain.Property
		status                          string
		tenantID, tenantEmail, tenantNm sql.NullString
		created, up                     int64
	)
	err := s.Scan(
		&p.ID,
		&p.LandlordID,
		&p.Name,
		&p.Address,
		&status,
		&tenantID,
		&tenantEmail,
		&tenantNm,
		&created,
		&up,
	)
	if err != nil {
		return domain.Property{}, mapNotFound(err)
	}
	p.Status = domain.PropertyStatus(status)
	p.TenantID = mapNullString(tenantID)
	p.TenantEmail = mapNullString(tenantEmail)
	p.TenantName = mapNullString(tenantNm)
	p.CreatedAt = fromNanos(created)
	p.UpdatedAt = fromNanos(up)
	return p, nil
}
