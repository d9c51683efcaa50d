package postgres

import (
	"context"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
)

type auditRepo struct {
	pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository.
func NewAuditRepository(pool Pool) ports.AuditRepository {
	return &auditRepo{pool: pool}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_entries (id, chain, actor, action, details, ip_address, created_at)
 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.Chain, string(entry.Actor), string(entry.Action),
		entry.Details, entry.IPAddress, entry.CreatedAt,
	)
	return err
}
