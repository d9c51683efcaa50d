package postgres

import (
	"context"
	"fmt"
	"strings"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
)

// SwapHistoryRepo implements ports.SwapHistoryRepository.
type SwapHistoryRepo struct {
	pool Pool
}

// NewSwapHistoryRepo creates a new SwapHistoryRepo.
func NewSwapHistoryRepo(pool Pool) *SwapHistoryRepo {
	return &SwapHistoryRepo{pool: pool}
}

// Record appends one event to the history index. The secret carried by
// SECRET_REVEALED events is deliberately not persisted.
func (r *SwapHistoryRepo) Record(ctx context.Context, ev *domain.Event) error {
	query := `INSERT INTO swap_events (id, chain, event_type, height, swap_id, hash_lock,
		sender, recipient, amount, time_lock, rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		ev.ID, ev.Chain, string(ev.Type), ev.Height, ev.SwapID, ev.HashLock,
		string(ev.Sender), string(ev.Recipient), ev.Amount, ev.TimeLock,
		ev.Rate, ev.At,
	)
	if err != nil {
		return fmt.Errorf("insert swap event: %w", err)
	}
	return nil
}

// List fetches recorded events with filtering and pagination.
func (r *SwapHistoryRepo) List(ctx context.Context, params ports.HistoryListParams) ([]domain.Event, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("chain = $%d", argIdx))
	args = append(args, params.Chain)
	argIdx++

	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("event_type = $%d", argIdx))
		args = append(args, string(*params.Type))
		argIdx++
	}
	if params.HashLock != nil {
		conditions = append(conditions, fmt.Sprintf("hash_lock = $%d", argIdx))
		args = append(args, *params.HashLock)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= to_timestamp($%d)", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= to_timestamp($%d)", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM swap_events %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count swap events: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT id, chain, event_type, height, swap_id, hash_lock,
		sender, recipient, amount, time_lock, rate, created_at
		FROM swap_events %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list swap events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		ev := domain.Event{}
		var evType, sender, recipient string
		err := rows.Scan(
			&ev.ID, &ev.Chain, &evType, &ev.Height, &ev.SwapID, &ev.HashLock,
			&sender, &recipient, &ev.Amount, &ev.TimeLock, &ev.Rate, &ev.At,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan swap event row: %w", err)
		}
		ev.Type = domain.EventType(evType)
		ev.Sender = domain.Address(sender)
		ev.Recipient = domain.Address(recipient)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate swap event rows: %w", err)
	}
	return events, total, nil
}

// GetStats retrieves aggregated swap statistics for one chain.
func (r *SwapHistoryRepo) GetStats(ctx context.Context, chain string, since *int64) (*ports.SwapStats, error) {
	var args []any
	argIdx := 1

	condition := fmt.Sprintf("chain = $%d", argIdx)
	args = append(args, chain)
	argIdx++

	if since != nil {
		condition += fmt.Sprintf(" AND created_at >= to_timestamp($%d)", argIdx)
		args = append(args, *since)
	}

	query := fmt.Sprintf(`SELECT
		COUNT(*) FILTER (WHERE event_type = 'SWAP_INITIATED') AS initiated,
		COUNT(*) FILTER (WHERE event_type = 'SWAP_COMPLETED') AS completed,
		COUNT(*) FILTER (WHERE event_type = 'SWAP_REFUNDED') AS refunded,
		COUNT(*) FILTER (WHERE event_type = 'LOCK_PREPARED') AS locks_prepared,
		COUNT(*) FILTER (WHERE event_type = 'LOCK_COMPLETED') AS locks_completed,
		COUNT(*) FILTER (WHERE event_type = 'LOCK_REFUNDED') AS locks_refunded,
		COALESCE(SUM(amount) FILTER (WHERE event_type = 'SWAP_INITIATED'), 0) AS volume_locked,
		COALESCE(SUM(amount) FILTER (WHERE event_type = 'LOCK_COMPLETED'), 0) AS volume_released
		FROM swap_events WHERE %s`, condition)

	stats := &ports.SwapStats{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Initiated, &stats.Completed, &stats.Refunded,
		&stats.LocksPrepared, &stats.LocksCompleted, &stats.LocksRefunded,
		&stats.VolumeLocked, &stats.VolumeReleased,
	)
	if err != nil {
		return nil, fmt.Errorf("get swap stats: %w", err)
	}
	return stats, nil
}
