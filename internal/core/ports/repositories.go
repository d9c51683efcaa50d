package ports

import (
	"context"
	"time"

	"cross-chain-pool/internal/core/domain"
)

// SwapHistoryRepository persists the event stream as an append-only index so
// finished swaps stay queryable after process restarts. The in-memory chain
// state is authoritative; history is for audit and reporting only.
type SwapHistoryRepository interface {
	Record(ctx context.Context, ev *domain.Event) error
	List(ctx context.Context, params HistoryListParams) ([]domain.Event, int64, error)
	GetStats(ctx context.Context, chain string, since *int64) (*SwapStats, error)
}

// HistoryListParams holds filter + pagination for listing recorded events.
type HistoryListParams struct {
	Chain    string
	Type     *domain.EventType
	HashLock *string
	From     *int64 // Unix timestamp
	To       *int64 // Unix timestamp
	Page     int
	PageSize int
}

// SwapStats holds aggregated per-chain swap statistics.
type SwapStats struct {
	Initiated      int64
	Completed      int64
	Refunded       int64
	LocksPrepared  int64
	LocksCompleted int64
	LocksRefunded  int64
	VolumeLocked   int64 // Sum of initiated swap amounts
	VolumeReleased int64 // Sum of completed lock amounts
}

// AuditRepository persists administrative action records.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}

// EventDedupStore gives the relayer exactly-once processing on top of the
// at-least-once event stream. MarkProcessed is atomic: it returns true if the
// key was new (process the event), false if already seen (skip it).
type EventDedupStore interface {
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
