package integration

import (
	"context"
	"sort"
	"sync"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
)

// inMemoryHistoryRepo is a mutex-guarded SwapHistoryRepository used to stand
// in for PostgreSQL in full-stack tests.
type inMemoryHistoryRepo struct {
	mu     sync.Mutex
	events []domain.Event
}

func newInMemoryHistoryRepo() *inMemoryHistoryRepo {
	return &inMemoryHistoryRepo{}
}

func (r *inMemoryHistoryRepo) Record(_ context.Context, ev *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

func (r *inMemoryHistoryRepo) List(_ context.Context, params ports.HistoryListParams) ([]domain.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Event
	for _, ev := range r.events {
		if ev.Chain != params.Chain {
			continue
		}
		if params.Type != nil && ev.Type != *params.Type {
			continue
		}
		if params.HashLock != nil && ev.HashLock != *params.HashLock {
			continue
		}
		if params.From != nil && ev.At.Unix() < *params.From {
			continue
		}
		if params.To != nil && ev.At.Unix() > *params.To {
			continue
		}
		matched = append(matched, ev)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].At.After(matched[j].At)
	})

	total := int64(len(matched))
	start := (params.Page - 1) * params.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *inMemoryHistoryRepo) GetStats(_ context.Context, chain string, since *int64) (*ports.SwapStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &ports.SwapStats{}
	for _, ev := range r.events {
		if ev.Chain != chain {
			continue
		}
		if since != nil && ev.At.Unix() < *since {
			continue
		}
		switch ev.Type {
		case domain.EventSwapInitiated:
			stats.Initiated++
			stats.VolumeLocked += ev.Amount
		case domain.EventSwapCompleted:
			stats.Completed++
		case domain.EventSwapRefunded:
			stats.Refunded++
		case domain.EventLockPrepared:
			stats.LocksPrepared++
		case domain.EventLockCompleted:
			stats.LocksCompleted++
			stats.VolumeReleased += ev.Amount
		case domain.EventLockRefunded:
			stats.LocksRefunded++
		}
	}
	return stats, nil
}

// inMemoryAuditRepo collects audit entries for assertions.
type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryAuditRepo) all() []domain.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEntry(nil), r.entries...)
}
