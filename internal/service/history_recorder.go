package service

import (
	"context"
	"sync"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"

	"github.com/rs/zerolog"
)

// HistoryRecorder drains chain event streams into the persistent history
// index. Recording is best-effort: a failed insert is logged and dropped, the
// in-memory chain state stays authoritative.
type HistoryRecorder struct {
	repo ports.SwapHistoryRepository
	log  zerolog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewHistoryRecorder creates a recorder writing to the given repository.
func NewHistoryRecorder(repo ports.SwapHistoryRepository, log zerolog.Logger) *HistoryRecorder {
	return &HistoryRecorder{
		repo: repo,
		log:  log.With().Str("component", "history_recorder").Logger(),
	}
}

// Start subscribes to each source and records every event until Stop.
func (r *HistoryRecorder) Start(ctx context.Context, sources ...ports.EventSource) {
	ctx, r.cancel = context.WithCancel(ctx)

	for _, src := range sources {
		events, unsub := src.Subscribe(256)
		r.wg.Add(1)
		go func(events <-chan domain.Event, unsub func()) {
			defer r.wg.Done()
			defer unsub()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-events:
					if !ok {
						return
					}
					if err := r.repo.Record(ctx, &ev); err != nil {
						r.log.Warn().Err(err).Str("key", ev.Key()).Msg("failed to record event")
					}
				}
			}
		}(events, unsub)
	}
}

// Stop cancels the recording loops and waits for them to drain.
func (r *HistoryRecorder) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}
