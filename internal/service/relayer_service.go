package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"cross-chain-pool/config"
	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/apperror"

	"github.com/rs/zerolog"
)

const dedupTTL = 24 * time.Hour

// RelayerChain is one side of the bridge: the event stream the relayer
// watches plus the operations it may issue on that chain.
type RelayerChain struct {
	Name      string
	Events    ports.EventSource
	Swaps     ports.SwapService
	Locks     ports.LockService
	Height    func() int64
	Responder domain.Address

	// BlockTime is the chain's block interval, used to translate a block
	// count on one chain into a comparable count on the other. Zero means
	// both chains tick at the same pace.
	BlockTime time.Duration
}

// Relayer bridges two isolated chains by observing each chain's events and
// issuing operations on the other. It is an ordinary, untrusted-but-honest
// client of both engines: delivery is at-least-once, so every event is
// claimed in the dedup store before acting, and failed submissions are
// retried only while the engine reports them as time-dependent.
//
// Flow: Initiated on one chain makes the relayer prepare the matching lock on
// the other, with a window of half the remaining sender margin scaled to the
// destination chain's block time so the responder's refund window always
// closes first. A revealed secret on either side is propagated to complete
// the counterpart record.
type Relayer struct {
	a, b  *RelayerChain
	dedup ports.EventDedupStore
	cfg   config.RelayerConfig
	log   zerolog.Logger

	mu      sync.Mutex
	swapIDs map[string]string // hashLock -> swapId on the initiating chain

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewRelayer creates a relayer bridging the two chains.
func NewRelayer(a, b *RelayerChain, dedup ports.EventDedupStore, cfg config.RelayerConfig, log zerolog.Logger) *Relayer {
	return &Relayer{
		a:       a,
		b:       b,
		dedup:   dedup,
		cfg:     cfg,
		log:     log.With().Str("component", "relayer").Logger(),
		swapIDs: make(map[string]string),
	}
}

// Start subscribes to both chains and begins bridging. It returns
// immediately; Stop shuts the loops down.
func (r *Relayer) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	for _, pair := range []struct{ from, to *RelayerChain }{{r.a, r.b}, {r.b, r.a}} {
		events, unsub := pair.from.Events.Subscribe(256)
		r.wg.Add(1)
		go func(from, to *RelayerChain, events <-chan domain.Event, unsub func()) {
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
					r.handle(ctx, from, to, ev)
				}
			}
		}(pair.from, pair.to, events, unsub)
	}
}

// Stop cancels the bridge loops and waits for them to drain.
func (r *Relayer) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Relayer) handle(ctx context.Context, from, to *RelayerChain, ev domain.Event) {
	switch ev.Type {
	case domain.EventSwapInitiated, domain.EventSecretRevealed, domain.EventLockCompleted:
	default:
		return
	}

	fresh, err := r.dedup.MarkProcessed(ctx, ev.Key(), dedupTTL)
	if err != nil {
		r.log.Error().Err(err).Str("key", ev.Key()).Msg("dedup store unavailable, skipping event")
		return
	}
	if !fresh {
		r.log.Debug().Str("key", ev.Key()).Msg("event already processed")
		return
	}

	switch ev.Type {
	case domain.EventSwapInitiated:
		r.mu.Lock()
		r.swapIDs[ev.HashLock] = ev.SwapID
		r.mu.Unlock()
		r.submit(ctx, ev, func() error { return r.prepareLock(ctx, from, to, ev) })

	case domain.EventSecretRevealed:
		// The sender-side swap completed on `from`; release the prepared
		// lock on the other chain with the same secret.
		r.submit(ctx, ev, func() error {
			_, err := to.Locks.Complete(ctx, ev.HashLock, ev.Secret)
			return err
		})

	case domain.EventLockCompleted:
		// The recipient claimed the prepared lock on `from`, revealing the
		// secret; close out the originating swap on the other chain.
		r.mu.Lock()
		swapID, ok := r.swapIDs[ev.HashLock]
		r.mu.Unlock()
		if !ok {
			r.log.Warn().Str("hash_lock", ev.HashLock).Msg("lock completed for unknown swap, nothing to close")
			return
		}
		r.submit(ctx, ev, func() error {
			_, err := to.Swaps.Complete(ctx, swapID, ev.Secret)
			return err
		})
	}
}

// prepareLock responds to an initiated swap by preparing the counterparty
// lock on the destination chain. The window is half the margin remaining on
// the sender swap, converted into destination blocks by the two chains'
// block times, so the responder's lock expires in wall-clock time strictly
// before the sender's refund window opens.
func (r *Relayer) prepareLock(ctx context.Context, from, to *RelayerChain, ev domain.Event) error {
	remaining := ev.TimeLock - from.Height()
	window := remaining / 2
	if from.BlockTime > 0 && to.BlockTime > 0 {
		window = window * int64(from.BlockTime) / int64(to.BlockTime)
	}
	if window < 1 {
		r.log.Warn().
			Str("swap_id", ev.SwapID).
			Int64("remaining", remaining).
			Msg("sender margin too small to respond safely, leaving swap to expire")
		return nil
	}

	_, err := to.Locks.Respond(ctx, ports.RespondRequest{
		Caller:         to.Responder,
		HashLock:       ev.HashLock,
		Recipient:      ev.Recipient,
		Amount:         ev.Amount,
		TimeLockBlocks: window,
	})
	if err == nil {
		r.log.Info().
			Str("swap_id", ev.SwapID).
			Str("from", from.Name).
			Str("to", to.Name).
			Int64("window", window).
			Msg("counterparty lock prepared")
	}
	return err
}

// submit runs one bridged operation with bounded retries. AlreadyFinal means
// another honest actor got there first and counts as success; permanent
// errors are dropped after logging; time-dependent errors are retried until
// the attempt budget runs out.
func (r *Relayer) submit(ctx context.Context, ev domain.Event, op func() error) {
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code == "SWAP_003" { // AlreadyFinal
				r.log.Debug().Str("key", ev.Key()).Msg("record already final, treating as delivered")
				return
			}
			if !appErr.Retryable() {
				r.log.Error().Err(err).Str("key", ev.Key()).Msg("bridged operation failed permanently")
				return
			}
		}

		if attempt >= r.cfg.MaxAttempts {
			r.log.Error().Err(err).Str("key", ev.Key()).Int("attempts", attempt).Msg("bridged operation exhausted retries")
			return
		}
		r.log.Warn().Err(err).Str("key", ev.Key()).Int("attempt", attempt).Msg("bridged operation failed, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.cfg.RetryDelay):
		}
	}
}
