package service

import (
	"context"
	"fmt"

	"cross-chain-pool/config"
	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/apperror"
	"cross-chain-pool/pkg/hashlock"

	"github.com/rs/zerolog"
)

// SwapServiceImpl implements ports.SwapService on top of one chain state.
type SwapServiceImpl struct {
	state *ChainState
	cfg   config.SwapConfig
	log   zerolog.Logger
}

// NewSwapService creates a new SwapServiceImpl.
func NewSwapService(state *ChainState, cfg config.SwapConfig, log zerolog.Logger) *SwapServiceImpl {
	return &SwapServiceImpl{state: state, cfg: cfg, log: log}
}

// Initiate creates a sender-side swap. When the request carries no hash lock
// the service generates the secret and returns it once; it is never stored.
func (s *SwapServiceImpl) Initiate(ctx context.Context, req ports.InitiateRequest) (*ports.InitiateResult, error) {
	if req.Amount < s.cfg.MinAmount || req.Amount > s.cfg.MaxAmount {
		return nil, apperror.ErrInvalidArgument(
			fmt.Sprintf("amount must be between %d and %d", s.cfg.MinAmount, s.cfg.MaxAmount))
	}

	window := req.TimeLockBlocks
	if window == 0 {
		window = s.cfg.DefaultTimeLockBlocks
	}

	var secret string
	lock := req.HashLock
	if lock == "" {
		var err error
		secret, lock, err = hashlock.GenerateSecret()
		if err != nil {
			return nil, apperror.InternalError(err)
		}
	}

	swap, err := s.state.InitiateSwap(req.Sender, req.Recipient, req.Amount, window, lock)
	if err != nil {
		return nil, err
	}
	return &ports.InitiateResult{Swap: swap, Secret: secret}, nil
}

// Complete finishes an open swap with the revealed secret.
func (s *SwapServiceImpl) Complete(ctx context.Context, swapID, secret string) (*domain.Swap, error) {
	return s.state.CompleteSwap(swapID, secret)
}

// Refund returns an expired swap's custodied units to its sender.
func (s *SwapServiceImpl) Refund(ctx context.Context, swapID string, caller domain.Address) (*domain.Swap, error) {
	return s.state.RefundSwap(swapID, caller)
}

// Link cross-checks a swap against a counterparty lock observed on the other
// chain and marks it linked.
func (s *SwapServiceImpl) Link(ctx context.Context, req ports.LinkRequest) (*domain.Swap, error) {
	return s.state.LinkSwap(req.Caller, req.SwapID, req.HashLock, req.LockRecipient, req.LockAmount)
}

// Get returns a swap with its height-derived status.
func (s *SwapServiceImpl) Get(ctx context.Context, swapID string) (*ports.SwapView, error) {
	swap, height, err := s.state.GetSwap(swapID)
	if err != nil {
		return nil, err
	}
	return &ports.SwapView{
		Swap:    swap,
		Status:  swap.StatusAt(height),
		Expired: swap.ExpiredAt(height),
	}, nil
}

// Active returns all non-terminal swaps with their current statuses.
func (s *SwapServiceImpl) Active(ctx context.Context) ([]ports.SwapView, error) {
	swaps, height := s.state.ActiveSwaps()
	views := make([]ports.SwapView, 0, len(swaps))
	for i := range swaps {
		swap := swaps[i]
		views = append(views, ports.SwapView{
			Swap:    &swap,
			Status:  swap.StatusAt(height),
			Expired: swap.ExpiredAt(height),
		})
	}
	return views, nil
}
