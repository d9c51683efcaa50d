package service

import (
	"context"
	"fmt"

	"cross-chain-pool/config"
	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/apperror"

	"github.com/rs/zerolog"
)

// LockServiceImpl implements ports.LockService on top of one chain state.
type LockServiceImpl struct {
	state *ChainState
	cfg   config.SwapConfig
	log   zerolog.Logger
}

// NewLockService creates a new LockServiceImpl.
func NewLockService(state *ChainState, cfg config.SwapConfig, log zerolog.Logger) *LockServiceImpl {
	return &LockServiceImpl{state: state, cfg: cfg, log: log}
}

// Respond prepares a counterparty lock for a hash commitment observed on the
// other chain. Responder role only.
func (s *LockServiceImpl) Respond(ctx context.Context, req ports.RespondRequest) (*domain.Lock, error) {
	if req.Amount < s.cfg.MinAmount || req.Amount > s.cfg.MaxAmount {
		return nil, apperror.ErrInvalidArgument(
			fmt.Sprintf("amount must be between %d and %d", s.cfg.MinAmount, s.cfg.MaxAmount))
	}
	return s.state.PrepareLock(req.Caller, req.HashLock, req.Recipient, req.Amount, req.TimeLockBlocks)
}

// Complete releases a prepared lock to its recipient given the secret.
func (s *LockServiceImpl) Complete(ctx context.Context, hashLock, secret string) (*domain.Lock, error) {
	return s.state.CompleteLock(hashLock, secret)
}

// Refund burns an expired prepared lock back out of custody.
func (s *LockServiceImpl) Refund(ctx context.Context, hashLock string, caller domain.Address) (*domain.Lock, error) {
	return s.state.RefundLock(hashLock, caller)
}

// Get returns a lock with its height-derived status.
func (s *LockServiceImpl) Get(ctx context.Context, hashLock string) (*ports.LockView, error) {
	lock, height, err := s.state.GetLock(hashLock)
	if err != nil {
		return nil, err
	}
	return &ports.LockView{
		Lock:    lock,
		Status:  lock.StatusAt(height),
		Expired: lock.ExpiredAt(height),
	}, nil
}
