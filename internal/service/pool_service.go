package service

import (
	"context"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"

	"github.com/rs/zerolog"
)

// PoolServiceImpl implements ports.PoolService on top of one chain state.
type PoolServiceImpl struct {
	state *ChainState
	log   zerolog.Logger
}

// NewPoolService creates a new PoolServiceImpl.
func NewPoolService(state *ChainState, log zerolog.Logger) *PoolServiceImpl {
	return &PoolServiceImpl{state: state, log: log}
}

// Deposit converts native value into ledger units.
func (s *PoolServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*ports.ConversionResult, error) {
	rate := s.state.Rate()
	units, err := s.state.Deposit(req.Account, req.NativeAmount)
	if err != nil {
		return nil, err
	}
	return &ports.ConversionResult{
		NativeAmount: req.NativeAmount,
		Units:        units,
		Rate:         rate,
	}, nil
}

// Withdraw converts ledger units back into native value.
func (s *PoolServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*ports.ConversionResult, error) {
	rate := s.state.Rate()
	native, err := s.state.Withdraw(req.Account, req.Units)
	if err != nil {
		return nil, err
	}
	return &ports.ConversionResult{
		NativeAmount: native,
		Units:        req.Units,
		Rate:         rate,
	}, nil
}

// BalanceOf returns an account's ledger-unit balance.
func (s *PoolServiceImpl) BalanceOf(ctx context.Context, account domain.Address) (int64, error) {
	return s.state.BalanceOf(account), nil
}

// Reserve returns the pool's native reserve.
func (s *PoolServiceImpl) Reserve(ctx context.Context) (int64, error) {
	return s.state.Reserve(), nil
}

// TotalSupply returns the ledger's total unit supply.
func (s *PoolServiceImpl) TotalSupply(ctx context.Context) (int64, error) {
	return s.state.TotalSupply(), nil
}

// Rate returns the current exchange rate.
func (s *PoolServiceImpl) Rate(ctx context.Context) (int64, error) {
	return s.state.Rate(), nil
}
