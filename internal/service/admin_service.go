package service

import (
	"context"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"

	"github.com/rs/zerolog"
)

// AdminServiceImpl implements ports.AdminService on top of one chain state.
// Audit trails are recorded by the HTTP layer, which knows the caller's IP.
type AdminServiceImpl struct {
	state *ChainState
	log   zerolog.Logger
}

// NewAdminService creates a new AdminServiceImpl.
func NewAdminService(state *ChainState, log zerolog.Logger) *AdminServiceImpl {
	return &AdminServiceImpl{state: state, log: log}
}

// SetRate updates the exchange rate. Responder role only.
func (s *AdminServiceImpl) SetRate(ctx context.Context, caller domain.Address, rate int64) error {
	return s.state.SetRate(caller, rate)
}

// Pause halts all pool, swap and lock operations. Owner only.
func (s *AdminServiceImpl) Pause(ctx context.Context, caller domain.Address) error {
	return s.state.Pause(caller)
}

// Unpause resumes operations. Owner only.
func (s *AdminServiceImpl) Unpause(ctx context.Context, caller domain.Address) error {
	return s.state.Unpause(caller)
}

// TransferOwnership reassigns the owner role. Owner only.
func (s *AdminServiceImpl) TransferOwnership(ctx context.Context, caller, newOwner domain.Address) error {
	return s.state.TransferOwnership(caller, newOwner)
}

// SetResponder reassigns the responder role. Owner only.
func (s *AdminServiceImpl) SetResponder(ctx context.Context, caller, newResponder domain.Address) error {
	return s.state.SetResponder(caller, newResponder)
}

// EmergencyWithdraw drains the native reserve to the owner. Owner only.
func (s *AdminServiceImpl) EmergencyWithdraw(ctx context.Context, caller domain.Address) (int64, error) {
	return s.state.EmergencyWithdraw(caller)
}

// Info returns the public pool snapshot.
func (s *AdminServiceImpl) Info(ctx context.Context) (*ports.PoolInfo, error) {
	info := s.state.Info()
	return &info, nil
}
