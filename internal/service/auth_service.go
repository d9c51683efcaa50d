package service

import (
	"context"
	"fmt"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/apperror"
)

// AuthServiceImpl implements ports.AuthService against the operator accounts
// seeded from configuration. There is no registration path; the account set
// is fixed for the process lifetime.
type AuthServiceImpl struct {
	operators map[string]*domain.Operator // by username
	hashSvc   ports.HashService
	tokenSvc  ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl over the seeded operators.
func NewAuthService(operators []domain.Operator, hashSvc ports.HashService, tokenSvc ports.TokenService) *AuthServiceImpl {
	byName := make(map[string]*domain.Operator, len(operators))
	for i := range operators {
		op := operators[i]
		byName[op.Username] = &op
	}
	return &AuthServiceImpl{
		operators: byName,
		hashSvc:   hashSvc,
		tokenSvc:  tokenSvc,
	}
}

// Login validates credentials and returns a JWT token for the operator.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	op, ok := s.operators[username]
	if !ok {
		// Burn a comparison anyway so unknown usernames cost the same as
		// known ones.
		_, _ = s.hashSvc.Verify(password, "$2a$10$0000000000000000000000uGZwCvKnj4WWPIh7XmAMBzZnSfZPAXG")
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, op.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(op)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return &ports.LoginResult{
		Token:    token,
		Expiry:   expiry,
		Operator: op,
	}, nil
}
