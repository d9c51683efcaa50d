package ports

import (
	"context"
	"time"

	"cross-chain-pool/internal/core/domain"
)

// EventSink receives chain events as they are emitted. Publish must be cheap
// and non-blocking: it is called while the chain state lock is held so that
// event order matches transition order.
type EventSink interface {
	Publish(ev domain.Event)
}

// EventSource hands out subscriptions to the chain event stream. The returned
// cancel function releases the subscription; the channel is closed afterwards.
type EventSource interface {
	Subscribe(buffer int) (<-chan domain.Event, func())
}

// --- Service Ports (Business Logic) ---

// PoolService is the rate converter: native asset in, ledger units out, and
// back. Deposits and withdrawals are independent of cross-chain activity.
type PoolService interface {
	Deposit(ctx context.Context, req DepositRequest) (*ConversionResult, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*ConversionResult, error)
	BalanceOf(ctx context.Context, account domain.Address) (int64, error)
	Reserve(ctx context.Context) (int64, error)
	TotalSupply(ctx context.Context) (int64, error)
	Rate(ctx context.Context) (int64, error)
}

// DepositRequest holds validated input for a native-for-units deposit.
type DepositRequest struct {
	Account      domain.Address
	NativeAmount int64
}

// WithdrawRequest holds validated input for a units-for-native withdrawal.
type WithdrawRequest struct {
	Account domain.Address
	Units   int64
}

// ConversionResult pairs the native amount with the ledger-unit amount that
// one deposit or withdrawal moved.
type ConversionResult struct {
	NativeAmount int64 `json:"native_amount"`
	Units        int64 `json:"units"`
	Rate         int64 `json:"rate"`
}

// SwapService is the sender-side locked-swap state machine.
type SwapService interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	Complete(ctx context.Context, swapID, secret string) (*domain.Swap, error)
	Refund(ctx context.Context, swapID string, caller domain.Address) (*domain.Swap, error)
	Link(ctx context.Context, req LinkRequest) (*domain.Swap, error)
	Get(ctx context.Context, swapID string) (*SwapView, error)
	Active(ctx context.Context) ([]SwapView, error)
}

// InitiateRequest holds validated input for swap initiation. When HashLock is
// empty the service generates the secret and returns it once in the result,
// mirroring the coordinator flow where the initiating side picks the secret.
type InitiateRequest struct {
	Sender         domain.Address
	Recipient      domain.Address
	Amount         int64
	TimeLockBlocks int64
	HashLock       string
}

// InitiateResult carries the created swap plus the generated secret, if any.
// The secret is never stored; this is its only appearance.
type InitiateResult struct {
	Swap   *domain.Swap
	Secret string
}

// LinkRequest is the advisory cross-check between a sender swap and the
// counterparty lock observed on the other chain.
type LinkRequest struct {
	Caller        domain.Address
	SwapID        string
	HashLock      string
	LockRecipient domain.Address
	LockAmount    int64
}

// SwapView is a swap with its height-derived status.
type SwapView struct {
	Swap    *domain.Swap      `json:"swap"`
	Status  domain.SwapStatus `json:"status"`
	Expired bool              `json:"expired"`
}

// LockService is the counterparty-side prepared-lock state machine.
type LockService interface {
	Respond(ctx context.Context, req RespondRequest) (*domain.Lock, error)
	Complete(ctx context.Context, hashLock, secret string) (*domain.Lock, error)
	Refund(ctx context.Context, hashLock string, caller domain.Address) (*domain.Lock, error)
	Get(ctx context.Context, hashLock string) (*LockView, error)
}

// RespondRequest holds validated input for counterparty lock preparation.
type RespondRequest struct {
	Caller         domain.Address
	HashLock       string
	Recipient      domain.Address
	Amount         int64
	TimeLockBlocks int64
}

// LockView is a lock with its height-derived status.
type LockView struct {
	Lock    *domain.Lock      `json:"lock"`
	Status  domain.SwapStatus `json:"status"`
	Expired bool              `json:"expired"`
}

// AdminService covers the access-gated administrative surface of one chain.
type AdminService interface {
	SetRate(ctx context.Context, caller domain.Address, rate int64) error
	Pause(ctx context.Context, caller domain.Address) error
	Unpause(ctx context.Context, caller domain.Address) error
	TransferOwnership(ctx context.Context, caller, newOwner domain.Address) error
	SetResponder(ctx context.Context, caller, newResponder domain.Address) error
	EmergencyWithdraw(ctx context.Context, caller domain.Address) (int64, error)
	Info(ctx context.Context) (*PoolInfo, error)
}

// PoolInfo is the public snapshot of one chain's pool.
type PoolInfo struct {
	Chain         string         `json:"chain"`
	NativeSymbol  string         `json:"native_symbol"`
	Height        int64          `json:"height"`
	Rate          int64          `json:"rate"`
	RatePrecision int64          `json:"rate_precision"`
	TotalSupply   int64          `json:"total_supply"`
	Reserve       int64          `json:"reserve"`
	Paused        bool           `json:"paused"`
	Owner         domain.Address `json:"owner"`
	Responder     domain.Address `json:"responder"`
}

// AuthService authenticates operators against the seeded account list.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// LoginResult holds a freshly issued operator token.
type LoginResult struct {
	Token    string
	Expiry   time.Time
	Operator *domain.Operator
}

// TokenService handles JWT token operations for operator sessions.
type TokenService interface {
	Generate(op *domain.Operator) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Username string
	Address  domain.Address
	Role     domain.Role
}

// HashService handles operator password hashing.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// ReportingService exposes recorded history for dashboards.
type ReportingService interface {
	GetSwapStats(ctx context.Context, chain, period string) (*SwapStats, error)
	ListHistory(ctx context.Context, params HistoryListParams) ([]domain.Event, int64, error)
}

// AuditService records administrative actions without blocking the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditEntry)
}
