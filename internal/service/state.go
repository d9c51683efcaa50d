package service

import (
	"math"
	"sync"
	"time"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/apperror"
	"cross-chain-pool/pkg/hashlock"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RatePrecision is the fixed-point scale of the exchange rate: a rate of
// 1_000_000 means one ledger unit per native unit.
const RatePrecision int64 = 1_000_000

// ChainParams seeds a fresh chain state.
type ChainParams struct {
	Name         string
	NativeSymbol string
	InitialRate  int64
	Owner        domain.Address
	Responder    domain.Address
}

// ChainState is one ledger's entire mutable state: balances, swap and lock
// records, rate, roles and pause flag. Every transition takes the single
// mutex, validates, applies fully or not at all, and emits its events before
// releasing the lock so that event order matches transition order.
//
// The model is single writer, sequential transactions. There is never a
// partial state change: a failed precondition returns before any mutation.
type ChainState struct {
	mu sync.Mutex

	name   string
	symbol string

	height int64
	rate   int64
	paused bool

	owner     domain.Address
	responder domain.Address

	balances    map[domain.Address]int64
	totalSupply int64
	reserve     int64 // native units held against withdrawals

	swaps map[string]*domain.Swap
	locks map[string]*domain.Lock

	sink ports.EventSink
	log  zerolog.Logger
	now  func() time.Time
}

// NewChainState creates an empty ledger with the given roles and rate.
func NewChainState(p ChainParams, sink ports.EventSink, log zerolog.Logger) *ChainState {
	return &ChainState{
		name:      p.Name,
		symbol:    p.NativeSymbol,
		rate:      p.InitialRate,
		owner:     p.Owner,
		responder: p.Responder,
		balances:  make(map[domain.Address]int64),
		swaps:     make(map[string]*domain.Swap),
		locks:     make(map[string]*domain.Lock),
		sink:      sink,
		log:       log.With().Str("chain", p.Name).Logger(),
		now:       time.Now,
	}
}

// Name returns the chain identifier.
func (c *ChainState) Name() string { return c.name }

// NativeSymbol returns the native asset symbol.
func (c *ChainState) NativeSymbol() string { return c.symbol }

// Height returns the current chain height.
func (c *ChainState) Height() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// AdvanceHeight ticks the chain forward one block and returns the new height.
func (c *ChainState) AdvanceHeight() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height++
	return c.height
}

// BalanceOf returns the ledger-unit balance of an account.
func (c *ChainState) BalanceOf(account domain.Address) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balances[account]
}

// TotalSupply returns the ledger-unit total supply.
func (c *ChainState) TotalSupply() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSupply
}

// Reserve returns the native reserve held by the pool.
func (c *ChainState) Reserve() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reserve
}

// Rate returns the current exchange rate (units per native, scaled by
// RatePrecision).
func (c *ChainState) Rate() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Info returns a consistent public snapshot of the pool.
func (c *ChainState) Info() ports.PoolInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ports.PoolInfo{
		Chain:         c.name,
		NativeSymbol:  c.symbol,
		Height:        c.height,
		Rate:          c.rate,
		RatePrecision: RatePrecision,
		TotalSupply:   c.totalSupply,
		Reserve:       c.reserve,
		Paused:        c.paused,
		Owner:         c.owner,
		Responder:     c.responder,
	}
}

// --- Rate Converter ---

// mulDiv computes a*b/den with floor division, rejecting operands whose
// product would overflow int64. a, b and den must be positive; the callers
// guard that before converting.
func mulDiv(a, b, den int64) (int64, error) {
	if a > math.MaxInt64/b {
		return 0, apperror.ErrInvalidArgument("amount out of range at current rate")
	}
	return a * b / den, nil
}

// Deposit converts a native amount into ledger units at the current rate,
// minting the units to the account and growing the native reserve. The
// conversion floors; a result of zero units is rejected.
func (c *ChainState) Deposit(account domain.Address, native int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return 0, apperror.ErrPaused()
	}
	if !account.Valid() {
		return 0, apperror.ErrInvalidArgument("invalid account address")
	}
	if native <= 0 {
		return 0, apperror.ErrInvalidArgument("native amount must be positive")
	}

	units, err := mulDiv(native, c.rate, RatePrecision)
	if err != nil {
		return 0, err
	}
	if units == 0 {
		return 0, apperror.ErrZeroResult()
	}

	c.mint(account, units)
	c.reserve += native

	c.emit(domain.Event{
		Type:   domain.EventDeposit,
		Sender: account,
		Amount: units,
		Rate:   c.rate,
	})
	c.log.Info().Str("account", string(account)).Int64("native", native).Int64("units", units).Msg("deposit")
	return units, nil
}

// Withdraw converts ledger units back to native at the current rate, burning
// the units and paying out of the reserve. Round-tripping never pays out more
// native than was deposited; the floor asymmetry is intentional.
func (c *ChainState) Withdraw(account domain.Address, units int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return 0, apperror.ErrPaused()
	}
	if !account.Valid() {
		return 0, apperror.ErrInvalidArgument("invalid account address")
	}
	if units <= 0 {
		return 0, apperror.ErrInvalidArgument("units must be positive")
	}
	if c.balances[account] < units {
		return 0, apperror.ErrInsufficientBalance()
	}

	native, err := mulDiv(units, RatePrecision, c.rate)
	if err != nil {
		return 0, err
	}
	if native == 0 {
		return 0, apperror.ErrZeroResult()
	}
	if c.reserve < native {
		return 0, apperror.ErrInsufficientReserve()
	}

	c.burn(account, units)
	c.reserve -= native

	c.emit(domain.Event{
		Type:   domain.EventWithdrawal,
		Sender: account,
		Amount: units,
		Rate:   c.rate,
	})
	c.log.Info().Str("account", string(account)).Int64("units", units).Int64("native", native).Msg("withdrawal")
	return native, nil
}

// --- Sender Swap State Machine ---

// InitiateSwap locks the sender's units in custody under a hash commitment.
// The timelock is absolute: current height plus the requested window.
func (c *ChainState) InitiateSwap(sender, recipient domain.Address, amount, window int64, lock string) (*domain.Swap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return nil, apperror.ErrPaused()
	}
	if !sender.Valid() || !recipient.Valid() {
		return nil, apperror.ErrInvalidArgument("invalid sender or recipient address")
	}
	if amount <= 0 {
		return nil, apperror.ErrInvalidArgument("amount must be positive")
	}
	if window <= 0 {
		return nil, apperror.ErrInvalidArgument("timelock window must be positive")
	}
	if !hashlock.ValidLock(lock) {
		return nil, apperror.ErrInvalidArgument("malformed hash lock")
	}
	if c.balances[sender] < amount {
		return nil, apperror.ErrInsufficientBalance()
	}

	at := c.now()
	id := domain.DeriveSwapID(lock, sender, recipient, amount, c.height, at)
	if _, exists := c.swaps[id]; exists {
		return nil, apperror.ErrDuplicateSwap()
	}

	c.transfer(sender, domain.CustodyAddress, amount)

	swap := &domain.Swap{
		ID:              id,
		HashLock:        lock,
		Sender:          sender,
		Recipient:       recipient,
		Amount:          amount,
		TimeLock:        c.height + window,
		CreatedAt:       at,
		CreatedAtHeight: c.height,
	}
	c.swaps[id] = swap

	c.emit(domain.Event{
		Type:      domain.EventSwapInitiated,
		SwapID:    id,
		HashLock:  lock,
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		TimeLock:  swap.TimeLock,
	})
	c.log.Info().Str("swap_id", id).Str("hash_lock", lock).Int64("amount", amount).Int64("time_lock", swap.TimeLock).Msg("swap initiated")

	cp := *swap
	return &cp, nil
}

// CompleteSwap finishes an open swap with the revealed secret, burning the
// custodied units off this ledger. Emits SecretRevealed so an observer can
// release the matching counterparty lock on the other chain.
func (c *ChainState) CompleteSwap(id, secret string) (*domain.Swap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return nil, apperror.ErrPaused()
	}
	swap, ok := c.swaps[id]
	if !ok {
		return nil, apperror.ErrNotFound("Swap")
	}
	if swap.IsTerminal() {
		return nil, apperror.ErrAlreadyFinal()
	}
	if swap.ExpiredAt(c.height) {
		return nil, apperror.ErrExpired()
	}
	if !hashlock.Verify(secret, swap.HashLock) {
		return nil, apperror.ErrInvalidSecret()
	}

	swap.Completed = true
	c.burn(domain.CustodyAddress, swap.Amount)

	c.emit(domain.Event{
		Type:     domain.EventSwapCompleted,
		SwapID:   id,
		HashLock: swap.HashLock,
		Secret:   secret,
		Amount:   swap.Amount,
	})
	c.emit(domain.Event{
		Type:      domain.EventSecretRevealed,
		SwapID:    id,
		HashLock:  swap.HashLock,
		Secret:    secret,
		Recipient: swap.Recipient,
		Amount:    swap.Amount,
	})
	c.log.Info().Str("swap_id", id).Msg("swap completed, secret revealed")

	cp := *swap
	return &cp, nil
}

// RefundSwap returns custodied units to the sender once the timelock has
// passed. Only the original sender may refund.
func (c *ChainState) RefundSwap(id string, caller domain.Address) (*domain.Swap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return nil, apperror.ErrPaused()
	}
	swap, ok := c.swaps[id]
	if !ok {
		return nil, apperror.ErrNotFound("Swap")
	}
	if swap.IsTerminal() {
		return nil, apperror.ErrAlreadyFinal()
	}
	if caller != swap.Sender {
		return nil, apperror.ErrUnauthorized()
	}
	if !swap.ExpiredAt(c.height) {
		return nil, apperror.ErrNotYetExpired(swap.TimeLock)
	}

	swap.Refunded = true
	c.transfer(domain.CustodyAddress, swap.Sender, swap.Amount)

	c.emit(domain.Event{
		Type:     domain.EventSwapRefunded,
		SwapID:   id,
		HashLock: swap.HashLock,
		Sender:   swap.Sender,
		Amount:   swap.Amount,
	})
	c.log.Info().Str("swap_id", id).Msg("swap refunded")

	cp := *swap
	return &cp, nil
}

// LinkSwap marks a swap as cross-checked against a counterparty lock observed
// on the other chain. Advisory only: complete and refund never consult it.
func (c *ChainState) LinkSwap(caller domain.Address, id, lock string, lockRecipient domain.Address, lockAmount int64) (*domain.Swap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return nil, apperror.ErrPaused()
	}
	if caller != c.responder {
		return nil, apperror.ErrUnauthorized()
	}
	swap, ok := c.swaps[id]
	if !ok {
		return nil, apperror.ErrNotFound("Swap")
	}
	if swap.HashLock != lock {
		return nil, apperror.ErrInvalidArgument("hash lock does not match swap")
	}
	if swap.Recipient != lockRecipient || swap.Amount != lockAmount {
		return nil, apperror.ErrInvalidArgument("counterparty lock does not match swap terms")
	}

	swap.Linked = true

	c.emit(domain.Event{
		Type:     domain.EventSwapLinked,
		SwapID:   id,
		HashLock: lock,
	})

	cp := *swap
	return &cp, nil
}

// GetSwap returns a copy of the swap record and the current height.
func (c *ChainState) GetSwap(id string) (*domain.Swap, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	swap, ok := c.swaps[id]
	if !ok {
		return nil, 0, apperror.ErrNotFound("Swap")
	}
	cp := *swap
	return &cp, c.height, nil
}

// ActiveSwaps returns copies of all non-terminal swap records and the height
// at which the snapshot was taken. Expired-but-open records are included;
// status derivation is the caller's concern.
func (c *ChainState) ActiveSwaps() ([]domain.Swap, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []domain.Swap
	for _, swap := range c.swaps {
		if !swap.IsTerminal() {
			out = append(out, *swap)
		}
	}
	return out, c.height
}

// --- Counterparty Lock State Machine ---

// PrepareLock mints units into custody against a hash commitment observed on
// the other chain. Responder role only; the hash lock is single-use. The
// caller is responsible for choosing a window strictly smaller than the
// margin remaining on the matching sender swap.
func (c *ChainState) PrepareLock(caller domain.Address, lock string, recipient domain.Address, amount, window int64) (*domain.Lock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return nil, apperror.ErrPaused()
	}
	if caller != c.responder {
		return nil, apperror.ErrUnauthorized()
	}
	if !recipient.Valid() {
		return nil, apperror.ErrInvalidArgument("invalid recipient address")
	}
	if amount <= 0 {
		return nil, apperror.ErrInvalidArgument("amount must be positive")
	}
	if window <= 0 {
		return nil, apperror.ErrInvalidArgument("timelock window must be positive")
	}
	if !hashlock.ValidLock(lock) {
		return nil, apperror.ErrInvalidArgument("malformed hash lock")
	}
	if _, exists := c.locks[lock]; exists {
		return nil, apperror.ErrHashLockUsed()
	}

	c.mint(domain.CustodyAddress, amount)

	rec := &domain.Lock{
		HashLock:        lock,
		Recipient:       recipient,
		Amount:          amount,
		TimeLock:        c.height + window,
		CreatedAt:       c.now(),
		CreatedAtHeight: c.height,
	}
	c.locks[lock] = rec

	c.emit(domain.Event{
		Type:      domain.EventLockPrepared,
		HashLock:  lock,
		Recipient: recipient,
		Amount:    amount,
		TimeLock:  rec.TimeLock,
	})
	c.log.Info().Str("hash_lock", lock).Int64("amount", amount).Int64("time_lock", rec.TimeLock).Msg("lock prepared")

	cp := *rec
	return &cp, nil
}

// CompleteLock releases a prepared lock to its recipient given the secret.
// Callable by anyone who has observed the secret.
func (c *ChainState) CompleteLock(lock, secret string) (*domain.Lock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return nil, apperror.ErrPaused()
	}
	rec, ok := c.locks[lock]
	if !ok {
		return nil, apperror.ErrNotFound("Lock")
	}
	if rec.IsTerminal() {
		return nil, apperror.ErrAlreadyFinal()
	}
	if rec.ExpiredAt(c.height) {
		return nil, apperror.ErrExpired()
	}
	if !hashlock.Verify(secret, lock) {
		return nil, apperror.ErrInvalidSecret()
	}

	rec.Completed = true
	c.transfer(domain.CustodyAddress, rec.Recipient, rec.Amount)

	c.emit(domain.Event{
		Type:      domain.EventLockCompleted,
		HashLock:  lock,
		Secret:    secret,
		Recipient: rec.Recipient,
		Amount:    rec.Amount,
	})
	c.log.Info().Str("hash_lock", lock).Msg("lock completed")

	cp := *rec
	return &cp, nil
}

// RefundLock burns a prepared lock back out of custody once its timelock has
// passed, undoing the preparation mint. Responder role only.
func (c *ChainState) RefundLock(lock string, caller domain.Address) (*domain.Lock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return nil, apperror.ErrPaused()
	}
	rec, ok := c.locks[lock]
	if !ok {
		return nil, apperror.ErrNotFound("Lock")
	}
	if rec.IsTerminal() {
		return nil, apperror.ErrAlreadyFinal()
	}
	if caller != c.responder {
		return nil, apperror.ErrUnauthorized()
	}
	if !rec.ExpiredAt(c.height) {
		return nil, apperror.ErrNotYetExpired(rec.TimeLock)
	}

	rec.Refunded = true
	c.burn(domain.CustodyAddress, rec.Amount)

	c.emit(domain.Event{
		Type:     domain.EventLockRefunded,
		HashLock: lock,
		Amount:   rec.Amount,
	})
	c.log.Info().Str("hash_lock", lock).Msg("lock refunded")

	cp := *rec
	return &cp, nil
}

// GetLock returns a copy of the lock record and the current height.
func (c *ChainState) GetLock(lock string) (*domain.Lock, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.locks[lock]
	if !ok {
		return nil, 0, apperror.ErrNotFound("Lock")
	}
	cp := *rec
	return &cp, c.height, nil
}

// --- Access Gate ---

// SetRate updates the exchange rate. Responder role only.
func (c *ChainState) SetRate(caller domain.Address, rate int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return apperror.ErrPaused()
	}
	if caller != c.responder {
		return apperror.ErrUnauthorized()
	}
	if rate <= 0 {
		return apperror.ErrInvalidArgument("rate must be positive")
	}

	c.rate = rate

	c.emit(domain.Event{
		Type:   domain.EventRateUpdated,
		Sender: caller,
		Rate:   rate,
	})
	c.log.Info().Int64("rate", rate).Msg("rate updated")
	return nil
}

// Pause stops all ledger, pool, swap, lock and rate operations. Owner only.
// Owner gate operations stay callable while paused so the owner can always
// recover: unpause, role reassignment and emergency withdrawal.
func (c *ChainState) Pause(caller domain.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return apperror.ErrUnauthorized()
	}
	if c.paused {
		return apperror.ErrInvalidArgument("pool already paused")
	}

	c.paused = true
	c.emit(domain.Event{Type: domain.EventPaused, Sender: caller})
	c.log.Warn().Msg("pool paused")
	return nil
}

// Unpause resumes operations. Owner only.
func (c *ChainState) Unpause(caller domain.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return apperror.ErrUnauthorized()
	}
	if !c.paused {
		return apperror.ErrInvalidArgument("pool is not paused")
	}

	c.paused = false
	c.emit(domain.Event{Type: domain.EventUnpaused, Sender: caller})
	c.log.Warn().Msg("pool unpaused")
	return nil
}

// TransferOwnership reassigns the owner role. Owner only.
func (c *ChainState) TransferOwnership(caller, newOwner domain.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return apperror.ErrUnauthorized()
	}
	if !newOwner.Valid() {
		return apperror.ErrInvalidArgument("invalid new owner address")
	}

	c.owner = newOwner
	c.log.Warn().Str("new_owner", string(newOwner)).Msg("ownership transferred")
	return nil
}

// SetResponder reassigns the responder role. Owner only.
func (c *ChainState) SetResponder(caller, newResponder domain.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return apperror.ErrUnauthorized()
	}
	if !newResponder.Valid() {
		return apperror.ErrInvalidArgument("invalid new responder address")
	}

	c.responder = newResponder
	c.log.Warn().Str("new_responder", string(newResponder)).Msg("responder reassigned")
	return nil
}

// EmergencyWithdraw drains the entire native reserve to the owner. Owner
// only, callable while paused. Ledger balances are untouched; outstanding
// unit holders lose native backing until the reserve is replenished.
func (c *ChainState) EmergencyWithdraw(caller domain.Address) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return 0, apperror.ErrUnauthorized()
	}
	if c.reserve == 0 {
		return 0, apperror.ErrInsufficientReserve()
	}

	drained := c.reserve
	c.reserve = 0
	c.log.Warn().Int64("native", drained).Msg("emergency reserve withdrawal")
	return drained, nil
}

// --- Balance Ledger primitives (mutex held by caller) ---

func (c *ChainState) mint(account domain.Address, amount int64) {
	c.balances[account] += amount
	c.totalSupply += amount
}

func (c *ChainState) burn(account domain.Address, amount int64) {
	c.balances[account] -= amount
	c.totalSupply -= amount
}

func (c *ChainState) transfer(from, to domain.Address, amount int64) {
	c.balances[from] -= amount
	c.balances[to] += amount
}

// emit stamps the event with chain identity, height and time, then hands it
// to the sink. Called with the mutex held.
func (c *ChainState) emit(ev domain.Event) {
	ev.ID = uuid.New()
	ev.Chain = c.name
	ev.Height = c.height
	ev.At = c.now()
	if c.sink != nil {
		c.sink.Publish(ev)
	}
}
