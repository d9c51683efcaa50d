package dto

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Expiry   int64  `json:"expiry"` // Unix timestamp
	Username string `json:"username"`
	Role     string `json:"role"`
	Address  string `json:"address"`
}

// DepositRequest is the request body for a native-for-units deposit.
type DepositRequest struct {
	Account string `json:"account" binding:"required,account_addr"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
}

// WithdrawRequest is the request body for a units-for-native withdrawal.
type WithdrawRequest struct {
	Account string `json:"account" binding:"required,account_addr"`
	Units   int64  `json:"units" binding:"required,gt=0"`
}

// ConversionResponse is the response body for deposits and withdrawals.
type ConversionResponse struct {
	NativeAmount int64 `json:"native_amount"`
	Units        int64 `json:"units"`
	Rate         int64 `json:"rate"`
}

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

// InitiateSwapRequest is the request body for swap initiation. HashLock is
// optional: when absent the server generates the secret and returns it once.
type InitiateSwapRequest struct {
	Sender         string `json:"sender" binding:"required,account_addr"`
	Recipient      string `json:"recipient" binding:"required,account_addr"`
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	TimeLockBlocks int64  `json:"time_lock_blocks" binding:"omitempty,gt=0"`
	HashLock       string `json:"hash_lock" binding:"omitempty,hash_lock"`
}

// CompleteSwapRequest is the request body for completing a swap.
type CompleteSwapRequest struct {
	Secret string `json:"secret" binding:"required,len=64,hexadecimal"`
}

// RefundSwapRequest is the request body for refunding a swap.
type RefundSwapRequest struct {
	Caller string `json:"caller" binding:"required,account_addr"`
}

// LinkSwapRequest is the request body for recording the counterparty lock
// observed on the other chain against a local swap.
type LinkSwapRequest struct {
	HashLock      string `json:"hash_lock" binding:"required,hash_lock"`
	LockRecipient string `json:"lock_recipient" binding:"required,account_addr"`
	LockAmount    int64  `json:"lock_amount" binding:"required,gt=0"`
}

// SwapResponse is the response body for swap state machine results. Secret is
// present only on initiation with a server-generated secret.
type SwapResponse struct {
	SwapID    string `json:"swap_id"`
	Chain     string `json:"chain"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	HashLock  string `json:"hash_lock"`
	TimeLock  int64  `json:"time_lock"`
	Status    string `json:"status"`
	Expired   bool   `json:"expired"`
	Linked    bool   `json:"linked"`
	Secret    string `json:"secret,omitempty"`
}

// SwapListResponse wraps the active swap list.
type SwapListResponse struct {
	Items []SwapResponse `json:"items"`
	Total int            `json:"total"`
}

// RespondLockRequest is the request body for counterparty lock preparation.
type RespondLockRequest struct {
	HashLock       string `json:"hash_lock" binding:"required,hash_lock"`
	Recipient      string `json:"recipient" binding:"required,account_addr"`
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	TimeLockBlocks int64  `json:"time_lock_blocks" binding:"omitempty,gt=0"`
}

// CompleteLockRequest is the request body for completing a prepared lock.
type CompleteLockRequest struct {
	Secret string `json:"secret" binding:"required,len=64,hexadecimal"`
}

// LockResponse is the response body for lock state machine results.
type LockResponse struct {
	HashLock  string `json:"hash_lock"`
	Chain     string `json:"chain"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	TimeLock  int64  `json:"time_lock"`
	Status    string `json:"status"`
	Expired   bool   `json:"expired"`
}

// SetRateRequest is the request body for updating the exchange rate.
type SetRateRequest struct {
	Rate int64 `json:"rate" binding:"required,gt=0"`
}

// TransferOwnershipRequest is the request body for ownership transfer.
type TransferOwnershipRequest struct {
	NewOwner string `json:"new_owner" binding:"required,account_addr"`
}

// SetResponderRequest is the request body for responder rotation.
type SetResponderRequest struct {
	NewResponder string `json:"new_responder" binding:"required,account_addr"`
}

// EmergencyWithdrawResponse reports the drained reserve.
type EmergencyWithdrawResponse struct {
	Withdrawn int64 `json:"withdrawn"`
}

// SwapStatsResponse is the response for per-chain swap statistics.
type SwapStatsResponse struct {
	Initiated      int64 `json:"initiated"`
	Completed      int64 `json:"completed"`
	Refunded       int64 `json:"refunded"`
	LocksPrepared  int64 `json:"locks_prepared"`
	LocksCompleted int64 `json:"locks_completed"`
	LocksRefunded  int64 `json:"locks_refunded"`
	VolumeLocked   int64 `json:"volume_locked"`
	VolumeReleased int64 `json:"volume_released"`
}

// HistoryListResponse wraps a paginated event history page.
type HistoryListResponse struct {
	Items      []EventResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// EventResponse is one recorded chain event.
type EventResponse struct {
	ID        string `json:"id"`
	Chain     string `json:"chain"`
	Type      string `json:"type"`
	Height    int64  `json:"height"`
	SwapID    string `json:"swap_id,omitempty"`
	HashLock  string `json:"hash_lock,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
	TimeLock  int64  `json:"time_lock,omitempty"`
	Rate      int64  `json:"rate,omitempty"`
	CreatedAt string `json:"created_at"`
}
