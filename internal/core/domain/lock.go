package domain

import "time"

// Lock is a counterparty-side prepared-lock record, keyed by hash lock. The
// responder mints the prepared amount into custody when creating it; complete
// releases custody to the recipient, refund burns it back.
type Lock struct {
	HashLock        string    `json:"hash_lock"`
	Recipient       Address   `json:"recipient"`
	Amount          int64     `json:"amount"`
	TimeLock        int64     `json:"time_lock"` // absolute chain height
	Completed       bool      `json:"completed"`
	Refunded        bool      `json:"refunded"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedAtHeight int64     `json:"created_at_height"`
}

// IsTerminal returns true once the lock is completed or refunded.
func (l *Lock) IsTerminal() bool {
	return l.Completed || l.Refunded
}

// ExpiredAt reports whether the timelock has passed at the given height.
func (l *Lock) ExpiredAt(height int64) bool {
	return height > l.TimeLock
}

// StatusAt derives the visible status at the given chain height.
func (l *Lock) StatusAt(height int64) SwapStatus {
	switch {
	case l.Completed:
		return SwapStatusCompleted
	case l.Refunded:
		return SwapStatusRefunded
	case l.ExpiredAt(height):
		return SwapStatusExpired
	default:
		return SwapStatusOpen
	}
}
