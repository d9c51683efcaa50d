package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// SwapStatus is the externally visible lifecycle state of a swap record.
type SwapStatus string

const (
	SwapStatusOpen      SwapStatus = "OPEN"
	SwapStatusCompleted SwapStatus = "COMPLETED"
	SwapStatusRefunded  SwapStatus = "REFUNDED"
	// SwapStatusExpired is derived, never stored: an open record whose
	// timelock has passed. The record stays mutable only via refund.
	SwapStatusExpired SwapStatus = "EXPIRED"
)

// Swap is a sender-side locked-swap record. Created by initiate, mutated only
// by complete or refund, never deleted.
type Swap struct {
	ID        string    `json:"swap_id"`
	HashLock  string    `json:"hash_lock"`
	Sender    Address   `json:"sender"`
	Recipient Address   `json:"recipient"` // address on the counterparty chain
	Amount    int64     `json:"amount"`
	TimeLock  int64     `json:"time_lock"` // absolute chain height
	Completed bool      `json:"completed"`
	Refunded  bool      `json:"refunded"`
	// Linked is advisory only: set when the responder has cross-checked the
	// matching counterparty lock. Never consulted by complete or refund.
	Linked          bool      `json:"counterparty_linked"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedAtHeight int64     `json:"created_at_height"`
}

// IsTerminal returns true once the swap is completed or refunded.
func (s *Swap) IsTerminal() bool {
	return s.Completed || s.Refunded
}

// ExpiredAt reports whether the timelock has passed at the given height.
// The boundary height itself still admits a complete.
func (s *Swap) ExpiredAt(height int64) bool {
	return height > s.TimeLock
}

// StatusAt derives the visible status at the given chain height.
func (s *Swap) StatusAt(height int64) SwapStatus {
	switch {
	case s.Completed:
		return SwapStatusCompleted
	case s.Refunded:
		return SwapStatusRefunded
	case s.ExpiredAt(height):
		return SwapStatusExpired
	default:
		return SwapStatusOpen
	}
}

// DeriveSwapID computes the deterministic swap identifier from the swap
// parameters salted with creation height and wall-clock nanos. Collisions are
// astronomically unlikely but the creation path still checks and rejects.
func DeriveSwapID(hashLock string, sender, recipient Address, amount, height int64, at time.Time) string {
	h := sha256.New()
	h.Write([]byte(hashLock))
	h.Write([]byte(sender))
	h.Write([]byte(recipient))

	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(amount))
	binary.BigEndian.PutUint64(buf[8:16], uint64(height))
	binary.BigEndian.PutUint64(buf[16:24], uint64(at.UnixNano()))
	h.Write(buf[:])

	return hex.EncodeToString(h.Sum(nil))
}
