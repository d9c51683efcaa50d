package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies one kind of chain event.
type EventType string

const (
	EventSwapInitiated  EventType = "SWAP_INITIATED"
	EventSwapCompleted  EventType = "SWAP_COMPLETED"
	EventSecretRevealed EventType = "SECRET_REVEALED"
	EventSwapRefunded   EventType = "SWAP_REFUNDED"
	EventSwapLinked     EventType = "SWAP_LINKED"
	EventLockPrepared   EventType = "LOCK_PREPARED"
	EventLockCompleted  EventType = "LOCK_COMPLETED"
	EventLockRefunded   EventType = "LOCK_REFUNDED"
	EventDeposit        EventType = "DEPOSIT"
	EventWithdrawal     EventType = "WITHDRAWAL"
	EventRateUpdated    EventType = "RATE_UPDATED"
	EventPaused         EventType = "PAUSED"
	EventUnpaused       EventType = "UNPAUSED"
)

// Event is one externally observable chain event. The relayer consumes these
// with at-least-once semantics: consumers must deduplicate on Key().
//
// The payload is flat; fields irrelevant to a given type stay zero.
type Event struct {
	ID     uuid.UUID `json:"id"`
	Chain  string    `json:"chain"`
	Type   EventType `json:"type"`
	Height int64     `json:"height"`
	At     time.Time `json:"at"`

	SwapID    string  `json:"swap_id,omitempty"`
	HashLock  string  `json:"hash_lock,omitempty"`
	Secret    string  `json:"secret,omitempty"` // set on SECRET_REVEALED and the completion events
	Sender    Address `json:"sender,omitempty"`
	Recipient Address `json:"recipient,omitempty"`
	Amount    int64   `json:"amount,omitempty"`
	TimeLock  int64   `json:"time_lock,omitempty"`
	Rate      int64   `json:"rate,omitempty"`
}

// Key returns the deduplication key for at-least-once consumers. It is
// derived from the event's semantic identity, not its uuid, so a re-emitted
// event collapses onto the same key.
func (e Event) Key() string {
	subject := e.SwapID
	if subject == "" {
		subject = e.HashLock
	}
	return e.Chain + ":" + string(e.Type) + ":" + subject
}
