package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddress_Valid(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want bool
	}{
		{"plain address", "0xabc123", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"custody reserved", CustodyAddress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.Valid())
		})
	}
}

func TestSwap_IsTerminal(t *testing.T) {
	tests := []struct {
		name      string
		completed bool
		refunded  bool
		want      bool
	}{
		{"open", false, false, false},
		{"completed", true, false, true},
		{"refunded", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Swap{Completed: tt.completed, Refunded: tt.refunded}
			assert.Equal(t, tt.want, s.IsTerminal())
		})
	}
}

func TestSwap_StatusAt(t *testing.T) {
	s := &Swap{TimeLock: 100}

	assert.Equal(t, SwapStatusOpen, s.StatusAt(100), "boundary height is still open")
	assert.Equal(t, SwapStatusExpired, s.StatusAt(101))

	s.Completed = true
	assert.Equal(t, SwapStatusCompleted, s.StatusAt(101), "terminal state wins over expiry")

	r := &Swap{TimeLock: 100, Refunded: true}
	assert.Equal(t, SwapStatusRefunded, r.StatusAt(50))
}

func TestLock_StatusAt(t *testing.T) {
	l := &Lock{TimeLock: 40}

	assert.False(t, l.ExpiredAt(40))
	assert.True(t, l.ExpiredAt(41))
	assert.Equal(t, SwapStatusOpen, l.StatusAt(40))
	assert.Equal(t, SwapStatusExpired, l.StatusAt(41))
}

func TestDeriveSwapID_Deterministic(t *testing.T) {
	at := time.Unix(1700000000, 42)
	lock := strings.Repeat("ab", 32)

	id1 := DeriveSwapID(lock, "alice", "bob", 500, 10, at)
	id2 := DeriveSwapID(lock, "alice", "bob", 500, 10, at)
	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64)
}

func TestDeriveSwapID_SensitiveToInputs(t *testing.T) {
	at := time.Unix(1700000000, 42)
	lock := strings.Repeat("ab", 32)
	base := DeriveSwapID(lock, "alice", "bob", 500, 10, at)

	assert.NotEqual(t, base, DeriveSwapID(lock, "alice", "bob", 501, 10, at))
	assert.NotEqual(t, base, DeriveSwapID(lock, "alice", "bob", 500, 11, at))
	assert.NotEqual(t, base, DeriveSwapID(lock, "alice", "carol", 500, 10, at))
	assert.NotEqual(t, base, DeriveSwapID(lock, "alice", "bob", 500, 10, at.Add(time.Nanosecond)))
}

func TestEvent_Key(t *testing.T) {
	ev := Event{Chain: "ethereum", Type: EventSwapInitiated, SwapID: "abc"}
	assert.Equal(t, "ethereum:SWAP_INITIATED:abc", ev.Key())

	lockEv := Event{Chain: "bsc", Type: EventLockPrepared, HashLock: "deadbeef"}
	assert.Equal(t, "bsc:LOCK_PREPARED:deadbeef", lockEv.Key())

	// SwapID wins when both are set.
	both := Event{Chain: "bsc", Type: EventSecretRevealed, SwapID: "s1", HashLock: "h1"}
	assert.Equal(t, "bsc:SECRET_REVEALED:s1", both.Key())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.True(t, RoleResponder.Valid())
	assert.False(t, Role("admin").Valid())
}
