package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminAction represents the type of audited administrative action.
type AdminAction string

const (
	AdminActionLogin             AdminAction = "LOGIN"
	AdminActionSetRate           AdminAction = "SET_RATE"
	AdminActionPause             AdminAction = "PAUSE"
	AdminActionUnpause           AdminAction = "UNPAUSE"
	AdminActionTransferOwnership AdminAction = "TRANSFER_OWNERSHIP"
	AdminActionSetResponder      AdminAction = "SET_RESPONDER"
	AdminActionEmergencyWithdraw AdminAction = "EMERGENCY_WITHDRAW"
)

// AuditEntry records a single administrative action against one chain.
type AuditEntry struct {
	ID        uuid.UUID   `json:"id"`
	Chain     string      `json:"chain,omitempty"`
	Actor     Address     `json:"actor"`
	Action    AdminAction `json:"action"`
	Details   string      `json:"details,omitempty"` // JSON string
	IPAddress string      `json:"ip_address"`
	CreatedAt time.Time   `json:"created_at"`
}
