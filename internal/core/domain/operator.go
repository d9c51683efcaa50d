package domain

// Role is an access-gate role. The owner holds full administrative control;
// the responder is the operational role that prepares counterparty locks and
// sets the exchange rate.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleResponder Role = "responder"
)

// Valid reports whether the role is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleResponder
}

// Operator is an administrative account able to authenticate against the API.
// Accounts are seeded from configuration; there is no self-registration.
type Operator struct {
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"` // bcrypt, never expose
	Role         Role    `json:"role"`
	Address      Address `json:"address"`
}
