package domain

import "strings"

// Address identifies an account on one chain. The engine treats it as an
// opaque identifier; recipient addresses on a swap are only meaningful on the
// counterparty chain.
type Address string

// CustodyAddress is the pool's own account. Swap funds are held here between
// initiate and complete/refund; counterparty preparation funds are minted
// here before release.
const CustodyAddress Address = "pool:custody"

// Valid reports whether the address is non-empty and not the custody account.
// External callers may never act as the pool itself.
func (a Address) Valid() bool {
	trimmed := strings.TrimSpace(string(a))
	return trimmed != "" && Address(trimmed) != CustodyAddress
}
