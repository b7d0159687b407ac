package domain

import "github.com/google/uuid"

// Role is the opaque role enumeration supplied by the identity layer.
type Role string

const (
	RoleMember Role = "MEMBER" // renter or lender
	RoleAgent  Role = "DELIVERY_AGENT"
	RoleAdmin  Role = "ADMIN"
)

// Actor identifies who is performing an operation. It is always passed
// explicitly into service calls, never read from ambient state.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsAgent() bool {
	return a.Role == RoleAgent
}
