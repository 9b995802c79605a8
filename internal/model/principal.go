package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Principal is the authenticated caller of a request. It is passed explicitly
// into every service call.
type Principal struct {
	UserID uuid.UUID
	Role   Role
	Name   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) CanApprove() bool {
	return p.Role == RoleAdmin || p.Role == RoleManager
}

func (p Principal) IsKnownRole() bool {
	switch p.Role {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	default:
		return false
	}
}
