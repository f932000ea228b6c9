package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// UserRole is a role claim carried by the caller's token.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleApprover UserRole = "APPROVER"
	RoleMember   UserRole = "MEMBER"
)

// IsPrivileged reports whether any of the roles may approve or reject transactions.
func IsPrivileged(roles []UserRole) bool {
	for _, r := range roles {
		if r == RoleAdmin || r == RoleApprover {
			return true
		}
	}
	return false
}

// PrimaryRole returns the most privileged role in the list, defaulting to MEMBER.
func PrimaryRole(roles []UserRole) UserRole {
	best := RoleMember
	for _, r := range roles {
		switch r {
		case RoleAdmin:
			return RoleAdmin
		case RoleApprover:
			best = RoleApprover
		}
	}
	return best
}

// Actor is the authenticated caller performing an operation.
type Actor struct {
	UserID string
	Roles  []UserRole
}

// IsPrivileged reports whether the actor may approve or reject transactions.
func (a Actor) IsPrivileged() bool {
	return IsPrivileged(a.Roles)
}
