package models

// Roles determine which dashboard and API permissions apply.
const (
	RoleRider  = "rider"
	RoleDriver = "driver"
	RoleAdmin  = "admin"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleRider, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the account lifecycle state. Accounts are never hard-deleted;
// deletion is a status change.
type UserStatus string

const (
	UserActive              UserStatus = "active"
	UserSuspended           UserStatus = "suspended"
	UserDeleted             UserStatus = "deleted"
	UserPendingVerification UserStatus = "pending_verification"
)

// ValidUserStatus reports whether s is a known account status.
func ValidUserStatus(s UserStatus) bool {
	switch s {
	case UserActive, UserSuspended, UserDeleted, UserPendingVerification:
		return true
	}
	return false
}
