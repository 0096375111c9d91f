package authz

// Staff roles, most to least privileged. AUDITOR is read-only: it can view
// everything, including the activity log, but cannot mutate.
const (
	RoleOwner    = "OWNER"
	RoleManager  = "MANAGER"
	RolePreparer = "PREPARER"
	RoleAuditor  = "AUDITOR"
)

func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RolePreparer, RoleAuditor:
		return true
	}
	return false
}

// CanManageUsers reports whether the role may create or modify staff accounts.
func CanManageUsers(role string) bool {
	return role == RoleOwner || role == RoleManager
}

func IsReadOnly(role string) bool {
	return role == RoleAuditor
}
