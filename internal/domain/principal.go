package domain

type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleBranchAdmin Role = "admin_cabang"
	RoleUser        Role = "user"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleBranchAdmin, RoleUser:
		return Role(s), true
	}
	return "", false
}

// Principal is the authenticated caller. It is threaded explicitly into every
// workflow call; nothing reads the current user from ambient state.
type Principal struct {
	UserID   string
	Role     Role
	BranchID *string
}

// CanActOnBranch reports whether the principal may mutate data owned by the
// given branch. Super admins may act anywhere; branch admins only on their own
// branch.
func (p Principal) CanActOnBranch(branchID string) bool {
	switch p.Role {
	case RoleSuperAdmin:
		return true
	case RoleBranchAdmin:
		return p.BranchID != nil && *p.BranchID == branchID
	}
	return false
}
