package catalog

// Role names as provisioned in the identity provider's groups.
const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Actor is the authenticated caller of a mutation, resolved per request.
// Privilege is never cached between requests.
type Actor struct {
	Username string
	Roles    []string
}

// Privileged reports whether the actor may bypass the approval gate and
// resolve pending change requests.
func (a Actor) Privileged() bool {
	for _, role := range a.Roles {
		if role == RoleAdmin || role == RoleSuperAdmin {
			return true
		}
	}
	return false
}
