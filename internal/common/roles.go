package common

// Role labels are free-form strings (e.g. "ROLE_ADMIN", "ROLE_ADMINISTRATIF").
// Gating is always a set-membership check so new roles need no code changes.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// RoleSet is a set of role labels.
type RoleSet map[string]struct{}

// NewRoleSet builds a RoleSet from a slice of labels, ignoring empty ones.
func NewRoleSet(roles []string) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether the set contains the given role.
func (s RoleSet) Has(role string) bool {
	_, ok := s[role]
	return ok
}
