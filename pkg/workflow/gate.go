package workflow

// Authorize decides whether an actor's role satisfies the role gating a
// transition. The wildcard role admits any authenticated actor, and the
// superuser role passes every gate. The caller resolves the actor's role
// before invoking; this function touches no storage or network.
func Authorize(requiredRole, actorRole string) bool {
	if requiredRole == RoleAny {
		return true
	}
	if actorRole == RoleSuperuser {
		return true
	}
	return actorRole == requiredRole
}
