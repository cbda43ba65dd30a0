package auth

// Allow reports whether a caller holding callerRoles satisfies a gate that
// requires any of requiredRoles. An empty requirement only demands an
// authenticated caller. Roles come from verified token claims; this function
// never reads the identity store.
func Allow(callerRoles, requiredRoles []string) bool {
	if len(requiredRoles) == 0 {
		return true
	}

	for _, required := range requiredRoles {
		for _, held := range callerRoles {
			if held == required {
				return true
			}
		}
	}

	return false
}
