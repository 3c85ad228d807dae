package constants

// Marketplace roles carried in the access token's "role" claim.
const (
	RoleOwner    = "OWNER"
	RoleProvider = "PROVIDER"
	RoleDriver   = "DRIVER"

	// RoleAny matches any authenticated user.
	RoleAny = "any"
)
