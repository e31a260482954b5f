package domain

// User roles.
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)
