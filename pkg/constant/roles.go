package constants

// Roles supplied by the upstream access-control collaborator.
const (
	RoleCitizen = "CITIZEN"
	RoleRescuer = "RESCUER"
	RoleAdmin   = "ADMIN"
)

func ValidRole(role string) bool {
	switch role {
	case RoleCitizen, RoleRescuer, RoleAdmin:
		return true
	}
	return false
}
