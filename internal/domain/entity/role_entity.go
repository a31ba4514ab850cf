package entity

// Role is the authorization role carried by a User and its tokens.
type Role string

const (
	RoleOrganization Role = "organization"
	RoleAdopter      Role = "adopter"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOrganization, RoleAdopter:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
