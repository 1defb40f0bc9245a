package domain

// Role enumerates the kinds of actors.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) Is(role Role) bool {
	return a.Role == role
}
