package models

// Role identifies what an actor is allowed to do with a booking.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleMechanic Role = "mechanic"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleMechanic, RoleAdmin:
		return true
	}
	return false
}

// User is a read-only projection of the user directory. The booking
// engine never mutates user records.
type User struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Role     Role   `bson:"role" json:"role"`
	IsActive bool   `bson:"is_active" json:"is_active"`
}
