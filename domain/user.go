package domain

// Roles a user can hold. A role is fixed when the user is created.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

type User struct {
	ID        int64  `json:"_id" db:"id"`
	Name      string `json:"name" db:"name"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"-" db:"password"`
	Role      string `json:"role" db:"role"`
	CreatedAt string `json:"createdAt,omitempty" db:"created_at"`
}

// ValidRole reports whether role is one the API knows about.
func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleStaff
}
