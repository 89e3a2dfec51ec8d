package domain

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID        string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// DisplayName builds the printable customer name, falling back to a generic
// label when the profile is missing or has no name fields.
func (u *User) DisplayName() string {
	if u == nil {
		return "Guest Customer"
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return "Guest Customer"
	}
	return name
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
