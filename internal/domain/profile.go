package domain

// Role is a user role carried in the access token and the profile
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleCustomer Role = "customer"
)

// Profile is the application-side record of an authenticated user
type Profile struct {
	ID        string  `json:"id"`
	FullName  string  `json:"full_name"`
	Role      Role    `json:"role"`
	CompanyID *string `json:"company_id,omitempty"`
}

// IsAdmin reports whether the profile has the admin role
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Company is the organization a manager publishes events for
type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
