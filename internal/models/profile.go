// internal/models/profile.go
package models

// Role is the account type stored on a profile.
type Role string

const (
	RoleEnterpriseAdmin Role = "enterprise_admin"
	RoleRecruiter       Role = "recruiter"
	RoleCandidate       Role = "candidate"
)

// IsRecruiter reports whether the role sees the hiring side of the product.
// Unknown roles are treated as candidates.
func IsRecruiter(role Role) bool {
	return role == RoleRecruiter || role == RoleEnterpriseAdmin
}

type Profile struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Role      Role    `json:"role"`
	CompanyID *string `json:"companyId,omitempty"`
	Location  *string `json:"location,omitempty"`
}

// CompanyIDOrEmpty returns the company id, or "" for profiles without one.
func (p Profile) CompanyIDOrEmpty() string {
	if p.CompanyID == nil {
		return ""
	}
	return *p.CompanyID
}

type Company struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logoUrl,omitempty"`
}
