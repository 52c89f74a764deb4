package profile

// Role governs which dashboards and operations a principal may access.
type Role string

const (
	RoleUser      Role = "user"
	RoleCommittee Role = "committee"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCommittee, RoleAdmin:
		return true
	}
	return false
}

// RoleOrDefault maps a stored role value to a Role, falling back to
// RoleUser for empty or unknown values.
func RoleOrDefault(s string) Role {
	r := Role(s)
	if !r.Valid() {
		return RoleUser
	}
	return r
}

// Profile is the stored record of a principal's role and contact details.
// The Firebase UID is the document key and the primary identifier.
type Profile struct {
	UID       string `json:"uid" firestore:"uid"`
	FirstName string `json:"firstName" firestore:"firstName"`
	LastName  string `json:"lastName" firestore:"lastName"`
	Email     string `json:"email" firestore:"email"`
	Role      Role   `json:"role" firestore:"role"`
	BirthDate string `json:"birthDate,omitempty" firestore:"birthDate"`
	Phone     string `json:"phone,omitempty" firestore:"phone"`
	SAPNumber string `json:"sapNumber,omitempty" firestore:"sapNumber"`
	CreatedAt string `json:"createdAt,omitempty" firestore:"createdAt"`

	// Audit fields, written only by role updates.
	UpdatedAt string `json:"updatedAt,omitempty" firestore:"updatedAt"`
	UpdatedBy string `json:"updatedBy,omitempty" firestore:"updatedBy"`
}
