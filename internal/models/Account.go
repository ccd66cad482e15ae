package models

// Role identifies which side of the app an account operates.
type Role string

const (
	RoleStudent Role = "student"
	RoleDriver  Role = "driver"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// Account is a registered identity. The same email may appear once per role;
// (Email, Role) is the identity key. Password holds the bcrypt hash, never
// the clear text.
type Account struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName"`

	// Student attributes
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Branch       string `json:"branch,omitempty"`
	Course       string `json:"course,omitempty"`
	Semester     int    `json:"semester,omitempty"`
	YearBatch    string `json:"yearBatch,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`

	// Driver attributes
	RouteNo   string `json:"routeNo,omitempty"`
	Timing    string `json:"timing,omitempty"`
	BusNumber string `json:"busNumber,omitempty"`
}

// ProfilePatch carries a partial profile update. Nil fields are left as-is.
// Email, role, and password are deliberately not patchable here.
type ProfilePatch struct {
	FullName     *string `json:"fullName"`
	PhoneNumber  *string `json:"phoneNumber"`
	Branch       *string `json:"branch"`
	Course       *string `json:"course"`
	Semester     *int    `json:"semester"`
	YearBatch    *string `json:"yearBatch"`
	ProfileImage *string `json:"profileImage"`
	RouteNo      *string `json:"routeNo"`
	Timing       *string `json:"timing"`
	BusNumber    *string `json:"busNumber"`
}

// Apply merges the patch into the account.
func (p ProfilePatch) Apply(a *Account) {
	if p.FullName != nil {
		a.FullName = *p.FullName
	}
	if p.PhoneNumber != nil {
		a.PhoneNumber = *p.PhoneNumber
	}
	if p.Branch != nil {
		a.Branch = *p.Branch
	}
	if p.Course != nil {
		a.Course = *p.Course
	}
	if p.Semester != nil {
		a.Semester = *p.Semester
	}
	if p.YearBatch != nil {
		a.YearBatch = *p.YearBatch
	}
	if p.ProfileImage != nil {
		a.ProfileImage = *p.ProfileImage
	}
	if p.RouteNo != nil {
		a.RouteNo = *p.RouteNo
	}
	if p.Timing != nil {
		a.Timing = *p.Timing
	}
	if p.BusNumber != nil {
		a.BusNumber = *p.BusNumber
	}
}

// Sanitized returns a copy safe for API responses, with the password hash
// blanked out.
func (a Account) Sanitized() Account {
	a.Password = ""
	return a
}
