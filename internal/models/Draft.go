package models

// StudentDraft is the profile a student supplies during signup, before a
// password exists.
type StudentDraft struct {
	FullName  string `json:"fullName"`
	YearBatch string `json:"yearBatch"`
	Email     string `json:"email"`
}

// DriverDraft is the driver-side signup profile. RouteNo is the bare number
// ("3"), matched later against the directory's "Route 3".
type DriverDraft struct {
	FullName string `json:"fullName"`
	RouteNo  string `json:"routeNo"`
	Timing   string `json:"timing"`
	Email    string `json:"email"`
}

// PendingSignup accumulates signup state across the role → profile →
// password → OTP pipeline. It is a tagged union over the pending role:
// exactly one of Student/Driver is set once the profile step has run.
// Never persisted; lives only inside the session controller.
type PendingSignup struct {
	Role    Role
	Email   string
	Student *StudentDraft
	Driver  *DriverDraft
}

// ToAccount builds the account committed at registration time. The
// registry fills in the password hash.
func (p PendingSignup) ToAccount() Account {
	acc := Account{
		Email: p.Email,
		Role:  p.Role,
	}
	switch {
	case p.Student != nil:
		acc.FullName = p.Student.FullName
		acc.YearBatch = p.Student.YearBatch
	case p.Driver != nil:
		acc.FullName = p.Driver.FullName
		acc.RouteNo = p.Driver.RouteNo
		acc.Timing = p.Driver.Timing
	}
	return acc
}
