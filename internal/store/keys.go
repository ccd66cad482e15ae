package store

// Well-known keys. This is the de facto schema of the store: every durable
// piece of state in the app lives under one of these.
//
// The original frontend kept two divergent account collections
// ("registeredAccounts" and "campus-commute-accounts") written by different
// code paths. They are unified here: KeyAccounts is the single registry
// collection that signup, login, and account deletion all operate on.
const (
	KeyAccounts    = "campus-commute-accounts"
	KeyCurrentUser = "currentUser"
	KeyRoutes      = "adminRoutes"
	KeyTheme       = "theme"
	KeyStudentData = "studentData"
	KeyDriverData  = "driverData"
)
