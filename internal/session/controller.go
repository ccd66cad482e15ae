package session

import (
	"errors"

	"github.com/sirupsen/logrus"

	"campus_commute/internal/models"
	"campus_commute/internal/registry"
	"campus_commute/internal/store"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrConfirmationRequired = errors.New("deletion must be explicitly confirmed")
	ErrResendExhausted      = errors.New("no OTP resends left")
	ErrFlowOrder            = errors.New("signup flow is not at the required step")
	ErrNotLoggedIn          = errors.New("no user is logged in")
)

// ErrDuplicateAccount is surfaced unchanged from the registry.
var ErrDuplicateAccount = registry.ErrDuplicateAccount

// Stage tracks how far an in-progress signup has advanced. Every
// transition checks its predecessor before doing anything else.
type Stage int

const (
	StageNone Stage = iota
	StageRoleChosen
	StageProfileCaptured
	StagePasswordSet
	StageOTPVerified
	StageCompleted
)

const otpResendBudget = 3

// Controller owns the current session and the pending signup flow. One
// instance serves one browsing session; it is built with its dependencies
// rather than reaching for globals, so tests can wire an in-memory store.
// There is no locking: the app is a single logical actor and concurrent
// multi-tab mutation is last-writer-wins, as in the original.
type Controller struct {
	store    store.Store
	registry *registry.Registry

	current *models.Account
	pending models.PendingSignup
	stage   Stage

	// registered holds the account committed at the password step until
	// OTP verification hands it to the session.
	registered *models.Account

	otpResendLeft    int
	pwChangeFailures int
}

// New builds a controller and restores any persisted session snapshot.
func New(s store.Store, reg *registry.Registry) *Controller {
	c := &Controller{store: s, registry: reg}
	var snapshot models.Account
	if s.Get(store.KeyCurrentUser, &snapshot) && snapshot.Email != "" {
		c.current = &snapshot
	}
	return c
}

// Reset abandons the pending signup flow. The session itself survives.
func (c *Controller) Reset() {
	c.pending = models.PendingSignup{}
	c.registered = nil
	c.stage = StageNone
	c.otpResendLeft = 0
}

// StartRole begins a flow as the given role, discarding any earlier
// pending data.
func (c *Controller) StartRole(role models.Role) error {
	if !models.ValidRole(role) {
		return invalid("role", "unknown role")
	}
	c.Reset()
	c.pending.Role = role
	c.stage = StageRoleChosen
	return nil
}

// CaptureStudentProfile validates and stores the student signup form.
// Terms must be accepted before the flow advances.
func (c *Controller) CaptureStudentProfile(draft models.StudentDraft, termsAccepted bool) error {
	if c.stage != StageRoleChosen || c.pending.Role != models.RoleStudent {
		return ErrFlowOrder
	}
	if err := validateFullName(draft.FullName); err != nil {
		return err
	}
	if err := validateYearBatch(draft.YearBatch); err != nil {
		return err
	}
	// Syntactic check only: the login domain allow-list does not apply at
	// signup.
	if err := validateEmail(draft.Email); err != nil {
		return err
	}
	if !termsAccepted {
		return invalid("terms", "Please accept the terms and conditions to continue")
	}
	c.pending.Student = &draft
	c.pending.Driver = nil
	c.pending.Email = draft.Email
	c.stage = StageProfileCaptured
	return nil
}

// CaptureDriverProfile validates and stores the driver signup form.
func (c *Controller) CaptureDriverProfile(draft models.DriverDraft, termsAccepted bool) error {
	if c.stage != StageRoleChosen || c.pending.Role != models.RoleDriver {
		return ErrFlowOrder
	}
	if err := validateFullName(draft.FullName); err != nil {
		return err
	}
	if draft.RouteNo == "" {
		return invalid("routeNo", "Please select a route")
	}
	if draft.Timing == "" {
		return invalid("timing", "Please select a timing")
	}
	if err := validateEmail(draft.Email); err != nil {
		return err
	}
	if !termsAccepted {
		return invalid("terms", "Please accept the terms and conditions to continue")
	}
	c.pending.Driver = &draft
	c.pending.Student = nil
	c.pending.Email = draft.Email
	c.stage = StageProfileCaptured
	return nil
}

// SetPassword finishes credential entry and commits the pending account to
// the registry. On ErrDuplicateAccount the flow stays at the profile step
// so the user can change email or log in instead.
func (c *Controller) SetPassword(password, confirm string) error {
	if c.stage != StageProfileCaptured {
		return ErrFlowOrder
	}
	if err := validatePassword("newPassword", password); err != nil {
		return err
	}
	if password != confirm {
		return invalid("confirmPassword", "Passwords do not match")
	}

	acc, err := c.registry.Register(c.pending.Email, password, c.pending.Role, c.pending.ToAccount())
	if err != nil {
		return err
	}
	c.registered = &acc
	c.otpResendLeft = otpResendBudget
	c.stage = StagePasswordSet
	return nil
}

// VerifyOTP accepts any 4-digit code. This is a UX gate, not a security
// gate: nothing is delivered and nothing is checked beyond the shape of
// the input.
func (c *Controller) VerifyOTP(code string) error {
	if c.stage != StagePasswordSet {
		return ErrFlowOrder
	}
	if !otpRegexp.MatchString(code) {
		return invalid("otp", "Please enter the complete 4-digit code")
	}
	c.stage = StageOTPVerified
	return nil
}

// ResendOTP burns one of the per-flow resend attempts. Exhausting the
// budget disables resending but never blocks VerifyOTP.
func (c *Controller) ResendOTP() (int, error) {
	if c.stage != StagePasswordSet {
		return c.otpResendLeft, ErrFlowOrder
	}
	if c.otpResendLeft <= 0 {
		return 0, ErrResendExhausted
	}
	c.otpResendLeft--
	return c.otpResendLeft, nil
}

// CompleteSignup consumes the verified pending flow into the live session,
// optionally applying extra profile fields gathered on the success screen.
func (c *Controller) CompleteSignup(extra *models.ProfilePatch) (models.Account, error) {
	if c.stage != StageOTPVerified || c.registered == nil {
		return models.Account{}, ErrFlowOrder
	}
	acc := *c.registered
	if extra != nil {
		updated, err := c.registry.Update(acc.Email, acc.Role, *extra)
		if err != nil {
			return models.Account{}, err
		}
		acc = updated
	}
	c.setCurrent(acc)
	c.pending = models.PendingSignup{}
	c.registered = nil
	c.stage = StageCompleted
	logrus.WithFields(logrus.Fields{"email": acc.Email, "role": acc.Role}).Info("session: signup completed")
	return acc.Sanitized(), nil
}

// Login authenticates against the registry for the pending role. The
// domain allow-list is enforced here and only here. Existence is probed
// before the password so the two failures stay distinguishable internally,
// even though the UI collapses them.
func (c *Controller) Login(email, password string) (models.Account, error) {
	if !models.ValidRole(c.pending.Role) {
		return models.Account{}, invalid("role", "choose a role before logging in")
	}
	if err := validateLoginEmail(email); err != nil {
		return models.Account{}, err
	}
	if err := validatePassword("password", password); err != nil {
		return models.Account{}, err
	}

	if _, ok := c.registry.Find(email, c.pending.Role); !ok {
		return models.Account{}, ErrAccountNotFound
	}
	acc, ok := c.registry.FindByCredentials(email, password, c.pending.Role)
	if !ok {
		return models.Account{}, ErrInvalidPassword
	}

	c.setCurrent(acc)
	c.stage = StageCompleted
	logrus.WithFields(logrus.Fields{"email": acc.Email, "role": acc.Role}).Info("session: login")
	return acc.Sanitized(), nil
}

// Logout clears the session only. Registry and route directory are
// untouched, and any pending signup keeps its place.
func (c *Controller) Logout() {
	c.current = nil
	c.store.Remove(store.KeyCurrentUser)
}

// UpdateUser merges a profile patch into the registry record and the live
// session snapshot, and refreshes the role-scoped profile blob.
func (c *Controller) UpdateUser(patch models.ProfilePatch) (models.Account, error) {
	if c.current == nil {
		return models.Account{}, ErrNotLoggedIn
	}
	if patch.FullName != nil {
		if err := validateFullName(*patch.FullName); err != nil {
			return models.Account{}, err
		}
	}
	if patch.Semester != nil {
		course := c.current.Course
		if patch.Course != nil {
			course = *patch.Course
		}
		if err := validateSemester(course, *patch.Semester); err != nil {
			return models.Account{}, err
		}
	}
	acc, err := c.registry.Update(c.current.Email, c.current.Role, patch)
	if err != nil {
		return models.Account{}, err
	}
	c.setCurrent(acc)
	return acc.Sanitized(), nil
}

// DeleteAccount removes the current user's account. It demands the current
// password and an explicit confirmation flag, then tears the session and
// the role-scoped cached blobs down.
func (c *Controller) DeleteAccount(password string, confirmed bool) error {
	if c.current == nil {
		return ErrNotLoggedIn
	}
	if password == "" {
		return invalid("password", "Please enter your password to confirm deletion")
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	if !c.registry.VerifyPassword(c.current.Email, c.current.Role, password) {
		return ErrInvalidPassword
	}

	email, role := c.current.Email, c.current.Role
	if err := c.registry.Delete(email, role); err != nil {
		return err
	}
	c.current = nil
	c.store.Remove(store.KeyCurrentUser)
	c.store.Remove(store.KeyStudentData)
	c.store.Remove(store.KeyDriverData)
	logrus.WithFields(logrus.Fields{"email": email, "role": role}).Info("session: account deleted")
	return nil
}

// ChangePassword verifies the current password against the registry's real
// stored hash (the original compared against a hardcoded sentinel; that gap
// is closed here) and installs the new one. Failed attempts are counted so
// the UI can offer the forgot-password escape hatch.
func (c *Controller) ChangePassword(current, newPassword, confirm string) error {
	if c.current == nil {
		return ErrNotLoggedIn
	}
	if !c.registry.VerifyPassword(c.current.Email, c.current.Role, current) {
		c.pwChangeFailures++
		return ErrInvalidPassword
	}
	if err := validatePassword("newPassword", newPassword); err != nil {
		return err
	}
	if newPassword != confirm {
		return invalid("confirmPassword", "Passwords do not match")
	}
	if err := c.registry.SetPassword(c.current.Email, c.current.Role, newPassword); err != nil {
		return err
	}
	c.pwChangeFailures = 0
	return nil
}

// ForgotPassword checks that an account exists for the pending role. No
// mail is sent; like the OTP step this is an interaction contract only.
func (c *Controller) ForgotPassword(email string) error {
	if !models.ValidRole(c.pending.Role) {
		return invalid("role", "choose a role first")
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if _, ok := c.registry.Find(email, c.pending.Role); !ok {
		return ErrAccountNotFound
	}
	return nil
}

// ResetPassword installs a new password for an account reached through the
// forgot-password flow.
func (c *Controller) ResetPassword(email, newPassword, confirm string) error {
	if !models.ValidRole(c.pending.Role) {
		return invalid("role", "choose a role first")
	}
	if err := validatePassword("newPassword", newPassword); err != nil {
		return err
	}
	if newPassword != confirm {
		return invalid("confirmPassword", "Passwords do not match")
	}
	if _, ok := c.registry.Find(email, c.pending.Role); !ok {
		return ErrAccountNotFound
	}
	return c.registry.SetPassword(email, c.pending.Role, newPassword)
}

func (c *Controller) setCurrent(acc models.Account) {
	snapshot := acc
	c.current = &snapshot
	if err := c.store.Set(store.KeyCurrentUser, snapshot); err != nil {
		logrus.WithError(err).Warn("session: could not persist session snapshot")
	}
	c.syncRoleBlob(snapshot)
}

// syncRoleBlob mirrors the sanitized account under the role-scoped cache
// key the profile screens read.
func (c *Controller) syncRoleBlob(acc models.Account) {
	key := ""
	switch acc.Role {
	case models.RoleStudent:
		key = store.KeyStudentData
	case models.RoleDriver:
		key = store.KeyDriverData
	}
	if key == "" {
		return
	}
	if err := c.store.Set(key, acc.Sanitized()); err != nil {
		logrus.WithError(err).Warn("session: could not persist profile blob")
	}
}

// CurrentUser returns the session snapshot, or false when logged out.
func (c *Controller) CurrentUser() (models.Account, bool) {
	if c.current == nil {
		return models.Account{}, false
	}
	return *c.current, true
}

func (c *Controller) PendingRole() models.Role { return c.pending.Role }

func (c *Controller) PendingEmail() string { return c.pending.Email }

func (c *Controller) Pending() models.PendingSignup { return c.pending }

func (c *Controller) Stage() Stage { return c.stage }

func (c *Controller) ResendRemaining() int { return c.otpResendLeft }

// ChangeFailures reports consecutive failed current-password checks since
// the last successful change.
func (c *Controller) ChangeFailures() int { return c.pwChangeFailures }
