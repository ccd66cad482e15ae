package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campus_commute/internal/middleware"
	"campus_commute/internal/models"
	"campus_commute/internal/session"
)

// AuthController exposes the signup pipeline and login over HTTP. All
// state transitions happen inside the session controller; this layer only
// binds input and maps errors to status codes.
type AuthController struct {
	sessions *session.Controller
}

func NewAuthController(s *session.Controller) *AuthController {
	return &AuthController{sessions: s}
}

// ChooseRole starts a fresh pending flow as the given role.
func (a *AuthController) ChooseRole(c *gin.Context) {
	var input struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.sessions.StartRole(input.Role); err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pendingRole": input.Role})
}

type studentSignupInput struct {
	FullName      string `json:"fullName"`
	YearBatch     string `json:"yearBatch"`
	Email         string `json:"email"`
	TermsAccepted bool   `json:"termsAccepted"`
}

type driverSignupInput struct {
	FullName      string `json:"fullName"`
	RouteNo       string `json:"routeNo"`
	Timing        string `json:"timing"`
	Email         string `json:"email"`
	TermsAccepted bool   `json:"termsAccepted"`
}

// Signup captures the role-specific profile form. The body is decoded
// strictly: unknown keys are rejected here at the boundary rather than
// silently folded into the pending data.
func (a *AuthController) Signup(c *gin.Context) {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	switch a.sessions.PendingRole() {
	case models.RoleStudent:
		var input studentSignupInput
		if err := dec.Decode(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		draft := models.StudentDraft{FullName: input.FullName, YearBatch: input.YearBatch, Email: input.Email}
		if err := a.sessions.CaptureStudentProfile(draft, input.TermsAccepted); err != nil {
			respondSessionError(c, err)
			return
		}
	case models.RoleDriver:
		var input driverSignupInput
		if err := dec.Decode(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		draft := models.DriverDraft{FullName: input.FullName, RouteNo: input.RouteNo, Timing: input.Timing, Email: input.Email}
		if err := a.sessions.CaptureDriverProfile(draft, input.TermsAccepted); err != nil {
			respondSessionError(c, err)
			return
		}
	default:
		c.JSON(http.StatusConflict, gin.H{"error": "Choose a role before signing up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pendingEmail": a.sessions.PendingEmail()})
}

// SetPassword finishes credential entry and registers the account.
func (a *AuthController) SetPassword(c *gin.Context) {
	var input struct {
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.sessions.SetPassword(input.NewPassword, input.ConfirmPassword); err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account created, verification pending"})
}

// VerifyOTP accepts the 4-digit code. Any 4 digits pass; the OTP screen is
// a UX gate with no delivery behind it, exactly as in the original app.
func (a *AuthController) VerifyOTP(c *gin.Context) {
	var input struct {
		Otp string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.sessions.VerifyOTP(input.Otp); err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verified"})
}

// ResendOTP burns one resend attempt and reports how many remain.
func (a *AuthController) ResendOTP(c *gin.Context) {
	remaining, err := a.sessions.ResendOTP()
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resendRemaining": remaining})
}

// CompleteSignup commits the verified flow into the session and returns a
// token, the same shape login produces.
func (a *AuthController) CompleteSignup(c *gin.Context) {
	var input struct {
		Extra *models.ProfilePatch `json:"extra"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	acc, err := a.sessions.CompleteSignup(input.Extra)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	token, err := middleware.GenerateToken(acc.Email, string(acc.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": acc})
}

// Login authenticates for the pending role and returns a token.
func (a *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acc, err := a.sessions.Login(input.Email, input.Password)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	token, err := middleware.GenerateToken(acc.Email, string(acc.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": acc})
}

// Logout drops the session snapshot. Registered accounts and routes are
// untouched.
func (a *AuthController) Logout(c *gin.Context) {
	a.sessions.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ForgotPassword confirms an account exists for the pending role. Nothing
// is delivered.
func (a *AuthController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.sessions.ForgotPassword(input.Email); err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reset code sent"})
}

// ResetPassword installs a new password through the forgot-password flow.
func (a *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Email           string `json:"email" binding:"required"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.sessions.ResetPassword(input.Email, input.NewPassword, input.ConfirmPassword); err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset"})
}

// Session reports the current user and pending-flow state for the client
// to hydrate from.
func (a *AuthController) Session(c *gin.Context) {
	resp := gin.H{
		"pendingRole":  a.sessions.PendingRole(),
		"pendingEmail": a.sessions.PendingEmail(),
	}
	if acc, ok := a.sessions.CurrentUser(); ok {
		resp["user"] = acc.Sanitized()
	}
	c.JSON(http.StatusOK, resp)
}

// respondSessionError maps session/registry errors to HTTP responses.
// AccountNotFound and InvalidPassword deliberately share one user-facing
// message to avoid account enumeration; the real cause goes to the log.
func respondSessionError(c *gin.Context, err error) {
	var vErr *session.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
	case errors.Is(err, session.ErrDuplicateAccount):
		c.JSON(http.StatusConflict, gin.H{"error": "This email is already registered"})
	case errors.Is(err, session.ErrAccountNotFound), errors.Is(err, session.ErrInvalidPassword):
		logrus.WithError(err).Info("auth: rejected credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, session.ErrConfirmationRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please confirm that you want to delete your account"})
	case errors.Is(err, session.ErrResendExhausted):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "No resend attempts left"})
	case errors.Is(err, session.ErrFlowOrder):
		c.JSON(http.StatusConflict, gin.H{"error": "Signup steps must be completed in order"})
	case errors.Is(err, session.ErrNotLoggedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
	default:
		logrus.WithError(err).Error("auth: unexpected failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
