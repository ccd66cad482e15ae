package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus_commute/internal/models"
	"campus_commute/internal/session"
)

// AccountController serves the logged-in user's self-service operations:
// profile edits, password change, account deletion.
type AccountController struct {
	sessions *session.Controller
}

func NewAccountController(s *session.Controller) *AccountController {
	return &AccountController{sessions: s}
}

// UpdateProfile merges a partial profile into the current account.
func (a *AccountController) UpdateProfile(c *gin.Context) {
	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	acc, err := a.sessions.UpdateUser(patch)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": acc})
}

// ChangePassword swaps the current password for a new one. After a failed
// current-password check the response carries forgotPassword so the client
// can surface the escape hatch.
func (a *AccountController) ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := a.sessions.ChangePassword(input.CurrentPassword, input.NewPassword, input.ConfirmPassword)
	if errors.Is(err, session.ErrInvalidPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":          "Current password is incorrect",
			"forgotPassword": a.sessions.ChangeFailures() >= 1,
		})
		return
	}
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// DeleteAccount removes the current account after password re-entry and an
// explicit confirmation.
func (a *AccountController) DeleteAccount(c *gin.Context) {
	var input struct {
		Password      string `json:"password"`
		ConfirmDelete bool   `json:"confirmDelete"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.sessions.DeleteAccount(input.Password, input.ConfirmDelete); err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
