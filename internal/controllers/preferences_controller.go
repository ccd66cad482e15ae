package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus_commute/internal/store"
)

// PreferencesController reads and writes the small presentation
// preferences that persist directly in the store.
type PreferencesController struct {
	store store.Store
}

func NewPreferencesController(s store.Store) *PreferencesController {
	return &PreferencesController{store: s}
}

// GetTheme returns the saved theme, defaulting to light.
func (p *PreferencesController) GetTheme(c *gin.Context) {
	theme := "light"
	p.store.Get(store.KeyTheme, &theme)
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// SetTheme persists the theme choice.
func (p *PreferencesController) SetTheme(c *gin.Context) {
	var input struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Theme != "dark" && input.Theme != "light" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme must be dark or light"})
		return
	}
	if err := p.store.Set(store.KeyTheme, input.Theme); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": input.Theme})
}
