package routes

import (
	"github.com/gin-gonic/gin"

	"campus_commute/internal/controllers"
)

func PreferenceRoutes(r *gin.Engine, prefs *controllers.PreferencesController) {
	group := r.Group("/preferences")
	{
		group.GET("/theme", prefs.GetTheme)
		group.PUT("/theme", prefs.SetTheme)
	}
}
