package routes

import (
	"github.com/gin-gonic/gin"

	"campus_commute/internal/controllers"
	"campus_commute/internal/middleware"
)

func AccountRoutes(r *gin.Engine, account *controllers.AccountController) {
	group := r.Group("/account")
	group.Use(middleware.RequireAuth())
	{
		group.PUT("/profile", account.UpdateProfile)
		group.PUT("/password", account.ChangePassword)
		group.DELETE("/", account.DeleteAccount)
	}
}
