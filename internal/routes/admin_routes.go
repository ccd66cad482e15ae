package routes

import (
	"github.com/gin-gonic/gin"

	"campus_commute/internal/controllers"
	"campus_commute/internal/middleware"
)

func AdminRoutes(r *gin.Engine, route *controllers.RouteController) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.GET("/routes", route.ListRoutes)
		admin.GET("/routes/:id", route.GetRoute)
		admin.POST("/routes", route.CreateRoute)
		admin.PUT("/routes/:id", route.UpdateRoute)
		admin.DELETE("/routes/:id", route.DeleteRoute)
	}
}
