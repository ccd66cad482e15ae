package routes

import (
	"github.com/gin-gonic/gin"

	"campus_commute/internal/controllers"
	"campus_commute/internal/middleware"
)

// RouteRoutes is the read-only consumer surface: students and drivers
// list routes and resolve their own.
func RouteRoutes(r *gin.Engine, route *controllers.RouteController) {
	group := r.Group("/routes")
	group.Use(middleware.RequireAuth())
	{
		group.GET("/", route.ListRoutes)
		group.GET("/resolve", route.ResolveRoute)
	}
}
