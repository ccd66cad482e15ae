package routes

import (
	"github.com/gin-gonic/gin"

	"campus_commute/internal/controllers"
	"campus_commute/internal/registry"
	"campus_commute/internal/routedir"
	"campus_commute/internal/session"
	"campus_commute/internal/store"
)

// SetupRouter wires the domain services on top of the store and mounts
// every route group.
func SetupRouter(st store.Store) *gin.Engine {
	r := gin.Default()

	reg := registry.New(st)
	sessions := session.New(st, reg)
	directory := routedir.New(st)

	auth := controllers.NewAuthController(sessions)
	account := controllers.NewAccountController(sessions)
	route := controllers.NewRouteController(directory)
	prefs := controllers.NewPreferencesController(st)

	AuthRoutes(r, auth)
	AccountRoutes(r, account)
	AdminRoutes(r, route)
	RouteRoutes(r, route)
	PreferenceRoutes(r, prefs)

	return r
}
