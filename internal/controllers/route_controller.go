package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campus_commute/internal/models"
	"campus_commute/internal/routedir"
)

// RouteResponse mirrors models.Route with the stored WKB geometry decoded
// back to a GeoJSON string for API output.
type RouteResponse struct {
	ID             string   `json:"id"`
	Number         string   `json:"number"`
	Stops          []string `json:"stops"`
	Timing         string   `json:"timing"`
	AssignedBus    string   `json:"assignedBus,omitempty"`
	AssignedDriver string   `json:"assignedDriver,omitempty"`
	ConductorName  string   `json:"conductorName,omitempty"`
	ConductorPhone string   `json:"conductorPhone,omitempty"`
	Eta            *int     `json:"eta,omitempty"`
	Geometry       string   `json:"geometry,omitempty"`
}

func toRouteResponse(route models.Route) RouteResponse {
	jsonGeom, _ := routedir.GeometryGeoJSON(route.Geometry)
	return RouteResponse{
		ID:             route.ID,
		Number:         route.Number,
		Stops:          route.Stops,
		Timing:         route.Timing,
		AssignedBus:    route.AssignedBus,
		AssignedDriver: route.AssignedDriver,
		ConductorName:  route.ConductorName,
		ConductorPhone: route.ConductorPhone,
		Eta:            route.Eta,
		Geometry:       jsonGeom,
	}
}

// RouteController serves the route directory: full CRUD for the admin
// panel plus read-only listing and resolution for student/driver views.
type RouteController struct {
	directory *routedir.Directory
}

func NewRouteController(d *routedir.Directory) *RouteController {
	return &RouteController{directory: d}
}

// ListRoutes returns every route in the directory.
func (rc *RouteController) ListRoutes(c *gin.Context) {
	routes := rc.directory.List()
	responses := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		responses = append(responses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"routes": responses})
}

// GetRoute returns a single route by ID.
func (rc *RouteController) GetRoute(c *gin.Context) {
	route, err := rc.directory.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}

// CreateRoute adds a new route from the admin form.
func (rc *RouteController) CreateRoute(c *gin.Context) {
	var draft routedir.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	route, err := rc.directory.Create(draft)
	if err != nil {
		respondRouteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(route)})
}

// UpdateRoute patches an existing route. Fields absent from the body stay
// exactly as stored.
func (rc *RouteController) UpdateRoute(c *gin.Context) {
	var patch routedir.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		logrus.WithError(err).Warn("UpdateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	route, err := rc.directory.Update(c.Param("id"), patch)
	if err != nil {
		respondRouteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}

// DeleteRoute removes a route. Deleting twice is fine; the second call is
// a no-op.
func (rc *RouteController) DeleteRoute(c *gin.Context) {
	if err := rc.directory.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}

// ResolveRoute finds the route for a bare routeNo ("3" matches the route
// numbered "Route 3"). A miss is not an error: the designated fallback is
// returned so consumer views always have something to render.
func (rc *RouteController) ResolveRoute(c *gin.Context) {
	routeNo := c.Query("routeNo")
	route, ok := rc.directory.Resolve(routeNo)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(routedir.FallbackRoute()), "fallback": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route), "fallback": false})
}

func respondRouteError(c *gin.Context, err error) {
	var vErr *routedir.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
	case errors.Is(err, routedir.ErrRouteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	default:
		logrus.WithError(err).Error("routes: unexpected failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
