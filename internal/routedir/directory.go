package routedir

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"

	"campus_commute/internal/models"
	"campus_commute/internal/store"
)

var ErrRouteNotFound = errors.New("route not found")

// ValidationError reports a rejected route draft field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Draft is the admin's create/edit form. Stops arrive as one
// comma-delimited string; Geometry, when present, is a GeoJSON LineString.
type Draft struct {
	Number         string `json:"number"`
	Stops          string `json:"stops"`
	Timing         string `json:"timing"`
	AssignedBus    string `json:"assignedBus"`
	AssignedDriver string `json:"assignedDriver"`
	ConductorName  string `json:"conductorName"`
	ConductorPhone string `json:"conductorPhone"`
	Eta            *int   `json:"eta"`
	Geometry       string `json:"geometry"`
}

// Patch updates individual route fields; nil means leave unchanged.
type Patch struct {
	Number         *string `json:"number"`
	Stops          *string `json:"stops"`
	Timing         *string `json:"timing"`
	AssignedBus    *string `json:"assignedBus"`
	AssignedDriver *string `json:"assignedDriver"`
	ConductorName  *string `json:"conductorName"`
	ConductorPhone *string `json:"conductorPhone"`
	Eta            *int    `json:"eta"`
	Geometry       *string `json:"geometry"`
}

// Directory is the admin-curated set of bus routes, persisted as one list
// under store.KeyRoutes. Like the registry it re-reads and re-writes the
// whole collection per call.
type Directory struct {
	store store.Store
}

func New(s store.Store) *Directory {
	return &Directory{store: s}
}

func (d *Directory) load() []models.Route {
	var routes []models.Route
	d.store.Get(store.KeyRoutes, &routes)
	return routes
}

func (d *Directory) save(routes []models.Route) error {
	return d.store.Set(store.KeyRoutes, routes)
}

// List returns every route.
func (d *Directory) List() []models.Route {
	return d.load()
}

// Get returns a single route by ID.
func (d *Directory) Get(id string) (models.Route, error) {
	for _, r := range d.load() {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Route{}, ErrRouteNotFound
}

// Create validates the draft and appends a new route with a fresh ID.
func (d *Directory) Create(draft Draft) (models.Route, error) {
	if strings.TrimSpace(draft.Number) == "" {
		return models.Route{}, &ValidationError{Field: "number", Message: "Route number is required"}
	}
	if strings.TrimSpace(draft.Stops) == "" {
		return models.Route{}, &ValidationError{Field: "stops", Message: "Stops are required"}
	}
	if strings.TrimSpace(draft.Timing) == "" {
		return models.Route{}, &ValidationError{Field: "timing", Message: "Timing is required"}
	}
	if draft.Eta != nil && *draft.Eta < 0 {
		return models.Route{}, &ValidationError{Field: "eta", Message: "ETA must not be negative"}
	}
	wkbGeom, err := parseGeometry(draft.Geometry)
	if err != nil {
		return models.Route{}, &ValidationError{Field: "geometry", Message: "Invalid geometry: " + err.Error()}
	}

	route := models.Route{
		ID:             uuid.NewString(),
		Number:         draft.Number,
		Stops:          SplitStops(draft.Stops),
		Timing:         draft.Timing,
		AssignedBus:    draft.AssignedBus,
		AssignedDriver: draft.AssignedDriver,
		ConductorName:  draft.ConductorName,
		ConductorPhone: draft.ConductorPhone,
		Eta:            draft.Eta,
		Geometry:       wkbGeom,
	}

	routes := append(d.load(), route)
	if err := d.save(routes); err != nil {
		return models.Route{}, err
	}
	logrus.WithField("number", route.Number).Info("routedir: route created")
	return route, nil
}

// Update applies the patch to the route with the given ID. Unpatched
// fields are left exactly as stored.
func (d *Directory) Update(id string, patch Patch) (models.Route, error) {
	routes := d.load()
	for i := range routes {
		if routes[i].ID != id {
			continue
		}
		if err := applyPatch(&routes[i], patch); err != nil {
			return models.Route{}, err
		}
		if err := d.save(routes); err != nil {
			return models.Route{}, err
		}
		return routes[i], nil
	}
	return models.Route{}, ErrRouteNotFound
}

func applyPatch(route *models.Route, patch Patch) error {
	if patch.Number != nil {
		if strings.TrimSpace(*patch.Number) == "" {
			return &ValidationError{Field: "number", Message: "Route number is required"}
		}
		route.Number = *patch.Number
	}
	if patch.Stops != nil {
		if strings.TrimSpace(*patch.Stops) == "" {
			return &ValidationError{Field: "stops", Message: "Stops are required"}
		}
		route.Stops = SplitStops(*patch.Stops)
	}
	if patch.Timing != nil {
		if strings.TrimSpace(*patch.Timing) == "" {
			return &ValidationError{Field: "timing", Message: "Timing is required"}
		}
		route.Timing = *patch.Timing
	}
	if patch.AssignedBus != nil {
		route.AssignedBus = *patch.AssignedBus
	}
	if patch.AssignedDriver != nil {
		route.AssignedDriver = *patch.AssignedDriver
	}
	if patch.ConductorName != nil {
		route.ConductorName = *patch.ConductorName
	}
	if patch.ConductorPhone != nil {
		route.ConductorPhone = *patch.ConductorPhone
	}
	if patch.Eta != nil {
		if *patch.Eta < 0 {
			return &ValidationError{Field: "eta", Message: "ETA must not be negative"}
		}
		eta := *patch.Eta
		route.Eta = &eta
	}
	if patch.Geometry != nil {
		if *patch.Geometry == "" {
			route.Geometry = nil
		} else {
			wkbGeom, err := parseGeometry(*patch.Geometry)
			if err != nil {
				return &ValidationError{Field: "geometry", Message: "Invalid geometry: " + err.Error()}
			}
			route.Geometry = wkbGeom
		}
	}
	return nil
}

// Delete removes a route by ID. Deleting an absent route is a no-op.
func (d *Directory) Delete(id string) error {
	routes := d.load()
	kept := routes[:0]
	for _, r := range routes {
		if r.ID == id {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == len(routes) {
		return nil
	}
	return d.save(kept)
}

// Resolve finds the route a student or driver with the given bare route
// number should see: Number must equal "Route " + routeNo. The join is
// informal; callers fall back to FallbackRoute when it misses.
func (d *Directory) Resolve(routeNo string) (models.Route, bool) {
	want := "Route " + routeNo
	for _, r := range d.load() {
		if r.Number == want {
			return r, true
		}
	}
	return models.Route{}, false
}

// FallbackRoute is the designated default shown when resolution fails,
// matching the stop list the home screen ships with.
func FallbackRoute() models.Route {
	eta := 10
	return models.Route{
		Number: "Route no.1",
		Stops:  []string{"Kottur", "Saidapet", "Guindy", "Campus"},
		Timing: "06:00 AM",
		Eta:    &eta,
	}
}

// SplitStops turns the admin's comma-delimited stop string into the ordered
// stop list, trimming each entry. Empty entries after trimming are kept,
// as in the original editor.
func SplitStops(raw string) []string {
	parts := strings.Split(raw, ",")
	stops := make([]string, len(parts))
	for i, p := range parts {
		stops[i] = strings.TrimSpace(p)
	}
	return stops
}

// parseGeometry parses a GeoJSON string into WKB bytes for storage.
func parseGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// GeometryGeoJSON converts stored WKB bytes back into a GeoJSON string for
// API responses.
func GeometryGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
