package models

// Route is one admin-curated bus route. Number is the display key other
// roles join against ("Route 3"); it must stay unique and stable. Stops is
// an ordered timeline: index 0 is the start, the last index the end.
type Route struct {
	ID     string   `json:"id"`
	Number string   `json:"number"`
	Stops  []string `json:"stops"`
	Timing string   `json:"timing"`

	AssignedBus    string `json:"assignedBus,omitempty"`
	AssignedDriver string `json:"assignedDriver,omitempty"`
	ConductorName  string `json:"conductorName,omitempty"`
	ConductorPhone string `json:"conductorPhone,omitempty"`

	// Eta in minutes, consumed literally by the student-facing display.
	// Nil means not set; never negative.
	Eta *int `json:"eta,omitempty"`

	// Optional path for the map view, stored as WKB (LINESTRING).
	// The API speaks GeoJSON; conversion happens at the directory boundary.
	Geometry []byte `json:"geometry,omitempty"`
}
